package sheet

import (
	"regexp"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
)

// Item is one candidate publish record from the tracking sheet. Immutable per
// run; created from a point-in-time snapshot read.
type Item struct {
	RowIndex    int      // 1-based sheet row, accounting for the header row
	PostURL     string   // document reference URL
	Approved    bool     // approval cell equals "YES" (case-insensitive)
	PublishDate string   // raw scheduled-date cell
	Title       string
	Client      string
	Keywords    string   // raw comma-separated keyword cell
	Raw         []string // full row snapshot
}

// docURLPattern is the document-link grammar: /document/d/<id>.
var docURLPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

// ExtractDocID pulls the document id out of a reference URL.
func ExtractDocID(url string) (string, error) {
	m := docURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", errors.InvalidReference(url)
	}
	return m[1], nil
}

// hasValidURL reports whether the reference matches the document-link grammar.
func (it Item) hasValidURL() bool {
	return docURLPattern.MatchString(it.PostURL)
}
