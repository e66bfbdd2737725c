package assemble

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStrip     = regexp.MustCompile(`[*+~.()'"!:@&]`)
	slugSqueeze   = regexp.MustCompile(`[^a-z0-9]+`)
	slugFoldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify turns a post title into a URL-safe slug. Diacritics are folded
// to their ASCII base characters, punctuation is dropped, and any
// remaining non-alphanumeric runs collapse to a single hyphen.
func Slugify(title string) string {
	folded, _, err := transform.String(slugFoldChain, title)
	if err != nil {
		folded = title
	}
	s := strings.ToLower(folded)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSqueeze.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
