package sheet

import (
	"fmt"
	"strings"
)

// Well-known column positions that have no discoverable header in the tracking
// sheet layout.
const (
	titleColumn    = 1  // column B
	clientColumn   = 2  // column C
	keywordsColumn = 4  // column E
	approvalColumn = 14 // column O
)

// schema maps the named columns the pipeline reads. It is resolved once per
// snapshot and validated before any row is interpreted, so a renamed column
// fails fast instead of silently reading the wrong cell.
type schema struct {
	url      int
	date     int
	approval int
}

// resolveSchema locates columns by case-insensitive header substring match. The
// approval column prefers a header match and falls back to its fixed position.
func resolveSchema(headers []string) (schema, error) {
	s := schema{url: -1, date: -1, approval: -1}
	for i, h := range headers {
		lower := strings.ToLower(h)
		if s.url < 0 && strings.Contains(lower, "url") {
			s.url = i
		}
		if s.date < 0 && strings.Contains(lower, "publish") {
			s.date = i
		}
		if s.approval < 0 && strings.Contains(lower, "approval") {
			s.approval = i
		}
	}
	if s.approval < 0 {
		s.approval = approvalColumn
	}

	if s.url < 0 {
		return schema{}, fmt.Errorf("sheet schema: no header contains %q", "url")
	}
	if s.date < 0 {
		return schema{}, fmt.Errorf("sheet schema: no header contains %q", "publish")
	}
	return s, nil
}

// cell returns the trimmed value at idx, or "" when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
