package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
)

// nativeLayouts are tried before the structured patterns. They cover ISO dates
// and the formats sheet exports commonly produce.
var nativeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// structuredDate matches M/D/Y, D/M/Y and Y/M/D with / or - separators; the
// 4-digit group tells the variants apart.
var structuredDate = regexp.MustCompile(`^(\d{1,4})[/-](\d{1,2})[/-](\d{1,4})$`)

// ParseDate parses a scheduled-date cell. Exhausting every format returns a
// sheet parse error so the caller can exclude the row without aborting the batch.
func ParseDate(raw string) (time.Time, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return time.Time{}, errors.SheetParseError("empty date cell")
	}

	for _, layout := range nativeLayouts {
		if t, err := time.ParseInLocation(layout, clean, time.Local); err == nil {
			return t, nil
		}
	}

	if m := structuredDate.FindStringSubmatch(clean); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		c, _ := strconv.Atoi(m[3])
		switch {
		case len(m[1]) == 4:
			// Y/M/D
			if t, ok := makeDate(a, b, c); ok {
				return t, nil
			}
		case len(m[3]) == 4:
			// M/D/Y by default (US sheets); fall back to D/M/Y when the first
			// group cannot be a month.
			if a <= 12 {
				if t, ok := makeDate(c, a, b); ok {
					return t, nil
				}
			}
			if t, ok := makeDate(c, b, a); ok {
				return t, nil
			}
		}
	}

	return time.Time{}, errors.SheetParseError(fmt.Sprintf("unable to parse date %q", raw))
}

// makeDate builds a local-calendar date, rejecting out-of-range components
// instead of letting time.Date normalize them into a different day.
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// dateReached reports publishDate <= today at day granularity, local calendar.
func dateReached(publishDate, now time.Time) bool {
	p := time.Date(publishDate.Year(), publishDate.Month(), publishDate.Day(), 0, 0, 0, 0, time.Local)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !p.After(n)
}
