package assemble

import (
	"fmt"
	"regexp"
	"strings"
)

// Body enrichment runs as a fixed sequence: normalize markdown first,
// then splice supporting images, then prepend navigation components
// for long reads. Reordering the steps changes paragraph indices and
// therefore image placement.

var (
	deepHeadings    = regexp.MustCompile(`(?m)^#{7,}`)
	headingLines    = regexp.MustCompile(`\n(#{1,6}[^\n]*)\n`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)
	quotedLines     = regexp.MustCompile(`(?m)^"(.+)"$`)
	orderedMarkers  = regexp.MustCompile(`(?m)^(\d+)\.\s+`)
	unorderedMarker = regexp.MustCompile(`(?m)^[-*]\s+`)
)

// normalizeMarkdown tidies the converted document body: heading depth
// is clamped to six, headings get surrounding blank lines, blank runs
// collapse, bare quoted lines become blockquotes, and list markers are
// made uniform.
func normalizeMarkdown(body string) string {
	s := deepHeadings.ReplaceAllString(body, "######")
	s = headingLines.ReplaceAllString(s, "\n\n$1\n\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	s = quotedLines.ReplaceAllString(s, "> $1")
	s = orderedMarkers.ReplaceAllString(s, "$1. ")
	s = unorderedMarker.ReplaceAllString(s, "- ")
	return strings.TrimSpace(s)
}

// spliceImages distributes supporting images across the article at
// roughly even paragraph intervals. Insertion points are clamped away
// from the opening and closing paragraphs, and articles under four
// paragraphs are left untouched.
func spliceImages(body string, imagePaths []string) string {
	paragraphs := strings.Split(body, "\n\n")
	total := len(paragraphs)
	count := len(imagePaths)
	if count == 0 || total < 4 {
		return body
	}

	points := make([]int, count)
	for i := range points {
		pos := (total / (count + 1)) * (i + 1)
		points[i] = max(2, min(pos, total-2))
	}

	// Splice from the bottom up so earlier indices stay valid.
	for i := count - 1; i >= 0; i-- {
		block := blogImageComponent(imagePaths[i])
		at := points[i]
		paragraphs = append(paragraphs[:at], append([]string{block}, paragraphs[at:]...)...)
	}
	return strings.Join(paragraphs, "\n\n")
}

func blogImageComponent(src string) string {
	return fmt.Sprintf("<BlogImage\n  src=%q\n  alt=\"Supporting illustration for blog content\"\n  caption=\"Visual representation of key concepts discussed in this article\"\n/>", src)
}

// addReadingAids prepends navigation components for longer articles: a
// table of contents above five minutes and a reading progress bar above
// three. The progress bar always ends up first in the file.
func addReadingAids(body string) string {
	if ReadingTime(body) > 5 {
		body = "<TableOfContents />\n\n" + body
	}
	if ReadingTime(body) > 3 {
		body = "<ReadingProgress />\n\n" + body
	}
	return body
}
