package markdown

import (
	"fmt"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a structural problem found in a rendered article.
type Issue struct {
	Severity Severity
	Rule     string
	Message  string
}

// Verify runs structural checks over a rendered article body before it
// is written to disk. imageBase is the web path prefix generated images
// must live under; pass "" to skip that check.
func Verify(body []byte, imageBase string) []Issue {
	var issues []Issue

	stats := Inspect(body)
	if stats.Paragraphs == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     "non-empty-body",
			Message:  "article has no paragraph content",
		})
	}
	if stats.MaxHeadingLevel > 6 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     "heading-depth",
			Message:  fmt.Sprintf("heading level %d exceeds the maximum of 6", stats.MaxHeadingLevel),
		})
	}

	issues = append(issues, verifyImageDestinations(body, imageBase)...)
	return issues
}

// verifyImageDestinations flags local image references that point
// outside the generated image tree. Remote images are allowed.
func verifyImageDestinations(body []byte, imageBase string) []Issue {
	if imageBase == "" {
		return nil
	}

	var issues []Issue
	root := ParseBody(body)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		img, ok := n.(*gmast.Image)
		if !ok {
			return gmast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") {
			return gmast.WalkContinue, nil
		}
		if !strings.HasPrefix(dest, imageBase) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     "image-location",
				Message:  fmt.Sprintf("image %q is outside %s", dest, imageBase),
			})
		}
		return gmast.WalkContinue, nil
	})
	return issues
}

// HasErrors reports whether any issue is error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
