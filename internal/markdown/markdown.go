package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Stats summarizes the structure of a rendered article body.
type Stats struct {
	Headings        int
	MaxHeadingLevel int
	Paragraphs      int
	Links           int
	Images          int
}

// ParseBody parses a Markdown body (frontmatter already removed) into an AST.
func ParseBody(body []byte) gmast.Node {
	md := goldmark.New()
	return md.Parser().Parse(text.NewReader(body))
}

// Inspect walks the parsed body and counts the structural elements the
// verifier cares about.
func Inspect(body []byte) Stats {
	root := ParseBody(body)

	var stats Stats
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			stats.Headings++
			if node.Level > stats.MaxHeadingLevel {
				stats.MaxHeadingLevel = node.Level
			}
		case *gmast.Paragraph:
			stats.Paragraphs++
		case *gmast.Link, *gmast.AutoLink:
			stats.Links++
		case *gmast.Image:
			stats.Images++
		}
		return gmast.WalkContinue, nil
	})
	return stats
}
