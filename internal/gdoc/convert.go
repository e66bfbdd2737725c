package gdoc

import (
	"strings"

	"google.golang.org/api/docs/v1"
)

// headingPrefixes maps named heading styles to their markdown prefix.
var headingPrefixes = map[string]string{
	"HEADING_1": "# ",
	"HEADING_2": "## ",
	"HEADING_3": "### ",
	"HEADING_4": "#### ",
	"HEADING_5": "##### ",
	"HEADING_6": "###### ",
}

// convertBody walks the ordered block elements and renders paragraphs and
// tables. Blank paragraphs are omitted; blocks are joined by blank lines.
func convertBody(doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}

	var blocks []string
	for _, el := range doc.Body.Content {
		switch {
		case el.Paragraph != nil:
			if text := convertParagraph(el.Paragraph); strings.TrimSpace(text) != "" {
				blocks = append(blocks, text)
			}
		case el.Table != nil:
			if text := convertTable(el.Table); text != "" {
				blocks = append(blocks, text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

// convertParagraph concatenates styled inline runs and applies the heading
// prefix from the paragraph's named style.
func convertParagraph(p *docs.Paragraph) string {
	var b strings.Builder
	for _, el := range p.Elements {
		run := el.TextRun
		if run == nil || run.Content == "" {
			continue
		}
		b.WriteString(styleRun(run))
	}

	text := strings.TrimRight(b.String(), "\n")
	if p.ParagraphStyle != nil {
		if prefix, ok := headingPrefixes[p.ParagraphStyle.NamedStyleType]; ok && text != "" {
			text = prefix + text
		}
	}
	return text
}

// styleRun converts inline style flags to markdown/HTML, wrapping bold first,
// then italic, then underline.
func styleRun(run *docs.TextRun) string {
	text := run.Content
	if run.TextStyle == nil {
		return text
	}

	// Style markers go around the trimmed core so trailing newlines inside the
	// run do not break the emphasis syntax.
	trailing := text[len(strings.TrimRight(text, "\n")):]
	core := strings.TrimRight(text, "\n")
	if core == "" {
		return text
	}

	if run.TextStyle.Bold {
		core = "**" + core + "**"
	}
	if run.TextStyle.Italic {
		core = "*" + core + "*"
	}
	if run.TextStyle.Underline {
		core = "<u>" + core + "</u>"
	}
	return core + trailing
}

// convertTable renders `| cell | cell |` rows, one line per table row, with
// cell text newline-collapsed.
func convertTable(t *docs.Table) string {
	var rows []string
	for _, row := range t.TableRows {
		var b strings.Builder
		b.WriteString("| ")
		for _, tableCell := range row.TableCells {
			var cellText strings.Builder
			for _, el := range tableCell.Content {
				if el.Paragraph != nil {
					cellText.WriteString(convertParagraph(el.Paragraph))
				}
			}
			collapsed := strings.TrimSpace(strings.ReplaceAll(cellText.String(), "\n", " "))
			b.WriteString(collapsed)
			b.WriteString(" | ")
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(rows, "\n")
}
