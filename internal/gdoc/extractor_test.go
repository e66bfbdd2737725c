package gdoc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/docs/v1"

	pkgerrors "git.home.luguber.info/inful/blogsmith/internal/errors"
)

type fakeGetter struct {
	doc *docs.Document
	err error
}

func (f *fakeGetter) Document(context.Context, string) (*docs.Document, error) {
	return f.doc, f.err
}

func paragraph(style string, runs ...*docs.ParagraphElement) *docs.StructuralElement {
	p := &docs.Paragraph{Elements: runs}
	if style != "" {
		p.ParagraphStyle = &docs.ParagraphStyle{NamedStyleType: style}
	}
	return &docs.StructuralElement{Paragraph: p}
}

func run(text string, ts *docs.TextStyle) *docs.ParagraphElement {
	return &docs.ParagraphElement{TextRun: &docs.TextRun{Content: text, TextStyle: ts}}
}

func TestContentConvertsParagraphsAndHeadings(t *testing.T) {
	doc := &docs.Document{
		Title: "  My Post  ",
		Body: &docs.Body{Content: []*docs.StructuralElement{
			paragraph("HEADING_1", run("Introduction\n", nil)),
			paragraph("", run("Plain opening text.\n", nil)),
			paragraph("HEADING_3", run("Details\n", nil)),
		}},
	}

	e := NewExtractor(&fakeGetter{doc: doc})
	c, err := e.Content(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "My Post", c.Title)
	assert.Equal(t, "# Introduction\n\nPlain opening text.\n\n### Details", c.Body)
	assert.Equal(t, 7, c.WordCount, "whitespace tokens, heading markers included")
	assert.Equal(t, "doc-1", c.DocID)
}

func TestInlineStylePrecedence(t *testing.T) {
	cases := []struct {
		name  string
		style *docs.TextStyle
		want  string
	}{
		{"bold", &docs.TextStyle{Bold: true}, "**word**"},
		{"italic", &docs.TextStyle{Italic: true}, "*word*"},
		{"underline", &docs.TextStyle{Underline: true}, "<u>word</u>"},
		{"bold italic", &docs.TextStyle{Bold: true, Italic: true}, "***word***"},
		{"all three", &docs.TextStyle{Bold: true, Italic: true, Underline: true}, "<u>***word***</u>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &docs.Document{
				Title: "T",
				Body:  &docs.Body{Content: []*docs.StructuralElement{paragraph("", run("word", tc.style))}},
			}
			c, err := NewExtractor(&fakeGetter{doc: doc}).Content(context.Background(), "d")
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Body)
		})
	}
}

func TestBlankParagraphsOmitted(t *testing.T) {
	doc := &docs.Document{
		Title: "T",
		Body: &docs.Body{Content: []*docs.StructuralElement{
			paragraph("", run("First.\n", nil)),
			paragraph("", run("\n", nil)),
			paragraph("", run("Second.\n", nil)),
		}},
	}
	c, err := NewExtractor(&fakeGetter{doc: doc}).Content(context.Background(), "d")
	require.NoError(t, err)
	assert.Equal(t, "First.\n\nSecond.", c.Body)
}

func TestTableRendering(t *testing.T) {
	cellWith := func(text string) *docs.TableCell {
		return &docs.TableCell{Content: []*docs.StructuralElement{paragraph("", run(text, nil))}}
	}
	doc := &docs.Document{
		Title: "T",
		Body: &docs.Body{Content: []*docs.StructuralElement{
			{Table: &docs.Table{TableRows: []*docs.TableRow{
				{TableCells: []*docs.TableCell{cellWith("Name"), cellWith("Value")}},
				{TableCells: []*docs.TableCell{cellWith("alpha\nbeta"), cellWith("1")}},
			}}},
		}},
	}

	c, err := NewExtractor(&fakeGetter{doc: doc}).Content(context.Background(), "d")
	require.NoError(t, err)
	assert.Equal(t, "| Name | Value |\n| alpha beta | 1 |", c.Body)
}

func TestEmptyBodyIsFetchError(t *testing.T) {
	doc := &docs.Document{Title: "Empty", Body: &docs.Body{}}
	_, err := NewExtractor(&fakeGetter{doc: doc}).Content(context.Background(), "d")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCategory(err, pkgerrors.CategoryFetch))
}

func TestRemoteFailureIsFetchError(t *testing.T) {
	boom := errors.New("503")
	_, err := NewExtractor(&fakeGetter{err: boom}).Content(context.Background(), "d")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCategory(err, pkgerrors.CategoryFetch))
	assert.ErrorIs(t, err, boom)
}
