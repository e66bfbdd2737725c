package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string   `yaml:"title"`
	Slug  string   `yaml:"slug"`
	Tags  []string `yaml:"tags"`
}

func TestComposeOrdersFieldsByDeclaration(t *testing.T) {
	out, err := Compose(sample{Title: "A Post", Slug: "a-post", Tags: []string{"x", "y"}}, "Body text.")
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "---\n"))
	assert.Less(t, strings.Index(s, "title:"), strings.Index(s, "slug:"))
	assert.Less(t, strings.Index(s, "slug:"), strings.Index(s, "tags:"))
	assert.True(t, strings.HasSuffix(s, "Body text.\n"))
}

func TestComposeSplitRoundTrip(t *testing.T) {
	out, err := Compose(sample{Title: "T", Slug: "t"}, "First paragraph.\n\nSecond.")
	require.NoError(t, err)

	fm, body, had, err := Split(out)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "First paragraph.\n\nSecond.\n", string(body))

	fields, err := Parse(fm)
	require.NoError(t, err)
	assert.Equal(t, "T", fields["title"])
	assert.Equal(t, "t", fields["slug"])
}

func TestSplitWithoutFrontmatter(t *testing.T) {
	fm, body, had, err := Split([]byte("just a body\n"))
	require.NoError(t, err)
	assert.False(t, had)
	assert.Nil(t, fm)
	assert.Equal(t, "just a body\n", string(body))
}

func TestSplitMissingClosingDelimiter(t *testing.T) {
	_, _, _, err := Split([]byte("---\ntitle: x\nno end"))
	assert.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestSplitEmptyBlock(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Empty(t, fm)
	assert.Equal(t, "body\n", string(body))
}

func TestParseEmpty(t *testing.T) {
	fields, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, fields)
}
