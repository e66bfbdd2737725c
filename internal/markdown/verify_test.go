package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleBody = `# Title

Opening paragraph with a [link](https://example.com).

## Section

![chart](/images/blog/sample/content-1.jpg)

Closing paragraph.
`

func TestInspect(t *testing.T) {
	stats := Inspect([]byte(sampleBody))
	assert.Equal(t, 2, stats.Headings)
	assert.Equal(t, 2, stats.MaxHeadingLevel)
	assert.Equal(t, 1, stats.Links)
	assert.Equal(t, 1, stats.Images)
	assert.GreaterOrEqual(t, stats.Paragraphs, 2)
}

func TestVerifyCleanBody(t *testing.T) {
	issues := Verify([]byte(sampleBody), "/images/blog")
	assert.Empty(t, issues)
	assert.False(t, HasErrors(issues))
}

func TestVerifyEmptyBody(t *testing.T) {
	issues := Verify([]byte(""), "/images/blog")
	assert.True(t, HasErrors(issues))
}

func TestVerifyStrayImage(t *testing.T) {
	body := "Paragraph.\n\n![stray](/assets/elsewhere.png)\n"
	issues := Verify([]byte(body), "/images/blog")
	assert.Len(t, issues, 1)
	assert.Equal(t, "image-location", issues[0].Rule)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.False(t, HasErrors(issues))
}

func TestVerifyRemoteImageAllowed(t *testing.T) {
	body := "Paragraph.\n\n![remote](https://cdn.example.com/pic.png)\n"
	assert.Empty(t, Verify([]byte(body), "/images/blog"))
}

func TestVerifyImageBaseDisabled(t *testing.T) {
	body := "Paragraph.\n\n![stray](/assets/elsewhere.png)\n"
	assert.Empty(t, Verify([]byte(body), ""))
}
