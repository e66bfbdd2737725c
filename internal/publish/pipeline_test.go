package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/assemble"
	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/gdoc"
	"git.home.luguber.info/inful/blogsmith/internal/history"
	"git.home.luguber.info/inful/blogsmith/internal/sheet"
)

type fakeItems struct {
	items []sheet.Item
	err   error
}

func (f *fakeItems) ReadyItems(context.Context) ([]sheet.Item, error) {
	return f.items, f.err
}

type fakeDocs struct {
	contents map[string]*gdoc.Content
}

func (f *fakeDocs) Content(_ context.Context, docID string) (*gdoc.Content, error) {
	content, ok := f.contents[docID]
	if !ok {
		return nil, errors.FetchError(os.ErrNotExist, "document unreachable")
	}
	return content, nil
}

type fakeImages struct {
	featureErr   error
	featureCalls int
}

func (f *fakeImages) GenerateFeature(_ context.Context, _, _, slug string) (string, error) {
	f.featureCalls++
	if f.featureErr != nil {
		return "", f.featureErr
	}
	return "/images/blog/" + slug + "/feature.jpg", nil
}

func (f *fakeImages) GenerateSupporting(_ context.Context, _, _, slug string, count int) []string {
	paths := make([]string, count)
	for i := range paths {
		paths[i] = "/images/blog/" + slug + "/content-" + string(rune('1'+i)) + ".jpg"
	}
	return paths
}

type fakeHistory struct {
	runs  []history.Run
	items []history.ItemRecord
}

func (f *fakeHistory) RecordRun(_ context.Context, run history.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeHistory) RecordItem(_ context.Context, item history.ItemRecord) error {
	f.items = append(f.items, item)
	return nil
}

func docURL(id string) string {
	return "https://docs.google.com/document/d/" + id + "/edit"
}

func longBody(title string) string {
	body := "# " + title + "\n\n"
	for i := 0; i < 8; i++ {
		body += "This paragraph carries enough words to look like a real article section.\n\n"
	}
	return body
}

func newTestPipeline(t *testing.T, items []sheet.Item, docs map[string]*gdoc.Content, opts ...Option) (*Pipeline, string) {
	t.Helper()
	contentRoot := t.TempDir()
	writer := NewWriter(contentRoot, "/images/blog")
	assembler := assemble.New("https://disruptorsmedia.com")

	base := []Option{WithClock(time.Now)}
	base = append(base, opts...)
	p := NewPipeline(&fakeItems{items: items}, &fakeDocs{contents: docs}, assembler, writer, base...)
	p.sleep = func(context.Context, time.Duration) {}
	return p, contentRoot
}

func TestRunPublishesReadyItems(t *testing.T) {
	items := []sheet.Item{
		{RowIndex: 2, PostURL: docURL("doc-1"), Keywords: "ai marketing"},
	}
	docs := map[string]*gdoc.Content{
		"doc-1": {Title: "First Post", Body: longBody("First Post"), WordCount: 120, DocID: "doc-1"},
	}
	p, _ := newTestPipeline(t, items, docs)

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Published, 1)
	assert.Empty(t, run.Failed)

	post := run.Published[0]
	assert.Equal(t, "first-post", post.Slug)
	assert.Equal(t, 120, post.WordCount)
	assert.Equal(t, 0, post.Images)

	data, err := os.ReadFile(post.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: First Post")
	assert.Contains(t, string(data), "slug: first-post")
}

func TestRunIsolatesFailures(t *testing.T) {
	items := []sheet.Item{
		{RowIndex: 2, PostURL: docURL("missing-doc")},
		{RowIndex: 3, PostURL: docURL("doc-2")},
	}
	docs := map[string]*gdoc.Content{
		"doc-2": {Title: "Second Post", Body: longBody("Second Post"), WordCount: 80, DocID: "doc-2"},
	}
	p, _ := newTestPipeline(t, items, docs)

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Failed, 1)
	assert.Equal(t, 2, run.Failed[0].RowIndex)
	require.Len(t, run.Published, 1)
	assert.Equal(t, 3, run.Published[0].RowIndex)
}

func TestRunBadReferenceFails(t *testing.T) {
	items := []sheet.Item{
		{RowIndex: 2, PostURL: "https://example.com/not-a-doc"},
	}
	p, _ := newTestPipeline(t, items, nil)

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Failed, 1)
	assert.True(t, errors.IsCategory(run.Failed[0].Err, errors.CategoryReference))
}

func TestDryRunWritesNothing(t *testing.T) {
	items := []sheet.Item{
		{RowIndex: 2, PostURL: docURL("doc-1")},
	}
	docs := map[string]*gdoc.Content{
		"doc-1": {Title: "Draft Post", Body: longBody("Draft Post"), WordCount: 50, DocID: "doc-1"},
	}
	images := &fakeImages{}
	p, contentRoot := newTestPipeline(t, items, docs, WithDryRun(true), WithImages(images))

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Published, 1)
	assert.True(t, run.DryRun)
	assert.Empty(t, run.Published[0].Path)
	assert.Zero(t, images.featureCalls)

	entries, err := os.ReadDir(contentRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImageFailureDegradesGracefully(t *testing.T) {
	items := []sheet.Item{
		{RowIndex: 2, PostURL: docURL("doc-1")},
	}
	docs := map[string]*gdoc.Content{
		"doc-1": {Title: "Art Post", Body: longBody("Art Post"), WordCount: 90, DocID: "doc-1"},
	}
	images := &fakeImages{featureErr: errors.RetriesExhausted(os.ErrDeadlineExceeded, 5)}
	p, _ := newTestPipeline(t, items, docs, WithImages(images))

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Published, 1)
	assert.Equal(t, 0, run.Published[0].Images)
	assert.Empty(t, run.Failed)
}

func TestImagesFlowIntoArticle(t *testing.T) {
	items := []sheet.Item{
		{RowIndex: 2, PostURL: docURL("doc-1")},
	}
	docs := map[string]*gdoc.Content{
		"doc-1": {Title: "Visual Post", Body: longBody("Visual Post"), WordCount: 200, DocID: "doc-1"},
	}
	p, _ := newTestPipeline(t, items, docs, WithImages(&fakeImages{}))

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Published, 1)
	post := run.Published[0]
	assert.Equal(t, 3, post.Images)

	data, err := os.ReadFile(post.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "feature.jpg")
	assert.Contains(t, string(data), "content-1.jpg")
	assert.Contains(t, string(data), "content-2.jpg")
}

func TestRunRecordsHistory(t *testing.T) {
	items := []sheet.Item{
		{RowIndex: 2, PostURL: docURL("doc-1")},
		{RowIndex: 3, PostURL: docURL("missing")},
	}
	docs := map[string]*gdoc.Content{
		"doc-1": {Title: "Kept Post", Body: longBody("Kept Post"), WordCount: 70, DocID: "doc-1"},
	}
	store := &fakeHistory{}
	p, _ := newTestPipeline(t, items, docs, WithHistory(store))

	run, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.runs, 1)
	assert.Equal(t, run.ID, store.runs[0].ID)
	assert.Equal(t, 1, store.runs[0].Published)
	assert.Equal(t, 1, store.runs[0].Failed)

	require.Len(t, store.items, 2)
	assert.Equal(t, history.StatusPublished, store.items[0].Status)
	assert.Equal(t, "kept-post", store.items[0].Slug)
	assert.Equal(t, history.StatusFailed, store.items[1].Status)
	assert.NotEmpty(t, store.items[1].Error)
}

func TestEmptySheetIsCleanRun(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	run, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, run.Published)
	assert.Empty(t, run.Failed)
}

func TestFetchErrorPropagates(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	p.items = &fakeItems{err: errors.FetchError(os.ErrPermission, "sheet unreachable")}
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFetch))
}

func TestWriterOverwritesExistingSlug(t *testing.T) {
	contentRoot := t.TempDir()
	writer := NewWriter(contentRoot, "")
	assembler := assemble.New("https://disruptorsmedia.com")

	doc, err := assembler.Assemble(assemble.Post{Title: "Same Title", Body: "A body paragraph."})
	require.NoError(t, err)

	first, err := writer.Write(doc)
	require.NoError(t, err)
	second, err := writer.Write(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriterRejectsEmptyBody(t *testing.T) {
	writer := NewWriter(t.TempDir(), "")
	doc := &assemble.Document{
		Slug:    "empty",
		RelPath: filepath.Join("2024", "empty.mdx"),
		Body:    "",
		Content: []byte("---\ntitle: x\n---\n"),
	}
	_, err := writer.Write(doc)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryAssembly))
}
