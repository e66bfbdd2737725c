package publish

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogsmith/internal/assemble"
	"git.home.luguber.info/inful/blogsmith/internal/gdoc"
	"git.home.luguber.info/inful/blogsmith/internal/history"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/sheet"
)

const defaultSupportingImages = 2

// ItemSource produces the sheet rows ready for publishing.
type ItemSource interface {
	ReadyItems(ctx context.Context) ([]sheet.Item, error)
}

// ContentSource fetches and converts a referenced document.
type ContentSource interface {
	Content(ctx context.Context, docID string) (*gdoc.Content, error)
}

// ImageSynthesizer produces the feature and supporting images for one
// article.
type ImageSynthesizer interface {
	GenerateFeature(ctx context.Context, title, content, slug string) (string, error)
	GenerateSupporting(ctx context.Context, title, content, slug string, count int) []string
}

// HistoryRecorder persists run and item outcomes.
type HistoryRecorder interface {
	RecordRun(ctx context.Context, run history.Run) error
	RecordItem(ctx context.Context, item history.ItemRecord) error
}

// PublishedPost summarizes one successfully published article.
type PublishedPost struct {
	RowIndex  int
	Title     string
	Slug      string
	URL       string
	Path      string
	WordCount int
	Images    int
	Duration  time.Duration
}

// FailedPost records one row that could not be published.
type FailedPost struct {
	RowIndex int
	Err      error
}

// Run is the outcome of one pipeline execution.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Published  []PublishedPost
	Failed     []FailedPost
}

// TotalWords sums the word counts of all published articles.
func (r *Run) TotalWords() int {
	var total int
	for _, p := range r.Published {
		total += p.WordCount
	}
	return total
}

// TotalImages sums the images generated for all published articles.
func (r *Run) TotalImages() int {
	var total int
	for _, p := range r.Published {
		total += p.Images
	}
	return total
}

// Pipeline drives one full publishing pass: ready rows in, article
// files out. A failing row never aborts the pass; it is recorded and
// the next row is processed.
type Pipeline struct {
	items     ItemSource
	docs      ContentSource
	assembler *assemble.Assembler
	writer    *Writer

	images           ImageSynthesizer
	supportingImages int
	store            HistoryRecorder
	recorder         metrics.Recorder
	dryRun           bool
	delay            time.Duration
	now              func() time.Time
	sleep            func(ctx context.Context, d time.Duration)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithImages enables image generation.
func WithImages(synth ImageSynthesizer) Option {
	return func(p *Pipeline) { p.images = synth }
}

// WithSupportingImages overrides how many supporting images are
// requested per article.
func WithSupportingImages(count int) Option {
	return func(p *Pipeline) { p.supportingImages = count }
}

// WithHistory enables run and item recording.
func WithHistory(store HistoryRecorder) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(p *Pipeline) { p.recorder = recorder }
}

// WithDryRun simulates publishing: images are skipped and no files are
// written.
func WithDryRun(dryRun bool) Option {
	return func(p *Pipeline) { p.dryRun = dryRun }
}

// WithInterItemDelay paces processing between rows.
func WithInterItemDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.delay = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline assembles a pipeline from its stages.
func NewPipeline(items ItemSource, docs ContentSource, assembler *assemble.Assembler, writer *Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		items:            items,
		docs:             docs,
		assembler:        assembler,
		writer:           writer,
		supportingImages: defaultSupportingImages,
		recorder:         metrics.NoopRecorder{},
		now:              time.Now,
		sleep:            sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one publishing pass.
func (p *Pipeline) Run(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: p.now(),
		DryRun:    p.dryRun,
	}
	logger := slog.With(logfields.RunID(run.ID))

	if p.dryRun {
		logger.Info("dry run, no files will be created")
	}

	items, err := p.items.ReadyItems(ctx)
	if err != nil {
		return nil, err
	}
	p.recorder.SetReadyItems(len(items))
	if len(items) == 0 {
		logger.Info("no posts ready for publishing")
		run.FinishedAt = p.now()
		p.finishRun(ctx, run)
		return run, nil
	}
	logger.Info("processing ready posts", slog.Int("count", len(items)))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		post, stage, err := p.processItem(ctx, run.ID, item)
		if err != nil {
			logger.Error("post processing failed",
				logfields.Row(item.RowIndex),
				logfields.Stage(string(stage)),
				logfields.Error(err))
			run.Failed = append(run.Failed, FailedPost{RowIndex: item.RowIndex, Err: err})
			p.recorder.IncFailed(stage)
			p.recordItem(ctx, history.ItemRecord{
				RunID:    run.ID,
				RowIndex: item.RowIndex,
				Status:   history.StatusFailed,
				Error:    err.Error(),
			})
		} else {
			run.Published = append(run.Published, *post)
			p.recorder.IncPublished()
			p.recorder.ObserveItemDuration(post.Duration)
			p.recordItem(ctx, history.ItemRecord{
				RunID:      run.ID,
				RowIndex:   item.RowIndex,
				Slug:       post.Slug,
				DocID:      docIDOf(item),
				Status:     history.StatusPublished,
				URL:        post.URL,
				WordCount:  post.WordCount,
				ImageCount: post.Images,
			})
		}

		if i < len(items)-1 && p.delay > 0 {
			p.sleep(ctx, p.delay)
		}
	}

	run.FinishedAt = p.now()
	p.finishRun(ctx, run)
	p.logSummary(logger, run)
	return run, nil
}

// processItem runs one row through the full stage sequence and reports
// which stage failed, if any.
func (p *Pipeline) processItem(ctx context.Context, runID string, item sheet.Item) (*PublishedPost, metrics.StageLabel, error) {
	started := p.now()
	logger := slog.With(logfields.RunID(runID), logfields.Row(item.RowIndex))

	docID, err := sheet.ExtractDocID(item.PostURL)
	if err != nil {
		return nil, metrics.StageSheet, err
	}

	logger.Info("fetching document content", logfields.DocID(docID))
	content, err := p.docs.Content(ctx, docID)
	if err != nil {
		return nil, metrics.StageExtract, err
	}
	logger.Info("content retrieved",
		logfields.Title(content.Title),
		logfields.WordCount(content.WordCount))

	slug := assemble.Slugify(content.Title)

	var feature string
	var supporting []string
	switch {
	case p.dryRun:
		logger.Info("dry run, skipping image generation")
	case p.images == nil:
		logger.Info("image generation not configured")
	default:
		// Image failures degrade the article, they do not fail it.
		feature, err = p.images.GenerateFeature(ctx, content.Title, content.Body, slug)
		if err != nil {
			logger.Warn("image generation failed, continuing without images", logfields.Error(err))
		} else {
			supporting = p.images.GenerateSupporting(ctx, content.Title, content.Body, slug, p.supportingImages)
			logger.Info("images generated", logfields.Images(1+len(supporting)))
		}
	}

	doc, err := p.assembler.Assemble(assemble.Post{
		Title:            content.Title,
		Body:             content.Body,
		Keywords:         item.Keywords,
		DocID:            docID,
		RowIndex:         item.RowIndex,
		FeatureImage:     feature,
		SupportingImages: supporting,
	})
	if err != nil {
		return nil, metrics.StageAssemble, err
	}

	post := &PublishedPost{
		RowIndex:  item.RowIndex,
		Title:     content.Title,
		Slug:      doc.Slug,
		URL:       doc.URL,
		WordCount: content.WordCount,
		Images:    len(supporting) + boolToInt(feature != ""),
	}

	if p.dryRun {
		logger.Info("dry run, article write simulated", logfields.Slug(doc.Slug))
	} else {
		path, err := p.writer.Write(doc)
		if err != nil {
			return nil, metrics.StageWrite, err
		}
		post.Path = path
		logger.Info("article written", logfields.Path(path), logfields.URL(doc.URL))
	}

	post.Duration = p.now().Sub(started)
	return post, "", nil
}

func (p *Pipeline) finishRun(ctx context.Context, run *Run) {
	p.recorder.ObserveRunDuration(run.FinishedAt.Sub(run.StartedAt))
	if p.store == nil {
		return
	}
	err := p.store.RecordRun(ctx, history.Run{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Published:  len(run.Published),
		Failed:     len(run.Failed),
		DryRun:     run.DryRun,
	})
	if err != nil {
		slog.Warn("recording run history failed", logfields.RunID(run.ID), logfields.Error(err))
	}
}

func (p *Pipeline) recordItem(ctx context.Context, item history.ItemRecord) {
	if p.store == nil {
		return
	}
	if err := p.store.RecordItem(ctx, item); err != nil {
		slog.Warn("recording item history failed",
			logfields.RunID(item.RunID),
			logfields.Row(item.RowIndex),
			logfields.Error(err))
	}
}

func (p *Pipeline) logSummary(logger *slog.Logger, run *Run) {
	logger.Info("publishing run complete",
		slog.Int("published", len(run.Published)),
		slog.Int("failed", len(run.Failed)),
		slog.Int("total_words", run.TotalWords()),
		slog.Int("total_images", run.TotalImages()),
		logfields.DurationMS(float64(run.FinishedAt.Sub(run.StartedAt).Milliseconds())))
	for _, failed := range run.Failed {
		logger.Warn("failed post", logfields.Row(failed.RowIndex), logfields.Error(failed.Err))
	}
}

func docIDOf(item sheet.Item) string {
	id, err := sheet.ExtractDocID(item.PostURL)
	if err != nil {
		return ""
	}
	return id
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
