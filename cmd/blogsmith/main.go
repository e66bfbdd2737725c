package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogsmith/internal/assemble"
	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/deploy"
	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/gdoc"
	"git.home.luguber.info/inful/blogsmith/internal/history"
	"git.home.luguber.info/inful/blogsmith/internal/images"
	"git.home.luguber.info/inful/blogsmith/internal/lock"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/notify"
	"git.home.luguber.info/inful/blogsmith/internal/publish"
	"git.home.luguber.info/inful/blogsmith/internal/retry"
	"git.home.luguber.info/inful/blogsmith/internal/scheduler"
	"git.home.luguber.info/inful/blogsmith/internal/sheet"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"blogsmith.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Publish struct {
		DryRun bool `help:"Simulate publishing without creating files"`
		Force  bool `help:"Skip the approval column check"`
	} `cmd:"" help:"Publish approved posts from the spreadsheet"`

	Schedule struct {
		Force bool `help:"Run even when auto-publishing is disabled"`
	} `cmd:"" help:"Run one guarded publishing pass with retries and deployment"`

	Daemon struct{} `cmd:"" help:"Run the publishing scheduler on an interval"`

	History struct {
		Limit int `help:"Number of runs to show" default:"10"`
	} `cmd:"" help:"Show recent publishing runs"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "publish":
		if err := runPublish(ctx, cfg, CLI.Publish.DryRun, CLI.Publish.Force); err != nil {
			slog.Error("publish failed", logfields.Error(err))
			os.Exit(1)
		}
	case "schedule":
		if err := runSchedule(ctx, cfg, CLI.Schedule.Force); err != nil {
			if errors.IsCategory(err, errors.CategoryLock) {
				// Another instance is doing the work.
				return
			}
			slog.Error("schedule failed", logfields.Error(err))
			os.Exit(1)
		}
	case "daemon":
		if err := runDaemon(ctx, cfg); err != nil {
			slog.Error("daemon failed", logfields.Error(err))
			os.Exit(1)
		}
	case "history":
		if err := runHistory(ctx, cfg, CLI.History.Limit); err != nil {
			slog.Error("history failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

// buildPipeline wires a pipeline from configuration. The returned
// cleanup closes the history store.
func buildPipeline(ctx context.Context, cfg *config.Config, dryRun, force bool, recorder metrics.Recorder) (*publish.Pipeline, func(), error) {
	fetcher, err := sheet.NewGoogleFetcher(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}
	var registryOpts []sheet.Option
	if force || !cfg.Publish.RequireApproval {
		registryOpts = append(registryOpts, sheet.WithoutApproval())
	}
	registry := sheet.NewRegistry(fetcher, cfg.SpreadsheetID, cfg.SheetName, registryOpts...)

	getter, err := gdoc.NewGoogleGetter(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}
	extractor := gdoc.NewExtractor(getter)

	assembler := assemble.New(cfg.BaseURL)
	writer := publish.NewWriter(cfg.Paths.Content, images.WebBase)

	opts := []publish.Option{
		publish.WithDryRun(dryRun),
		publish.WithInterItemDelay(cfg.Publish.InterItemDelay),
		publish.WithRecorder(recorder),
	}

	if cfg.OpenAIAPIKey != "" {
		client := images.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Image.Model, cfg.Image.Size, cfg.Image.Quality)
		policy := retry.FromConfig(cfg.Image.Retry)
		synth := images.NewSynthesizer(client, policy, cfg.Paths.Images, cfg.Publish.ImagePacing)
		opts = append(opts, publish.WithImages(synth))
	} else {
		slog.Warn("no OpenAI API key configured, publishing without images")
	}

	cleanup := func() {}
	if cfg.Paths.History != "" {
		store, err := history.Open(cfg.Paths.History)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, publish.WithHistory(store))
		cleanup = func() { _ = store.Close() }
	}

	return publish.NewPipeline(registry, extractor, assembler, writer, opts...), cleanup, nil
}

// runPublish executes one unguarded pass. The exit code reflects item
// failures so cron wrappers can alert on partial runs.
func runPublish(ctx context.Context, cfg *config.Config, dryRun, force bool) error {
	pipeline, cleanup, err := buildPipeline(ctx, cfg, dryRun, force, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	if len(run.Failed) > 0 {
		return errors.New(errors.CategoryInternal, errors.SeverityError,
			fmt.Sprintf("%d of %d posts failed", len(run.Failed), len(run.Failed)+len(run.Published)))
	}
	return nil
}

func buildScheduler(ctx context.Context, cfg *config.Config, recorder metrics.Recorder) (*scheduler.Scheduler, func(), error) {
	pipeline, cleanup, err := buildPipeline(ctx, cfg, cfg.Publish.DryRun, false, recorder)
	if err != nil {
		return nil, nil, err
	}

	lease := lock.New(cfg.Paths.Lock, cfg.Scheduler.LeaseTTL)
	deployer := deploy.FromConfig(cfg.Deploy, cfg.Paths.Content, cfg.Paths.Images)
	notifier := notify.FromConfig(cfg.Notify)

	sched := scheduler.New(pipeline, lease, deployer, notifier,
		cfg.Scheduler.MaxAttempts, cfg.Scheduler.RetryDelay,
		scheduler.WithAutoPublish(cfg.Publish.AutoPublish))
	return sched, cleanup, nil
}

func runSchedule(ctx context.Context, cfg *config.Config, force bool) error {
	sched, cleanup, err := buildScheduler(ctx, cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = sched.RunOnce(ctx, force)
	return err
}

// runDaemon runs the scheduler on the configured interval until
// interrupted, optionally exposing Prometheus metrics.
func runDaemon(ctx context.Context, cfg *config.Config) error {
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Scheduler.MetricsAddr != "" {
		registry := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
		go serveMetrics(cfg.Scheduler.MetricsAddr, registry)
	}

	sched, cleanup, err := buildScheduler(ctx, cfg, recorder)
	if err != nil {
		return err
	}
	defer cleanup()

	cron, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = cron.NewJob(
		gocron.DurationJob(cfg.Scheduler.Interval),
		gocron.NewTask(func() {
			if _, err := sched.RunOnce(ctx, false); err != nil && !errors.IsCategory(err, errors.CategoryLock) {
				slog.Error("scheduled run failed", logfields.Error(err))
			}
		}),
		gocron.WithName("publish"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("create publish job: %w", err)
	}

	slog.Info("daemon started", slog.Duration("interval", cfg.Scheduler.Interval))
	cron.Start()
	<-ctx.Done()

	slog.Info("shutting down")
	if err := cron.Shutdown(); err != nil {
		slog.Warn("scheduler shutdown failed", logfields.Error(err))
	}
	return nil
}

func serveMetrics(addr string, registry *prom.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("serving metrics", slog.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server failed", logfields.Error(err))
	}
}

func runHistory(ctx context.Context, cfg *config.Config, limit int) error {
	store, err := history.Open(cfg.Paths.History)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no publishing runs recorded")
		return nil
	}

	for _, run := range runs {
		mode := ""
		if run.DryRun {
			mode = " (dry run)"
		}
		fmt.Printf("%s  published=%d failed=%d  %s%s\n",
			run.StartedAt.Format(time.RFC3339), run.Published, run.Failed,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second), mode)

		items, err := store.ItemsForRun(ctx, run.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Status == history.StatusPublished {
				fmt.Printf("    row %d: %s (%d words, %d images)\n",
					item.RowIndex, item.Slug, item.WordCount, item.ImageCount)
			} else {
				fmt.Printf("    row %d: failed: %s\n", item.RowIndex, item.Error)
			}
		}
	}
	return nil
}
