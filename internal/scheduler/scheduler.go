package scheduler

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/deploy"
	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/lock"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/notify"
	"git.home.luguber.info/inful/blogsmith/internal/publish"
)

// Runner executes one publishing pass.
type Runner interface {
	Run(ctx context.Context) (*publish.Run, error)
}

// Scheduler guards a publishing pass with the run lease, retries
// run-level failures, triggers deployment after success and notifies
// when every attempt is spent.
type Scheduler struct {
	runner   Runner
	lease    *lock.Lease
	deployer deploy.Deployer
	notifier notify.Notifier

	maxAttempts int
	retryDelay  time.Duration
	autoPublish bool
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithAutoPublish enables unattended runs. When disabled, RunOnce is a
// logged no-op unless forced.
func WithAutoPublish(enabled bool) Option {
	return func(s *Scheduler) { s.autoPublish = enabled }
}

// New assembles a scheduler around a pipeline runner.
func New(runner Runner, lease *lock.Lease, deployer deploy.Deployer, notifier notify.Notifier, maxAttempts int, retryDelay time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:      runner,
		lease:       lease,
		deployer:    deployer,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		now:         time.Now,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce performs one guarded publishing pass. A contended lease
// returns a lock error the caller should treat as a clean exit: another
// instance is already doing the work. force overrides the auto-publish
// gate.
func (s *Scheduler) RunOnce(ctx context.Context, force bool) (*publish.Run, error) {
	if !s.autoPublish && !force {
		slog.Info("auto-publishing disabled, skipping run")
		return nil, nil
	}

	if err := s.lease.Acquire(); err != nil {
		if errors.IsCategory(err, errors.CategoryLock) {
			slog.Info("another instance holds the lease, skipping run")
		}
		return nil, err
	}
	defer func() {
		if err := s.lease.Release(); err != nil {
			slog.Warn("releasing lease failed", logfields.Error(err))
		}
	}()

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		slog.Info("publishing attempt",
			logfields.Attempt(attempt),
			slog.Int("max_attempts", s.maxAttempts))

		run, err := s.runner.Run(ctx)
		if err == nil {
			s.afterSuccess(ctx, run)
			return run, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < s.maxAttempts {
			slog.Warn("publishing attempt failed, retrying",
				logfields.Attempt(attempt),
				logfields.Error(err),
				slog.Duration("retry_in", s.retryDelay))
			s.sleep(ctx, s.retryDelay)
		}
	}

	exhausted := errors.RetriesExhausted(lastErr, s.maxAttempts)
	if err := s.notifier.NotifyFailure(ctx, notify.Failure{
		Timestamp: s.now(),
		Error:     lastErr.Error(),
		Attempts:  s.maxAttempts,
	}); err != nil {
		slog.Warn("failure notification could not be delivered", logfields.Error(err))
	}
	return nil, exhausted
}

// afterSuccess triggers deployment when the run produced new content.
// Deploy failures are reported but never undo a completed run.
func (s *Scheduler) afterSuccess(ctx context.Context, run *publish.Run) {
	if run.DryRun || len(run.Published) == 0 {
		return
	}
	if err := s.deployer.Deploy(ctx); err != nil {
		slog.Error("deployment trigger failed", logfields.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
