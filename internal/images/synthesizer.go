// Package images builds prompts from content heuristics, calls the image
// generation API with bounded backoff, and re-encodes results for the web.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/retry"
)

// Set is one item's image output: a feature image plus 0-3 supporting images.
// Paths are site-relative.
type Set struct {
	Feature    string
	Supporting []string
}

// Count returns the number of images actually produced.
func (s Set) Count() int {
	n := len(s.Supporting)
	if s.Feature != "" {
		n++
	}
	return n
}

// Synthesizer orchestrates prompt building, generation, download and encoding.
type Synthesizer struct {
	generator  Generator
	policy     retry.Policy
	imagesRoot string
	pacing     time.Duration
	httpClient *http.Client
	sleep      func(time.Duration)
}

// NewSynthesizer builds a synthesizer writing under imagesRoot. The retry
// policy bounds rate-limit backoff; pacing separates successive supporting
// requests.
func NewSynthesizer(generator Generator, policy retry.Policy, imagesRoot string, pacing time.Duration) *Synthesizer {
	return &Synthesizer{
		generator:  generator,
		policy:     policy,
		imagesRoot: imagesRoot,
		pacing:     pacing,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		sleep:      time.Sleep,
	}
}

// GenerateFeature creates the header image for one post and returns its
// site-relative path.
func (s *Synthesizer) GenerateFeature(ctx context.Context, title, content, slug string) (string, error) {
	slog.Info("Generating feature image", logfields.Slug(slug), logfields.Title(title))

	url, err := s.generate(ctx, featurePrompt(title, content))
	if err != nil {
		return "", err
	}
	path, err := s.downloadAndStore(ctx, url, slug, "feature")
	if err != nil {
		return "", err
	}
	slog.Info("Feature image stored", logfields.Slug(slug), logfields.Path(path))
	return path, nil
}

// GenerateSupporting creates up to count supporting images. A single failure
// is logged and skipped, so the result may hold fewer paths than requested.
func (s *Synthesizer) GenerateSupporting(ctx context.Context, title, content, slug string, count int) []string {
	prompts := supportingPrompts(title, content, count)
	slog.Info("Generating supporting images", logfields.Slug(slug), slog.Int("requested", count))

	var paths []string
	for i, prompt := range prompts {
		role := fmt.Sprintf("content-%d", i+1)
		url, err := s.generate(ctx, prompt)
		if err == nil {
			var path string
			if path, err = s.downloadAndStore(ctx, url, slug, role); err == nil {
				paths = append(paths, path)
				slog.Info("Supporting image stored", logfields.Slug(slug), logfields.Path(path))
			}
		}
		if err != nil {
			slog.Warn("Supporting image failed, skipping",
				logfields.Slug(slug), slog.String("role", role), logfields.Error(err))
		}

		if i < len(prompts)-1 && s.pacing > 0 {
			s.sleep(s.pacing)
		}
	}
	return paths
}

// generate wraps one prompt in the bounded rate-limit retry policy. Only
// throttle responses are retried; the prompt never changes between attempts.
func (s *Synthesizer) generate(ctx context.Context, prompt string) (string, error) {
	var url string
	err := s.policy.Do(ctx, func() error {
		var genErr error
		url, genErr = s.generator.Generate(ctx, prompt)
		if genErr != nil && errors.IsCategory(genErr, errors.CategoryRateLimit) {
			slog.Warn("Image API rate limited, backing off")
		}
		return genErr
	}, errors.IsRetryable)
	if err != nil {
		return "", err
	}
	return url, nil
}
