package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// Failure describes an exhausted publishing run for notification.
type Failure struct {
	RunID     string    `json:"runId"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
	Attempts  int       `json:"attempts"`
}

// Notifier delivers failure reports after all publishing attempts are
// spent. Delivery failure is logged, never fatal.
type Notifier interface {
	NotifyFailure(ctx context.Context, failure Failure) error
}

// FromConfig selects a notifier for the configured method. Validation
// has already rejected unknown methods.
func FromConfig(cfg config.NotifyConfig) Notifier {
	switch cfg.Method {
	case config.NotifyWebhook:
		return &WebhookNotifier{URL: cfg.WebhookURL, client: &http.Client{Timeout: 30 * time.Second}}
	case config.NotifyEmail:
		return &EmailNotifier{}
	case config.NotifySlack:
		return &SlackNotifier{}
	default:
		return &LogNotifier{}
	}
}

// LogNotifier writes the failure to the structured log. This is the
// default and the only method needing no external service.
type LogNotifier struct{}

func (n *LogNotifier) NotifyFailure(_ context.Context, failure Failure) error {
	slog.Error("publishing run failed",
		logfields.RunID(failure.RunID),
		logfields.Attempt(failure.Attempts),
		slog.Time("failed_at", failure.Timestamp),
		slog.String("reason", failure.Error))
	return nil
}

// WebhookNotifier POSTs the failure as JSON to a configured endpoint.
type WebhookNotifier struct {
	URL    string
	client *http.Client
}

func (n *WebhookNotifier) NotifyFailure(ctx context.Context, failure Failure) error {
	payload, err := json.Marshal(failure)
	if err != nil {
		return errors.Wrap(err, errors.CategoryNotify, errors.SeverityWarning, "encode failure payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.CategoryNotify, errors.SeverityWarning, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryNotify, errors.SeverityWarning, "deliver webhook")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New(errors.CategoryNotify, errors.SeverityWarning,
			fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}
	return nil
}

// EmailNotifier is a placeholder pending an SMTP integration. It logs
// what would have been sent.
type EmailNotifier struct{}

func (n *EmailNotifier) NotifyFailure(_ context.Context, failure Failure) error {
	slog.Warn("email notification not configured, logging instead",
		logfields.RunID(failure.RunID),
		slog.String("reason", failure.Error))
	return nil
}

// SlackNotifier is a placeholder pending a Slack webhook integration.
type SlackNotifier struct{}

func (n *SlackNotifier) NotifyFailure(_ context.Context, failure Failure) error {
	slog.Warn("slack notification not configured, logging instead",
		logfields.RunID(failure.RunID),
		slog.String("reason", failure.Error))
	return nil
}
