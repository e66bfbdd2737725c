package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/errors"
)

func sampleFailure() Failure {
	return Failure{
		RunID:     "run-1",
		Timestamp: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
		Error:     "publishing attempts exhausted",
		Attempts:  3,
	}
}

func TestFromConfigSelection(t *testing.T) {
	assert.IsType(t, &LogNotifier{}, FromConfig(config.NotifyConfig{Method: config.NotifyLog}))
	assert.IsType(t, &EmailNotifier{}, FromConfig(config.NotifyConfig{Method: config.NotifyEmail}))
	assert.IsType(t, &SlackNotifier{}, FromConfig(config.NotifyConfig{Method: config.NotifySlack}))
	assert.IsType(t, &WebhookNotifier{}, FromConfig(config.NotifyConfig{Method: config.NotifyWebhook}))
}

func TestLogNotifierNeverFails(t *testing.T) {
	assert.NoError(t, (&LogNotifier{}).NotifyFailure(context.Background(), sampleFailure()))
}

func TestPlaceholderNotifiersFallBackToLog(t *testing.T) {
	assert.NoError(t, (&EmailNotifier{}).NotifyFailure(context.Background(), sampleFailure()))
	assert.NoError(t, (&SlackNotifier{}).NotifyFailure(context.Background(), sampleFailure()))
}

func TestWebhookNotifierPostsJSON(t *testing.T) {
	var received Failure
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := FromConfig(config.NotifyConfig{Method: config.NotifyWebhook, WebhookURL: server.URL})
	require.NoError(t, n.NotifyFailure(context.Background(), sampleFailure()))
	assert.Equal(t, "run-1", received.RunID)
	assert.Equal(t, 3, received.Attempts)
}

func TestWebhookNotifierRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := FromConfig(config.NotifyConfig{Method: config.NotifyWebhook, WebhookURL: server.URL})
	err := n.NotifyFailure(context.Background(), sampleFailure())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotify))
}
