package config

import (
	"os"
	"time"
)

// All defaults live here so behavior is reproducible and testable without
// process-wide state. Only this function consults the environment, and only for
// the secrets that never belong in a config file.
func applyDefaults(cfg *Config) {
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = "credentials.json"
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://disruptorsmedia.com"
	}

	if cfg.Image.Model == "" {
		cfg.Image.Model = "dall-e-3"
	}
	if cfg.Image.Size == "" {
		cfg.Image.Size = "1024x1024"
	}
	if cfg.Image.Quality == "" {
		cfg.Image.Quality = "standard"
	}
	if cfg.Image.Retry.Mode == "" {
		cfg.Image.Retry.Mode = RetryBackoffExponential
	}
	if cfg.Image.Retry.Initial <= 0 {
		// Matches the image API's documented throttle window.
		cfg.Image.Retry.Initial = 60 * time.Second
	}
	if cfg.Image.Retry.Max <= 0 {
		cfg.Image.Retry.Max = 5 * time.Minute
	}
	if cfg.Image.Retry.MaxAttempts <= 0 {
		cfg.Image.Retry.MaxAttempts = 5
	}

	if cfg.Paths.Content == "" {
		cfg.Paths.Content = "src/content/blog"
	}
	if cfg.Paths.Images == "" {
		cfg.Paths.Images = "public/images/blog"
	}
	if cfg.Paths.Lock == "" {
		cfg.Paths.Lock = ".blogsmith/scheduler.lock"
	}
	if cfg.Paths.History == "" {
		cfg.Paths.History = ".blogsmith/history.db"
	}

	if !cfg.Publish.requireApprovalSpecified {
		cfg.Publish.RequireApproval = true
	}
	if cfg.Publish.InterItemDelay <= 0 {
		cfg.Publish.InterItemDelay = 3 * time.Second
	}
	if cfg.Publish.ImagePacing <= 0 {
		cfg.Publish.ImagePacing = 2 * time.Second
	}

	if cfg.Deploy.Method == "" {
		cfg.Deploy.Method = DeployManual
	}
	if cfg.Deploy.RepoDir == "" {
		cfg.Deploy.RepoDir = "."
	}
	if cfg.Deploy.Remote == "" {
		cfg.Deploy.Remote = "origin"
	}
	if cfg.Deploy.Branch == "" {
		cfg.Deploy.Branch = "main"
	}

	if cfg.Notify.Method == "" {
		cfg.Notify.Method = NotifyLog
	}

	if cfg.Scheduler.MaxAttempts <= 0 {
		cfg.Scheduler.MaxAttempts = 3
	}
	if cfg.Scheduler.RetryDelay <= 0 {
		cfg.Scheduler.RetryDelay = 5 * time.Second
	}
	if cfg.Scheduler.LeaseTTL <= 0 {
		cfg.Scheduler.LeaseTTL = time.Hour
	}
	if cfg.Scheduler.Interval <= 0 {
		cfg.Scheduler.Interval = 6 * time.Hour
	}
}
