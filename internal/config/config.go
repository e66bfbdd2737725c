package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Every component receives its
// slice of this through its constructor; nothing reads the process environment
// after Load returns.
type Config struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	SheetName       string `yaml:"sheet_name"`
	CredentialsFile string `yaml:"credentials_file"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	BaseURL         string `yaml:"base_url"`

	Image     ImageConfig     `yaml:"image"`
	Paths     PathsConfig     `yaml:"paths"`
	Publish   PublishConfig   `yaml:"publish"`
	Deploy    DeployConfig    `yaml:"deploy"`
	Notify    NotifyConfig    `yaml:"notify"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ImageConfig holds image generation parameters and the rate-limit retry policy.
type ImageConfig struct {
	Model   string      `yaml:"model"`
	Size    string      `yaml:"size"`
	Quality string      `yaml:"quality"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig holds raw backoff settings; internal/retry turns them into a Policy.
type RetryConfig struct {
	Mode        RetryBackoffMode `yaml:"mode"`
	Initial     time.Duration    `yaml:"initial"`
	Max         time.Duration    `yaml:"max"`
	MaxAttempts int              `yaml:"max_attempts"`
}

// RetryBackoffMode selects the delay growth curve for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// PathsConfig locates the content tree, image tree, lease file and history store.
type PathsConfig struct {
	Content string `yaml:"content"`
	Images  string `yaml:"images"`
	Lock    string `yaml:"lock"`
	History string `yaml:"history"`
}

// PublishConfig gates and paces the orchestrator.
type PublishConfig struct {
	DryRun          bool          `yaml:"dry_run"`
	RequireApproval bool          `yaml:"require_approval"`
	AutoPublish     bool          `yaml:"auto_publish"`
	InterItemDelay  time.Duration `yaml:"inter_item_delay"`
	ImagePacing     time.Duration `yaml:"image_pacing"`

	// requireApprovalSpecified distinguishes an explicit false from an omitted
	// field, so the default can be true.
	requireApprovalSpecified bool
}

// UnmarshalYAML tracks whether require_approval was explicitly set.
func (p *PublishConfig) UnmarshalYAML(unmarshal func(any) error) error {
	type raw struct {
		DryRun          bool          `yaml:"dry_run"`
		RequireApproval *bool         `yaml:"require_approval"`
		AutoPublish     bool          `yaml:"auto_publish"`
		InterItemDelay  time.Duration `yaml:"inter_item_delay"`
		ImagePacing     time.Duration `yaml:"image_pacing"`
	}
	var r raw
	if err := unmarshal(&r); err != nil {
		return err
	}
	p.DryRun = r.DryRun
	p.AutoPublish = r.AutoPublish
	p.InterItemDelay = r.InterItemDelay
	p.ImagePacing = r.ImagePacing
	if r.RequireApproval != nil {
		p.RequireApproval = *r.RequireApproval
		p.requireApprovalSpecified = true
	}
	return nil
}

// DeployMethod selects which Deployer the scheduler is constructed with.
type DeployMethod string

const (
	DeployManual DeployMethod = "manual"
	DeployGit    DeployMethod = "git"
	DeployHook   DeployMethod = "hook"
)

// DeployConfig configures the post-run deployment trigger.
type DeployConfig struct {
	Method      DeployMethod `yaml:"method"`
	AutoPush    bool         `yaml:"auto_push"`
	RepoDir     string       `yaml:"repo_dir"`
	Remote      string       `yaml:"remote"`
	Branch      string       `yaml:"branch"`
	HookCommand string       `yaml:"hook_command"`
}

// NotifyMethod selects which Notifier the scheduler is constructed with.
type NotifyMethod string

const (
	NotifyLog     NotifyMethod = "log"
	NotifyEmail   NotifyMethod = "email"
	NotifySlack   NotifyMethod = "slack"
	NotifyWebhook NotifyMethod = "webhook"
)

// NotifyConfig configures failure notification.
type NotifyConfig struct {
	Method     NotifyMethod `yaml:"method"`
	WebhookURL string       `yaml:"webhook_url"`
}

// SchedulerConfig bounds the scheduler retry loop and the run lease.
type SchedulerConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	LeaseTTL    time.Duration `yaml:"lease_ttl"`
	Interval    time.Duration `yaml:"interval"`     // daemon mode
	MetricsAddr string        `yaml:"metrics_addr"` // daemon mode, empty disables
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content so secrets stay out of the file.
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
