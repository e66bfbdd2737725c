package config

import (
	"fmt"
)

// Validate fails fast with a clear diagnostic instead of letting a component
// discover a bad value mid-run.
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("config: spreadsheet_id is required")
	}

	switch c.Deploy.Method {
	case DeployManual, DeployGit, DeployHook:
	default:
		return fmt.Errorf("config: unknown deploy method %q (want manual, git or hook)", c.Deploy.Method)
	}
	if c.Deploy.Method == DeployHook && c.Deploy.HookCommand == "" {
		return fmt.Errorf("config: deploy.hook_command is required for the hook method")
	}

	switch c.Notify.Method {
	case NotifyLog, NotifyEmail, NotifySlack, NotifyWebhook:
	default:
		return fmt.Errorf("config: unknown notify method %q (want log, email, slack or webhook)", c.Notify.Method)
	}

	switch c.Image.Retry.Mode {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		return fmt.Errorf("config: unknown retry backoff mode %q", c.Image.Retry.Mode)
	}

	return nil
}
