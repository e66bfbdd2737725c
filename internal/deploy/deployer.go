package deploy

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// Deployer triggers a site deployment after a successful run. A deploy
// failure is reported to the caller but must not undo published files.
type Deployer interface {
	Deploy(ctx context.Context) error
}

// FromConfig selects a deployer for the configured method. Validation
// has already rejected unknown methods.
func FromConfig(cfg config.DeployConfig, contentDir, imagesDir string) Deployer {
	switch cfg.Method {
	case config.DeployGit:
		return &GitDeployer{
			RepoDir:    cfg.RepoDir,
			Remote:     cfg.Remote,
			Branch:     cfg.Branch,
			AutoPush:   cfg.AutoPush,
			ContentDir: contentDir,
			ImagesDir:  imagesDir,
		}
	case config.DeployHook:
		return &HookDeployer{Command: cfg.HookCommand}
	default:
		return &ManualDeployer{}
	}
}

// ManualDeployer just announces that new content is waiting.
type ManualDeployer struct{}

func (d *ManualDeployer) Deploy(context.Context) error {
	slog.Info("manual deployment required, new blog posts are ready",
		logfields.Method("manual"))
	return nil
}
