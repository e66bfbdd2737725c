package deploy

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// HookDeployer runs an external command, typically a platform CLI such
// as a Netlify or Vercel deploy.
type HookDeployer struct {
	Command string
}

func (d *HookDeployer) Deploy(ctx context.Context) error {
	fields := strings.Fields(d.Command)
	if len(fields) == 0 {
		return errors.New(errors.CategoryDeploy, errors.SeverityError, "empty hook command")
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrap(err, errors.CategoryDeploy, errors.SeverityError, "run deploy hook").
			WithContext("command", d.Command).
			WithContext("output", strings.TrimSpace(string(output)))
	}
	slog.Info("deploy hook completed",
		logfields.Method("hook"),
		slog.String("command", fields[0]))
	return nil
}
