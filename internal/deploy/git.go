package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

const (
	commitAuthorName  = "blogsmith"
	commitAuthorEmail = "blogsmith@disruptorsmedia.com"
)

// GitDeployer commits new content and images, and optionally pushes so
// the hosting platform picks up the build.
type GitDeployer struct {
	RepoDir    string
	Remote     string
	Branch     string
	AutoPush   bool
	ContentDir string
	ImagesDir  string

	now func() time.Time
}

func (d *GitDeployer) Deploy(ctx context.Context) error {
	repo, err := git.PlainOpen(d.RepoDir)
	if err != nil {
		return errors.Wrap(err, errors.CategoryDeploy, errors.SeverityError, "open repository").
			WithContext("repo_dir", d.RepoDir)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return errors.Wrap(err, errors.CategoryDeploy, errors.SeverityError, "open worktree")
	}

	status, err := worktree.Status()
	if err != nil {
		return errors.Wrap(err, errors.CategoryDeploy, errors.SeverityError, "read worktree status")
	}
	if status.IsClean() {
		slog.Info("no changes to deploy", logfields.Method("git"))
		return nil
	}

	for _, dir := range []string{d.ContentDir, d.ImagesDir} {
		if dir == "" {
			continue
		}
		rel, err := d.relToRepo(dir)
		if err != nil {
			return err
		}
		if _, err := worktree.Add(rel); err != nil {
			return errors.Wrap(err, errors.CategoryDeploy, errors.SeverityError, "stage directory").
				WithContext("dir", rel)
		}
	}

	when := d.clock()()
	message := fmt.Sprintf("feat: Auto-publish blog posts - %s", when.UTC().Format(time.RFC3339))
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  commitAuthorName,
			Email: commitAuthorEmail,
			When:  when,
		},
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryDeploy, errors.SeverityError, "commit changes")
	}
	slog.Info("committed published content",
		logfields.Method("git"),
		slog.String("commit", hash.String()))

	if !d.AutoPush {
		slog.Info("changes committed locally, push disabled", logfields.Method("git"))
		return nil
	}

	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: d.Remote})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return errors.Wrap(err, errors.CategoryDeploy, errors.SeverityError, "push changes").
			WithContext("remote", d.Remote).
			WithContext("branch", d.Branch)
	}
	slog.Info("changes pushed, deployment triggered",
		logfields.Method("git"),
		slog.String("remote", d.Remote))
	return nil
}

// relToRepo makes a staged path relative to the repository root, since
// go-git's Add only takes worktree-relative paths.
func (d *GitDeployer) relToRepo(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		return filepath.ToSlash(dir), nil
	}
	rel, err := filepath.Rel(d.RepoDir, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.New(errors.CategoryDeploy, errors.SeverityError,
			fmt.Sprintf("directory %s is outside the repository", dir))
	}
	return filepath.ToSlash(rel), nil
}

func (d *GitDeployer) clock() func() time.Time {
	if d.now != nil {
		return d.now
	}
	return time.Now
}
