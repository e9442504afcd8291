package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/groundworkusa/trust-events/internal/logger"
)

// ErrNoChanges reports that the results directory matches the committed
// state. Callers treat it as success with nothing to do.
var ErrNoChanges = errors.New("no changes to commit")

// Author identity used for result commits.
const (
	authorName  = "trust-events"
	authorEmail = "trust-events@users.noreply.github.com"
)

// Committer stages the results directory and records a date-stamped commit.
type Committer struct {
	repoDir    string
	resultsDir string // relative to repoDir
	token      string // optional HTTPS push credential
	push       bool
}

// New creates a Committer for the repository at repoDir. resultsDir is the
// repo-relative path that gets staged; nothing outside it is ever committed.
func New(repoDir, resultsDir, token string, push bool) *Committer {
	return &Committer{
		repoDir:    repoDir,
		resultsDir: strings.TrimSuffix(resultsDir, "/"),
		token:      token,
		push:       push,
	}
}

// CommitResults stages the results directory, commits with a message
// stamped with the run date, and pushes when enabled. Returns ErrNoChanges
// when the results directory is clean.
func (c *Committer) CommitResults(ctx context.Context, runDate string) (string, error) {
	repo, err := git.PlainOpen(c.repoDir)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("getting status: %w", err)
	}
	if !c.resultsChanged(status) {
		return "", ErrNoChanges
	}

	if _, err := wt.Add(c.resultsDir); err != nil {
		return "", fmt.Errorf("staging %s: %w", c.resultsDir, err)
	}

	message := fmt.Sprintf("Update scraper results - %s", runDate)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	logger.Info("Committed results", logger.Fields{
		"commit": hash.String(),
		"path":   c.resultsDir,
	})

	if !c.push {
		return hash.String(), nil
	}

	opts := &git.PushOptions{}
	if c.token != "" {
		// GitHub accepts any username with a token over HTTPS
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: c.token}
	}
	if err := repo.PushContext(ctx, opts); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return hash.String(), nil
		}
		return "", fmt.Errorf("pushing: %w", err)
	}

	logger.Info("Pushed results", logger.Fields{"commit": hash.String()})
	return hash.String(), nil
}

// resultsChanged reports whether any path under the results directory is
// modified or untracked. Changes elsewhere in the worktree are ignored.
func (c *Committer) resultsChanged(status git.Status) bool {
	prefix := c.resultsDir + "/"
	for path, fileStatus := range status {
		if path != c.resultsDir && !strings.HasPrefix(path, prefix) {
			continue
		}
		if fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified {
			return true
		}
	}
	return false
}
