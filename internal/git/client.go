// Package git commits synced site content to the site's working tree.
package git

import (
	"log/slog"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	syncerrors "git.home.luguber.info/inful/notionsync/internal/errors"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
)

const (
	defaultAuthorName  = "notionsync"
	defaultAuthorEmail = "notionsync@localhost"
)

// Client handles Git operations on the site repository
type Client struct {
	repoDir     string
	authorName  string
	authorEmail string
}

// NewClient creates a Git client for the repository containing the site tree
func NewClient(repoDir string) *Client {
	return &Client{
		repoDir:     repoDir,
		authorName:  defaultAuthorName,
		authorEmail: defaultAuthorEmail,
	}
}

// WithAuthor overrides the commit author (fluent helper).
func (c *Client) WithAuthor(name, email string) *Client {
	if name != "" {
		c.authorName = name
	}
	if email != "" {
		c.authorEmail = email
	}
	return c
}

// CommitSync stages every pending change in the working tree and commits it.
// Returns the commit hash, or an empty string when the tree was already
// clean. Orphan deletions performed by the reconciler are staged too.
func (c *Client) CommitSync(message string) (string, error) {
	repo, err := gogit.PlainOpen(c.repoDir)
	if err != nil {
		return "", syncerrors.Wrap(err, syncerrors.CategoryGit, syncerrors.SeverityError,
			"open site repository").WithContext("path", c.repoDir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", syncerrors.Wrap(err, syncerrors.CategoryGit, syncerrors.SeverityError, "open worktree")
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return "", syncerrors.Wrap(err, syncerrors.CategoryGit, syncerrors.SeverityError, "stage changes")
	}

	status, err := wt.Status()
	if err != nil {
		return "", syncerrors.Wrap(err, syncerrors.CategoryGit, syncerrors.SeverityError, "read worktree status")
	}
	if status.IsClean() {
		slog.Debug("Site repository already up to date, skipping commit", logfields.Path(c.repoDir))
		return "", nil
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  c.authorName,
			Email: c.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", syncerrors.Wrap(err, syncerrors.CategoryGit, syncerrors.SeverityError, "commit synced pages")
	}

	slog.Info("Committed synced pages", logfields.Path(c.repoDir), slog.String("commit", hash.String()[:8]))
	return hash.String(), nil
}
