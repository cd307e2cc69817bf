// Package gitfetch checks out the documented library source from a git URL
// so a build can run without a pre-existing local tree.
package gitfetch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/ddinu/doxybuild/internal/logfields"
)

// Client handles git checkout operations inside a workspace directory.
type Client struct {
	workspaceDir string
}

// NewClient creates a client rooted at the given workspace directory.
func NewClient(workspaceDir string) *Client {
	return &Client{workspaceDir: workspaceDir}
}

// Fetch clones url into the workspace (or updates an existing checkout) and
// returns the local path. An existing checkout is pulled rather than
// re-cloned so repeated daemon builds stay cheap.
func (c *Client) Fetch(url, branch string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("source URL is empty")
	}
	repoPath := filepath.Join(c.workspaceDir, "source")

	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
		return c.update(repoPath, branch)
	}
	return c.clone(url, branch, repoPath)
}

func (c *Client) clone(url, branch, repoPath string) (string, error) {
	slog.Info("Cloning library source", logfields.Repository(url), logfields.Path(repoPath))

	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to remove existing directory: %w", err)
	}

	cloneOptions := &git.CloneOptions{URL: url, Progress: os.Stdout}
	if branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(branch)
		cloneOptions.SingleBranch = true
	}

	repository, err := git.PlainClone(repoPath, false, cloneOptions)
	if err != nil {
		return "", fmt.Errorf("failed to clone %s: %w", url, err)
	}
	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Source cloned", logfields.Repository(url), slog.String("commit", ref.Hash().String()[:8]))
	}
	return repoPath, nil
}

func (c *Client) update(repoPath, branch string) (string, error) {
	repository, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open existing checkout: %w", err)
	}
	worktree, err := repository.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	pullOptions := &git.PullOptions{Progress: os.Stdout}
	if branch != "" {
		pullOptions.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	err = worktree.Pull(pullOptions)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("failed to update checkout: %w", err)
	}

	slog.Info("Source checkout up to date", logfields.Path(repoPath))
	return repoPath, nil
}
