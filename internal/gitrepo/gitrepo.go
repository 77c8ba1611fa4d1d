// Package gitrepo wraps the git operations of the release flow. Everything
// shells out through an executor.Runner so the whole flow can run against
// a fake in tests.
package gitrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/VoxDroid/themr/internal/executor"
)

// Repo runs git against one working directory.
type Repo struct {
	runner executor.Runner
	dir    string
}

// New returns a Repo rooted at dir.
func New(runner executor.Runner, dir string) *Repo {
	return &Repo{runner: runner, dir: dir}
}

// Available reports whether a git binary is on PATH.
func Available(r executor.Runner) error {
	if _, err := r.LookPath("git"); err != nil {
		return fmt.Errorf("git not found in PATH: %w", err)
	}
	return nil
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	res, err := r.runner.Run(ctx, executor.Command{
		Name: "git",
		Args: args,
		Dir:  r.dir,
	})
	return strings.TrimSpace(res.Stdout), err
}

// IsRepo reports whether the directory is inside a git work tree.
func (r *Repo) IsRepo(ctx context.Context) bool {
	out, err := r.git(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// IsClean reports whether the work tree has no staged or unstaged changes.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("status: %w", err)
	}
	return out == "", nil
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	return out, nil
}

// HeadShort returns the abbreviated commit hash of HEAD.
func (r *Repo) HeadShort(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	return out, nil
}

// Add stages the given paths.
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	if _, err := r.git(ctx, args...); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// Commit records the staged changes with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	if _, err := r.git(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Tag creates a lightweight tag at HEAD.
func (r *Repo) Tag(ctx context.Context, name string) error {
	if _, err := r.git(ctx, "tag", name); err != nil {
		return fmt.Errorf("tag %s: %w", name, err)
	}
	return nil
}

// TagExists reports whether the tag already exists.
func (r *Repo) TagExists(ctx context.Context, name string) (bool, error) {
	out, err := r.git(ctx, "tag", "--list", name)
	if err != nil {
		return false, fmt.Errorf("list tags: %w", err)
	}
	return out != "", nil
}

// Push sends the current branch to the remote.
func (r *Repo) Push(ctx context.Context, remote string) error {
	if _, err := r.git(ctx, "push", remote); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// PushTags sends all tags to the remote.
func (r *Repo) PushTags(ctx context.Context, remote string) error {
	if _, err := r.git(ctx, "push", remote, "--tags"); err != nil {
		return fmt.Errorf("push tags: %w", err)
	}
	return nil
}

// LatestTag returns the most recent tag reachable from HEAD, or "" when
// the repository has no tags yet.
func (r *Repo) LatestTag(ctx context.Context) string {
	out, err := r.git(ctx, "describe", "--tags", "--abbrev=0")
	if err != nil {
		return ""
	}
	return out
}

// LogSince returns "hash subject" lines for commits after ref, newest
// first. An empty ref returns the whole history.
func (r *Repo) LogSince(ctx context.Context, ref string) ([]string, error) {
	args := []string{"log", "--pretty=format:%h %s"}
	if ref != "" {
		args = append(args, ref+"..HEAD")
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// RemoteURL returns the fetch URL of the remote, or "" when it is not
// configured.
func (r *Repo) RemoteURL(ctx context.Context, remote string) string {
	out, err := r.git(ctx, "remote", "get-url", remote)
	if err != nil {
		return ""
	}
	return out
}

// UserName returns git's configured user.name, or "" when unset.
func (r *Repo) UserName(ctx context.Context) string {
	out, err := r.git(ctx, "config", "user.name")
	if err != nil {
		return ""
	}
	return out
}

// UserEmail returns git's configured user.email, or "" when unset.
func (r *Repo) UserEmail(ctx context.Context) string {
	out, err := r.git(ctx, "config", "user.email")
	if err != nil {
		return ""
	}
	return out
}
