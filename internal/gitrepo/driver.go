// Package gitrepo drives the host git repository for backstitch. The Driver
// interface names every capability the sequencer needs; CLIDriver is the one
// real implementation and shells out to git through a Runner.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gorewood/backstitch/internal/output"
)

// DefaultActivityFile is the file each synthesized commit appends a line to,
// so every commit carries real content.
const DefaultActivityFile = "ACTIVITY.md"

// Driver is the capability set the sequencer requires of a repository.
// Implementations must keep each operation synchronous; the sequencer never
// overlaps two calls.
type Driver interface {
	// IsAvailable reports whether the external git tool can be invoked.
	IsAvailable(ctx context.Context) bool

	// IsRepository reports whether the working directory is inside a repo.
	IsRepository(ctx context.Context) bool

	// Initialize creates a new empty repository in the working directory.
	Initialize(ctx context.Context) error

	// IsClean reports whether the working tree has no staged or unstaged
	// changes.
	IsClean(ctx context.Context) (bool, error)

	// CommitAt creates one commit whose authored and committed dates both
	// equal t.
	CommitAt(ctx context.Context, t time.Time, message string) error

	// CommitCount returns the number of commits reachable from HEAD.
	// An unborn HEAD counts as zero.
	CommitCount(ctx context.Context) (int, error)

	// Head returns the full SHA of the current HEAD commit.
	Head(ctx context.Context) (string, error)

	// HardReset discards all commits and working-tree state after ref.
	HardReset(ctx context.Context, ref string) error

	// SoftResetToRoot moves HEAD to the root commit, keeping every later
	// change staged.
	SoftResetToRoot(ctx context.Context) error

	// RootCommit returns the SHA of the parentless commit HEAD descends from.
	RootCommit(ctx context.Context) (string, error)

	// SquashAllIntoOne collapses all history above the root into a single
	// commit dated at t.
	SquashAllIntoOne(ctx context.Context, t time.Time, message string) error
}

// CLIDriver implements Driver against the real git binary.
type CLIDriver struct {
	runner       Runner
	dir          string
	activityFile string
}

// NewCLIDriver creates a driver that runs git in dir (empty = current
// directory) and appends commit payload lines to the default activity file.
func NewCLIDriver(runner Runner, dir string) *CLIDriver {
	return &CLIDriver{
		runner:       runner,
		dir:          dir,
		activityFile: DefaultActivityFile,
	}
}

// IsAvailable implements Driver.
func (d *CLIDriver) IsAvailable(ctx context.Context) bool {
	_, err := d.runner.Run(ctx, "--version")
	return err == nil
}

// IsRepository implements Driver.
func (d *CLIDriver) IsRepository(ctx context.Context) bool {
	_, err := d.runner.Run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// Initialize implements Driver.
func (d *CLIDriver) Initialize(ctx context.Context) error {
	if _, err := d.runner.Run(ctx, "init"); err != nil {
		return output.NewSystemErrorWithCause("failed to initialize repository", err)
	}
	return nil
}

// IsClean implements Driver.
func (d *CLIDriver) IsClean(ctx context.Context) (bool, error) {
	out, err := d.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, output.NewSystemErrorWithCause("failed to check working tree state", err)
	}
	return strings.TrimSpace(out) == "", nil
}

// CommitAt implements Driver. It appends a dated, uuid-tagged line to the
// activity file, stages everything, and commits with both git dates forced
// to t. The commit is created even if staging collapses to nothing.
func (d *CLIDriver) CommitAt(ctx context.Context, t time.Time, message string) error {
	if err := d.appendActivityLine(t); err != nil {
		return err
	}
	if _, err := d.runner.Run(ctx, "add", "-A"); err != nil {
		return output.NewSystemErrorWithCause("failed to stage changes", err)
	}
	date := t.Format(time.RFC3339)
	env := []string{
		"GIT_AUTHOR_DATE=" + date,
		"GIT_COMMITTER_DATE=" + date,
	}
	if _, err := d.runner.RunEnv(ctx, env, "commit", "-m", message, "--allow-empty"); err != nil {
		return output.NewSystemErrorWithCause("failed to create commit", err)
	}
	return nil
}

// appendActivityLine writes one unique line so the commit has content.
func (d *CLIDriver) appendActivityLine(t time.Time) error {
	path := filepath.Join(d.dir, d.activityFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to open activity file", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s\n", t.Format(time.RFC3339), uuid.NewString())
	if _, err := f.WriteString(line); err != nil {
		return output.NewSystemErrorWithCause("failed to update activity file", err)
	}
	return nil
}

// CommitCount implements Driver.
func (d *CLIDriver) CommitCount(ctx context.Context) (int, error) {
	out, err := d.runner.Run(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		if errors.Is(err, ErrGitNotFound) {
			return 0, err
		}
		// An unborn HEAD makes rev-list fail; that is simply zero commits.
		if _, headErr := d.runner.Run(ctx, "rev-parse", "--verify", "HEAD"); headErr != nil {
			return 0, nil
		}
		return 0, output.NewSystemErrorWithCause("failed to count commits", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, output.NewSystemError("unexpected rev-list output: " + out)
	}
	return n, nil
}

// Head implements Driver.
func (d *CLIDriver) Head(ctx context.Context) (string, error) {
	sha, err := d.runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get HEAD", err)
	}
	return sha, nil
}

// HardReset implements Driver.
func (d *CLIDriver) HardReset(ctx context.Context, ref string) error {
	if _, err := d.runner.Run(ctx, "reset", "--hard", ref); err != nil {
		return output.NewSystemErrorWithCause("failed to hard-reset to "+ref, err)
	}
	return nil
}

// RootCommit implements Driver. With multiple parentless commits (grafted or
// merged unrelated histories) the first one reported wins.
func (d *CLIDriver) RootCommit(ctx context.Context) (string, error) {
	out, err := d.runner.Run(ctx, "rev-list", "--max-parents=0", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to find root commit", err)
	}
	root, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	if root == "" {
		return "", output.NewSystemError("no root commit found")
	}
	return root, nil
}

// SoftResetToRoot implements Driver.
func (d *CLIDriver) SoftResetToRoot(ctx context.Context) error {
	root, err := d.RootCommit(ctx)
	if err != nil {
		return err
	}
	if _, err := d.runner.Run(ctx, "reset", "--soft", root); err != nil {
		return output.NewSystemErrorWithCause("failed to soft-reset to root", err)
	}
	return nil
}

// SquashAllIntoOne implements Driver, composed from the primitives:
// soft-reset to the root, stage everything, commit once at t.
func (d *CLIDriver) SquashAllIntoOne(ctx context.Context, t time.Time, message string) error {
	if err := d.SoftResetToRoot(ctx); err != nil {
		return err
	}
	if _, err := d.runner.Run(ctx, "add", "-A"); err != nil {
		return output.NewSystemErrorWithCause("failed to stage changes", err)
	}
	date := t.Format(time.RFC3339)
	env := []string{
		"GIT_AUTHOR_DATE=" + date,
		"GIT_COMMITTER_DATE=" + date,
	}
	if _, err := d.runner.RunEnv(ctx, env, "commit", "-m", message, "--allow-empty"); err != nil {
		return output.NewSystemErrorWithCause("failed to create squash commit", err)
	}
	return nil
}
