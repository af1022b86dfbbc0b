package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/gorewood/backstitch/internal/output"
)

// ErrGitNotFound reports that the git binary is missing from PATH. Every
// repository operation is blocked while this holds.
var ErrGitNotFound = errors.New("git not found: ensure git is installed and in PATH")

// Runner executes git commands. The one concrete implementation shells out;
// tests substitute a scripted fake so driver behavior is checkable without
// a git binary.
type Runner interface {
	// Run executes git with the given arguments and returns trimmed stdout.
	Run(ctx context.Context, args ...string) (string, error)

	// RunEnv is Run with extra KEY=VALUE pairs appended to the process
	// environment for this invocation only.
	RunEnv(ctx context.Context, env []string, args ...string) (string, error)
}

// ExecRunner runs git through os/exec.
type ExecRunner struct {
	// Dir is the working directory for every invocation.
	// Empty means the current process directory.
	Dir string
}

// NewExecRunner creates an ExecRunner rooted at dir.
func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.RunEnv(ctx, nil, args...)
}

// RunEnv implements Runner.
// Returns an *output.ExitError on failure: ErrGitNotFound-wrapping system
// error when the binary is missing, otherwise a system error carrying the
// command's stderr.
func (r *ExecRunner) RunEnv(ctx context.Context, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if git is not found
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemErrorWithCause(ErrGitNotFound.Error(), ErrGitNotFound)
		}

		// Git command failed - include stderr in message
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
