package output

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: ExitSuccess},
		{name: "user error", err: NewUserError("bad token"), want: ExitUserError},
		{name: "system error", err: NewSystemError("git failed"), want: ExitSystemError},
		{name: "conflict error", err: NewConflictError("dirty tree"), want: ExitConflict},
		{name: "aborted error", err: NewAbortedError("rolled back to abc1234", errors.New("commit failed")), want: ExitAborted},
		{name: "rollback failed error", err: NewRollbackFailedError("restore to abc1234 failed", errors.New("reset failed")), want: ExitRollbackFailed},
		{name: "plain error defaults to user error", err: errors.New("something"), want: ExitUserError},
		{name: "wrapped exit error", err: fmt.Errorf("context: %w", NewSystemError("inner")), want: ExitSystemError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetExitCode(tt.err)
			if got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := NewSystemErrorWithCause("git command failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Error() != "git command failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "git command failed")
	}
}

func TestExitError_UserErrorWithCause(t *testing.T) {
	cause := errors.New("strconv failure")
	err := NewUserErrorWithCause("unparseable token", cause)

	if err.Code != ExitUserError {
		t.Errorf("Code = %d, want %d", err.Code, ExitUserError)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestExitCodes_AreDistinct(t *testing.T) {
	codes := []int{ExitSuccess, ExitUserError, ExitSystemError, ExitConflict, ExitAborted, ExitRollbackFailed}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d defined twice", c)
		}
		seen[c] = true
	}
	if ExitAborted != 4 || ExitRollbackFailed != 5 {
		t.Errorf("aborted/rollback codes = %d/%d, want 4/5", ExitAborted, ExitRollbackFailed)
	}
}
