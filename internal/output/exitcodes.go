package output

import "errors"

// Exit codes, one per terminal outcome so callers can script against
// failures without parsing output text:
// 0 = Success
// 1 = User error (bad token, bad flags, out-of-range date)
// 2 = System error (git missing, pre-flight git failure, I/O error)
// 3 = Conflict (dirty work tree without a cleanse policy)
// 4 = Aborted (apply-phase failure, repository rolled back to its snapshot)
// 5 = Rollback failed (apply-phase failure AND the restore failed)
const (
	ExitSuccess        = 0
	ExitUserError      = 1
	ExitSystemError    = 2
	ExitConflict       = 3
	ExitAborted        = 4
	ExitRollbackFailed = 5
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
// Use for: malformed tokens, illegal offsets, bad flag values.
func NewUserError(message string) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
	}
}

// NewUserErrorWithCause creates a user error wrapping an underlying cause.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
		Cause:   cause,
	}
}

// NewSystemError creates an error for system failures (exit code 2).
// Use for: git operation failures, I/O errors.
func NewSystemError(message string) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
	}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
		Cause:   cause,
	}
}

// NewConflictError creates an error for conflict situations (exit code 3).
// Use for: uncommitted changes blocking a run.
func NewConflictError(message string) *ExitError {
	return &ExitError{
		Code:    ExitConflict,
		Message: message,
	}
}

// NewAbortedError creates an error for an apply-phase failure after which
// the repository was restored to its pre-run snapshot (exit code 4).
func NewAbortedError(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitAborted,
		Message: message,
		Cause:   cause,
	}
}

// NewRollbackFailedError creates an error for the worst case: an apply-phase
// failure whose rollback also failed, leaving the repository partially
// mutated (exit code 5). The message must name the snapshot ref so the
// operator can recover by hand.
func NewRollbackFailedError(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitRollbackFailed,
		Message: message,
		Cause:   cause,
	}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Default to user error for untyped errors
	return ExitUserError
}
