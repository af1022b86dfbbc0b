package sequence

import (
	"errors"
	"fmt"
	"time"
)

// ErrDirtyWorkTree reports uncommitted changes blocking a run that has no
// cleanse policy.
var ErrDirtyWorkTree = errors.New("work tree has uncommitted changes; commit or stash them, or pass --cleanse")

// RangeError reports an instant whose calendar year falls outside the
// accepted window. The window is inclusive at MinYear, exclusive at MaxYear.
type RangeError struct {
	Instant time.Time
	MinYear int
	MaxYear int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("date %s outside accepted years [%d, %d)",
		e.Instant.Format("2006-01-02"), e.MinYear, e.MaxYear)
}

// CommitError reports a single failed commit during the apply phase.
// Index is 1-based position in the planned sequence.
type CommitError struct {
	Index   int
	Instant time.Time
	Err     error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %d at %s failed: %v",
		e.Index, e.Instant.Format(time.RFC3339), e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// RollbackError reports the worst case: an apply failure whose restore also
// failed, leaving the repository partially mutated. Snapshot names the ref
// the operator can reset to by hand.
type RollbackError struct {
	Snapshot string
	Apply    error
	Cause    error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback to %s failed (%v) after apply failure: %v",
		shortRef(e.Snapshot), e.Cause, e.Apply)
}

func (e *RollbackError) Unwrap() error {
	return e.Cause
}

// shortRef abbreviates a full SHA for human-facing messages.
func shortRef(ref string) string {
	if len(ref) > 7 {
		return ref[:7]
	}
	return ref
}
