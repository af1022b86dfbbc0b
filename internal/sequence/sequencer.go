// Package sequence drives the repository through the phases of one run:
// pre-flight checks, the ordered apply loop, and rollback on failure. The
// flow is an explicit state machine with named terminal outcomes; the
// rollback-vs-abort decision is a first-class branch, not a side effect of
// error propagation.
package sequence

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/gorewood/backstitch/internal/gitrepo"
	"github.com/gorewood/backstitch/internal/output"
	"github.com/gorewood/backstitch/internal/timeutil"
)

// minYear is the inclusive lower bound for commit years. Instants before
// the epoch confuse both git and the platforms rendering its history.
const minYear = 1970

// Sequencer owns one run's pre-flight/apply/rollback flow. All repository
// access goes through the Driver, so tests run against an in-memory fake.
type Sequencer struct {
	driver   gitrepo.Driver
	now      func() time.Time
	progress func(format string, args ...any)
}

// New creates a Sequencer over the given driver.
func New(driver gitrepo.Driver) *Sequencer {
	return &Sequencer{
		driver:   driver,
		now:      time.Now,
		progress: func(string, ...any) {},
	}
}

// WithNow overrides the clock. Returns the sequencer for chaining.
func (s *Sequencer) WithNow(now func() time.Time) *Sequencer {
	s.now = now
	return s
}

// WithProgress routes progress lines; the signature matches
// output.Printer.Progress. Returns the sequencer for chaining.
func (s *Sequencer) WithProgress(fn func(format string, args ...any)) *Sequencer {
	s.progress = fn
	return s
}

// Apply runs the full sequence: pre-flight, then one commit per instant in
// order, then rollback if a non-lenient failure interrupts the loop.
// Pre-flight failures return a nil Result; nothing was mutated beyond the
// repository-shaping commits (cleanse, bootstrap, squash) which are not
// rolled back. Apply-phase failures return the Result alongside the error
// so callers can report how far the run got.
func (s *Sequencer) Apply(ctx context.Context, instants []time.Time, pol Policy) (*Result, error) {
	valid, dropped, snapshot, err := s.preflight(ctx, instants, pol)
	if err != nil {
		return nil, err
	}
	return s.applyAll(ctx, valid, dropped, snapshot, pol)
}

// preflight walks the checks in order, failing fast: tool available,
// repository present (else initialized), tree clean (else cleansed under
// policy), bootstrap or squash, range validation, head snapshot.
func (s *Sequencer) preflight(ctx context.Context, instants []time.Time, pol Policy) (valid, dropped []time.Time, snapshot string, err error) {
	if !s.driver.IsAvailable(ctx) {
		return nil, nil, "", output.NewSystemErrorWithCause(gitrepo.ErrGitNotFound.Error(), gitrepo.ErrGitNotFound)
	}

	if !s.driver.IsRepository(ctx) {
		s.progress("no repository found, initializing one")
		if err := s.driver.Initialize(ctx); err != nil {
			return nil, nil, "", err
		}
	}

	// Every repository-shaping commit is dated past any rendered history
	// range, and canonicalized exactly like the resolved instants.
	sentinel := timeutil.Canonicalize(timeutil.FarFutureSentinel(s.now()))

	clean, err := s.driver.IsClean(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	if !clean {
		if pol.CleanseMessage == "" {
			return nil, nil, "", &output.ExitError{
				Code:    output.ExitConflict,
				Message: ErrDirtyWorkTree.Error(),
				Cause:   ErrDirtyWorkTree,
			}
		}
		s.progress("cleansing outstanding changes")
		if err := s.driver.CommitAt(ctx, sentinel, pol.CleanseMessage); err != nil {
			return nil, nil, "", err
		}
	}

	count, err := s.driver.CommitCount(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	switch {
	case count == 0:
		// Reset operations cannot target the root commit, so every
		// repository gets a dedicated sentinel-dated root.
		s.progress("empty repository, creating bootstrap commit")
		if err := s.driver.CommitAt(ctx, sentinel, bootstrapMessage); err != nil {
			return nil, nil, "", err
		}
	case pol.ResetMessage != "":
		s.progress("squashing %d existing commits into one", count)
		if err := s.driver.SquashAllIntoOne(ctx, sentinel, pol.ResetMessage); err != nil {
			return nil, nil, "", err
		}
	}

	valid, dropped, err = s.validateRange(instants, pol.Lenient)
	if err != nil {
		return nil, nil, "", err
	}

	snapshot, err = s.driver.Head(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	return valid, dropped, snapshot, nil
}

// validateRange enforces the year window [minYear, now.Year+74). A failing
// instant aborts the run before any commit is made, unless the policy is
// lenient, in which case it is dropped and reported.
func (s *Sequencer) validateRange(instants []time.Time, lenient bool) ([]time.Time, []time.Time, error) {
	maxYear := s.now().Year() + 74
	valid := make([]time.Time, 0, len(instants))
	var dropped []time.Time
	for _, t := range instants {
		if t.Year() >= minYear && t.Year() < maxYear {
			valid = append(valid, t)
			continue
		}
		if !lenient {
			rerr := &RangeError{Instant: t, MinYear: minYear, MaxYear: maxYear}
			return nil, nil, output.NewUserErrorWithCause(rerr.Error(), rerr)
		}
		s.progress("dropping out-of-range date %s", t.Format("2006-01-02"))
		dropped = append(dropped, t)
	}
	return valid, dropped, nil
}

// applyAll creates one commit per instant, strictly in order, pacing the
// loop with the throttle. No two repository mutations are ever in flight.
func (s *Sequencer) applyAll(ctx context.Context, instants, dropped []time.Time, snapshot string, pol Policy) (*Result, error) {
	res := &Result{
		Planned:  len(instants),
		Dropped:  dropped,
		Snapshot: snapshot,
		Head:     snapshot,
	}

	if len(instants) > 0 {
		eta := int64(len(instants)) * pol.Throttle.Milliseconds()
		s.progress("creating %d commits, about %s", len(instants), timeutil.FormatDuration(eta))
	}

	var limiter *rate.Limiter
	if pol.Throttle > 0 {
		limiter = rate.NewLimiter(rate.Every(pol.Throttle), 1)
	}

	message := pol.CommitMessage
	if message == "" {
		message = DefaultCommitMessage
	}

	start := s.now()
	for i, instant := range instants {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				// Cancellation aborts the remaining sequence even under a
				// lenient policy; nothing further can succeed.
				return s.rollback(ctx, res, &CommitError{Index: i + 1, Instant: instant, Err: err})
			}
		}
		if err := s.driver.CommitAt(ctx, instant, message); err != nil {
			cerr := &CommitError{Index: i + 1, Instant: instant, Err: err}
			if pol.Lenient {
				s.progress("skipping commit %d/%d: %v", i+1, len(instants), err)
				res.Skipped = append(res.Skipped, Skip{Index: i + 1, Instant: instant, Reason: err.Error()})
				continue
			}
			return s.rollback(ctx, res, cerr)
		}
		res.Committed++
		s.progress("commit %d/%d", i+1, len(instants))
	}
	res.Elapsed = s.now().Sub(start)

	head, err := s.driver.Head(ctx)
	if err != nil {
		return res, err
	}
	res.Head = head
	res.Outcome = OutcomeSuccess
	return res, nil
}

// rollback hard-resets to the pre-run snapshot, discarding every commit the
// failed run created. A failed restore is reported distinctly: the operator
// must know the repository was left partially mutated and which ref to
// recover to.
func (s *Sequencer) rollback(ctx context.Context, res *Result, applyErr error) (*Result, error) {
	s.progress("apply failed, rolling back to %s", shortRef(res.Snapshot))
	if err := s.driver.HardReset(ctx, res.Snapshot); err != nil {
		res.Outcome = OutcomeRollbackFailed
		res.Head = ""
		rberr := &RollbackError{Snapshot: res.Snapshot, Apply: applyErr, Cause: err}
		return res, output.NewRollbackFailedError(rberr.Error(), rberr)
	}
	res.Outcome = OutcomeAbortedRolledBack
	res.Head = res.Snapshot
	msg := fmt.Sprintf("%v; repository restored to %s", applyErr, shortRef(res.Snapshot))
	return res, output.NewAbortedError(msg, applyErr)
}
