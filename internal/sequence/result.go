package sequence

import "time"

// Outcome names the terminal state of one apply run.
type Outcome int

const (
	// OutcomeSuccess: every planned instant was committed, or a lenient run
	// finished with its failures recorded as skips.
	OutcomeSuccess Outcome = iota
	// OutcomeAbortedRolledBack: a non-lenient failure stopped the run and
	// the repository was restored to its pre-run snapshot.
	OutcomeAbortedRolledBack
	// OutcomeRollbackFailed: the run failed and so did the restore; the
	// repository is left partially mutated.
	OutcomeRollbackFailed
)

// String returns the reporting name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAbortedRolledBack:
		return "aborted-rolled-back"
	case OutcomeRollbackFailed:
		return "rollback-failed"
	default:
		return "unknown"
	}
}

// Skip records one lenient-mode commit failure. The instant is permanently
// skipped; there is no retry.
type Skip struct {
	Index   int
	Instant time.Time
	Reason  string
}

// Result describes what one apply run did to the repository.
type Result struct {
	Outcome Outcome

	// Planned is the number of instants that survived range validation.
	Planned int

	// Committed counts commits created during the apply loop. After a
	// rollback these commits no longer exist; the count says how far the
	// run got before failing.
	Committed int

	// Skipped holds lenient-mode per-commit failures.
	Skipped []Skip

	// Dropped holds instants removed by lenient range validation.
	Dropped []time.Time

	// Snapshot is the head captured before the first commit, the rollback
	// target.
	Snapshot string

	// Head is the repository head after the run.
	Head string

	// Elapsed is wall-clock apply time.
	Elapsed time.Duration
}
