package sequence

import "time"

// Default commit subjects for the repository-shaping commits the sequencer
// creates on its own. Caller-facing messages (cleanse, reset, activity) can
// be overridden through flags; the bootstrap subject cannot.
const (
	DefaultCommitMessage  = "backstitch activity"
	DefaultCleanseMessage = "backstitch cleanse"
	DefaultResetMessage   = "backstitch reset"

	bootstrapMessage = "backstitch bootstrap"
)

// DefaultThrottle is the standard pacing between commits. Slow enough to
// keep a loaded machine responsive, fast enough that a month-long pattern
// finishes in seconds.
const DefaultThrottle = 250 * time.Millisecond

// Policy carries the run-wide settings the sequencer honors.
type Policy struct {
	// Lenient converts per-item failures (out-of-range instants, failed
	// commits) into recorded skips instead of aborting the run.
	Lenient bool

	// CleanseMessage, when non-empty, allows a dirty work tree: outstanding
	// changes are committed under the far-future sentinel date with this
	// subject before the run proceeds. Empty means a dirty tree is fatal.
	CleanseMessage string

	// ResetMessage, when non-empty, squashes all existing history into one
	// sentinel-dated commit with this subject before applying. Empty
	// preserves history.
	ResetMessage string

	// CommitMessage is the subject used for every synthesized commit.
	CommitMessage string

	// Throttle paces the apply loop: at most one commit per interval.
	// Zero disables pacing.
	Throttle time.Duration
}
