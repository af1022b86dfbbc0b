package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorewood/backstitch/internal/timeutil"
)

// ErrOffsetFirst is returned when a relative offset opens a sequence. An
// offset measures from its predecessor's date, so there must be one.
var ErrOffsetFirst = errors.New("a relative offset cannot start the sequence; lead with an absolute date")

// ErrStateCorrupt marks a broken internal invariant: a nonzero offset
// reached the fold with a predecessor instant but no predecessor date.
// User input cannot produce it.
var ErrStateCorrupt = errors.New("resolver state corrupt: offset with no base date")

// resolverState is the pair threaded through the fold. prev is the
// immediately preceding resolved instant including any minute-level nudge;
// prevDate is that instant before nudging. Offsets measure from prevDate so
// a chain of offsets never compounds the nudges. The zero time marks
// "not yet set"; every resolvable instant is at or after 1970.
type resolverState struct {
	prev     time.Time
	prevDate time.Time
}

// Resolve turns classified tokens into one instant per token, in order.
// It is deterministic and performs no I/O. Each emitted instant is
// canonicalized exactly once, on append; the values carried in the fold
// state stay uncanonicalized so collision comparisons see raw midnights.
func Resolve(tokens []Token, dir Direction) ([]time.Time, error) {
	out := make([]time.Time, 0, len(tokens))
	var st resolverState
	for _, tok := range tokens {
		instant, next, err := st.step(tok, dir)
		if err != nil {
			return nil, err
		}
		st = next
		out = append(out, timeutil.Canonicalize(instant))
	}
	return out, nil
}

// step resolves one token against the current state and returns the
// resolved instant plus the successor state.
func (st resolverState) step(tok Token, dir Direction) (time.Time, resolverState, error) {
	switch tok.Kind {
	case RelativeOffset:
		return st.stepOffset(tok, dir)
	case AbsoluteDate:
		return st.stepDate(tok)
	default:
		return time.Time{}, st, &TokenError{Token: tok.Raw, Reason: "unknown token kind"}
	}
}

func (st resolverState) stepOffset(tok Token, dir Direction) (time.Time, resolverState, error) {
	if st.prev.IsZero() {
		return time.Time{}, st, fmt.Errorf("token %q: %w", tok.Raw, ErrOffsetFirst)
	}

	d := tok.Offset * int(dir)
	if d == 0 {
		// Same-day "next commit" nudge. The date base does not move, so a
		// following offset or repeated date still measures from midnight.
		instant := st.prev.Add(time.Minute)
		return instant, resolverState{prev: instant, prevDate: st.prevDate}, nil
	}

	if st.prevDate.IsZero() {
		return time.Time{}, st, fmt.Errorf("token %q: %w", tok.Raw, ErrStateCorrupt)
	}
	instant := st.prevDate.AddDate(0, 0, d)
	return instant, resolverState{prev: instant, prevDate: instant}, nil
}

func (st resolverState) stepDate(tok Token) (time.Time, resolverState, error) {
	t := tok.Date

	// Exact repeat of the previous instant: nudge a minute past it.
	if !st.prev.IsZero() && t.Equal(st.prev) {
		instant := t.Add(time.Minute)
		return instant, resolverState{prev: instant, prevDate: st.prevDate}, nil
	}

	// Repeat of the previous date whose instant has already been nudged
	// (the [date, 0, date] pattern): continue the minute chain off prev
	// instead of colliding with an already-emitted instant.
	if !st.prevDate.IsZero() && t.Equal(st.prevDate) {
		instant := st.prev.Add(time.Minute)
		return instant, resolverState{prev: instant, prevDate: st.prevDate}, nil
	}

	return t, resolverState{prev: t, prevDate: t}, nil
}
