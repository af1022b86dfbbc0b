// Package schedule turns the ordered list of user-supplied date tokens into
// the instants commits will be dated at. Tokens are either absolute calendar
// dates (YYYY-MM-DD) or non-negative day offsets interpreted under a
// run-wide direction. Resolution is a pure fold with no I/O, so the whole
// algorithm is testable without touching a repository.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gorewood/backstitch/internal/timeutil"
)

// Direction is the sign applied to every relative offset in one run.
type Direction int

const (
	// Forward advances offsets later in time.
	Forward Direction = 1
	// Backward advances offsets earlier in time.
	Backward Direction = -1
)

// ParseDirection maps the --direction flag value to a Direction.
// Accepts "+" or "-"; empty defaults to Forward.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "+":
		return Forward, nil
	case "-":
		return Backward, nil
	default:
		return 0, fmt.Errorf("invalid direction %q: want + or -", s)
	}
}

// String returns the flag spelling of the direction.
func (d Direction) String() string {
	if d == Backward {
		return "-"
	}
	return "+"
}

// TokenKind discriminates the two accepted token shapes.
type TokenKind int

const (
	// AbsoluteDate is a calendar date with no time of day.
	AbsoluteDate TokenKind = iota
	// RelativeOffset is a non-negative day count measured from the
	// preceding token's date.
	RelativeOffset
)

// Token is one classified input item. Raw always holds the original string
// so errors downstream can name the offending input.
type Token struct {
	Raw    string
	Kind   TokenKind
	Date   time.Time // set when Kind == AbsoluteDate; local midnight
	Offset int       // set when Kind == RelativeOffset
}

// TokenError reports a token that matches neither accepted shape.
type TokenError struct {
	Token  string
	Reason string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("unparseable token %q: %s", e.Token, e.Reason)
}

var (
	offsetPattern = regexp.MustCompile(`^\d+$`)
	signedPattern = regexp.MustCompile(`^[+-]\d+$`)
)

// ParseToken classifies one raw argument as an absolute date or a relative
// offset. A signed integer is rejected with a pointer at --direction, since
// the sign convention is fixed once per run rather than per token.
func ParseToken(raw string) (Token, error) {
	if offsetPattern.MatchString(raw) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Token{}, &TokenError{Token: raw, Reason: "day offset out of range"}
		}
		return Token{Raw: raw, Kind: RelativeOffset, Offset: n}, nil
	}

	if signedPattern.MatchString(raw) {
		return Token{}, &TokenError{
			Token:  raw,
			Reason: "offsets take no sign; pass a bare day count and set --direction - to move backward",
		}
	}

	t, err := timeutil.ParseCalendarDate(raw)
	if err != nil {
		return Token{}, &TokenError{Token: raw, Reason: "want YYYY-MM-DD or a non-negative day count"}
	}
	return Token{Raw: raw, Kind: AbsoluteDate, Date: t}, nil
}

// ParseTokens classifies an argument list in order, failing on the first
// token that matches neither shape.
func ParseTokens(raw []string) ([]Token, error) {
	tokens := make([]Token, 0, len(raw))
	for _, r := range raw {
		tok, err := ParseToken(r)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
