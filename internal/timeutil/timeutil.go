// Package timeutil provides the timestamp helpers shared by the resolver
// and the commit sequencer: strict calendar-date parsing, the display-offset
// canonicalization applied to every emitted instant, the far-future sentinel
// used for commits that must sit outside normal history ranges, and duration
// formatting for progress output.
package timeutil

import (
	"fmt"
	"time"
)

// CalendarDateLayout is the only accepted input form for absolute dates.
const CalendarDateLayout = "2006-01-02"

// ParseCalendarDate parses a strict YYYY-MM-DD string into an instant at
// local midnight. Any other shape is an error.
func ParseCalendarDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(CalendarDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// Canonicalize shifts an instant forward one hour and re-bases the shifted
// wall clock to UTC. GitHub's contribution graph buckets commits by a
// zone-dependent rendering of the author date; the fixed shift keeps a
// resolved calendar day on that day in the rendered graph. Apply exactly
// once per emitted instant, never to values the resolver compares against.
func Canonicalize(t time.Time) time.Time {
	shifted := t.Add(time.Hour)
	return time.Date(
		shifted.Year(), shifted.Month(), shifted.Day(),
		shifted.Hour(), shifted.Minute(), shifted.Second(), shifted.Nanosecond(),
		time.UTC,
	)
}

// FarFutureSentinel returns an instant 74 calendar years past now. Commits
// dated with it (bootstrap root, cleanse, squash) fall outside the range any
// contribution graph renders, so they never show up as activity.
func FarFutureSentinel(now time.Time) time.Time {
	return now.AddDate(74, 0, 0)
}

// FormatDuration renders a millisecond count as "MMm SSs". The whole-second
// count is rounded up by one so a sub-second remainder never displays as a
// premature "00s".
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms/1000 + 1
	return fmt.Sprintf("%02dm %02ds", total/60, total%60)
}
