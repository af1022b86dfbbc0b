package schedule

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gorewood/backstitch/internal/timeutil"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := timeutil.ParseCalendarDate(s)
	if err != nil {
		t.Fatalf("ParseCalendarDate(%q) error = %v", s, err)
	}
	return d
}

func mustResolve(t *testing.T, raw []string, dir Direction) []time.Time {
	t.Helper()
	tokens, err := ParseTokens(raw)
	if err != nil {
		t.Fatalf("ParseTokens(%v) error = %v", raw, err)
	}
	out, err := Resolve(tokens, dir)
	if err != nil {
		t.Fatalf("Resolve(%v) error = %v", raw, err)
	}
	return out
}

func TestResolve_SameLength(t *testing.T) {
	tests := [][]string{
		{"1990-12-23"},
		{"1990-12-23", "1990-12-23"},
		{"1990-12-23", "0", "1990-12-23"},
		{"1990-12-23", "3", "3", "0", "2001-06-01"},
	}

	for _, raw := range tests {
		out := mustResolve(t, raw, Forward)
		if len(out) != len(raw) {
			t.Errorf("Resolve(%v) returned %d instants, want %d", raw, len(out), len(raw))
		}
	}
}

func TestResolve_Empty(t *testing.T) {
	out, err := Resolve(nil, Forward)
	if err != nil {
		t.Fatalf("Resolve(nil) error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Resolve(nil) = %v, want empty", out)
	}
}

func TestResolve_RepeatedDateNudgesOneMinute(t *testing.T) {
	single := mustResolve(t, []string{"1990-12-23"}, Forward)
	double := mustResolve(t, []string{"1990-12-23", "1990-12-23"}, Forward)

	if !double[0].Equal(single[0]) {
		t.Errorf("first instant changed: %v vs %v", double[0], single[0])
	}
	want := single[0].Add(time.Minute)
	if !double[1].Equal(want) {
		t.Errorf("second instant = %v, want first + 1 minute (%v)", double[1], want)
	}
}

func TestResolve_DateZeroDate(t *testing.T) {
	base := mustDate(t, "1990-12-23")
	out := mustResolve(t, []string{"1990-12-23", "0", "1990-12-23"}, Forward)

	want := []time.Time{
		timeutil.Canonicalize(base),
		timeutil.Canonicalize(base.Add(time.Minute)),
		timeutil.Canonicalize(base.Add(2 * time.Minute)),
	}
	for i := range want {
		if !out[i].Equal(want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestResolve_TripleIdenticalDates(t *testing.T) {
	base := mustDate(t, "1990-12-23")
	out := mustResolve(t, []string{"1990-12-23", "1990-12-23", "1990-12-23"}, Forward)

	want := []time.Time{
		timeutil.Canonicalize(base),
		timeutil.Canonicalize(base.Add(time.Minute)),
		timeutil.Canonicalize(base.Add(2 * time.Minute)),
	}
	for i := range want {
		if !out[i].Equal(want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestResolve_OffsetForward(t *testing.T) {
	base := mustDate(t, "1990-12-23")
	out := mustResolve(t, []string{"1990-12-23", "3"}, Forward)

	want := []time.Time{
		timeutil.Canonicalize(base),
		timeutil.Canonicalize(base.AddDate(0, 0, 3)), // 1990-12-26
	}
	for i := range want {
		if !out[i].Equal(want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestResolve_OffsetBackward(t *testing.T) {
	base := mustDate(t, "1990-12-23")
	out := mustResolve(t, []string{"1990-12-23", "3"}, Backward)

	want := []time.Time{
		timeutil.Canonicalize(base),
		timeutil.Canonicalize(base.AddDate(0, 0, -3)), // 1990-12-20
	}
	for i := range want {
		if !out[i].Equal(want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestResolve_ZeroOffsetIgnoresDirection(t *testing.T) {
	base := mustDate(t, "1990-12-23")
	for _, dir := range []Direction{Forward, Backward} {
		out := mustResolve(t, []string{"1990-12-23", "0"}, dir)
		want := timeutil.Canonicalize(base.Add(time.Minute))
		if !out[1].Equal(want) {
			t.Errorf("direction %v: out[1] = %v, want %v", dir, out[1], want)
		}
	}
}

func TestResolve_OffsetsMeasureFromDatesNotNudges(t *testing.T) {
	base := mustDate(t, "1990-12-23")
	out := mustResolve(t, []string{"1990-12-23", "0", "3"}, Forward)

	// The zero-offset nudge must not leak into the day arithmetic: the
	// trailing offset lands at midnight of base+3, not base+3+1minute.
	want := timeutil.Canonicalize(base.AddDate(0, 0, 3))
	if !out[2].Equal(want) {
		t.Errorf("out[2] = %v, want %v", out[2], want)
	}
}

func TestResolve_ChainedOffsetsAccumulateDays(t *testing.T) {
	base := mustDate(t, "1990-12-23")
	out := mustResolve(t, []string{"1990-12-23", "3", "3"}, Forward)

	want := []time.Time{
		timeutil.Canonicalize(base),
		timeutil.Canonicalize(base.AddDate(0, 0, 3)),
		timeutil.Canonicalize(base.AddDate(0, 0, 6)),
	}
	for i := range want {
		if !out[i].Equal(want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestResolve_CrossesMonthBoundary(t *testing.T) {
	base := mustDate(t, "1990-12-30")
	out := mustResolve(t, []string{"1990-12-30", "5"}, Forward)

	want := timeutil.Canonicalize(base.AddDate(0, 0, 5)) // 1991-01-04
	if !out[1].Equal(want) {
		t.Errorf("out[1] = %v, want %v", out[1], want)
	}
}

func TestResolve_LeadingOffsetFails(t *testing.T) {
	for _, raw := range [][]string{{"0"}, {"3"}, {"0", "1990-12-23"}} {
		tokens, err := ParseTokens(raw)
		if err != nil {
			t.Fatalf("ParseTokens(%v) error = %v", raw, err)
		}
		_, err = Resolve(tokens, Forward)
		if !errors.Is(err, ErrOffsetFirst) {
			t.Errorf("Resolve(%v) error = %v, want ErrOffsetFirst", raw, err)
		}
	}
}

func TestResolve_LeadingOffsetErrorNamesToken(t *testing.T) {
	tokens, err := ParseTokens([]string{"7"})
	if err != nil {
		t.Fatalf("ParseTokens error = %v", err)
	}
	_, err = Resolve(tokens, Forward)
	if err == nil {
		t.Fatal("Resolve succeeded, want error")
	}
	if got := err.Error(); !strings.Contains(got, `"7"`) {
		t.Errorf("error %q should name the offending token", got)
	}
}

func TestResolve_OutputIsUTC(t *testing.T) {
	out := mustResolve(t, []string{"1990-12-23", "3"}, Forward)
	for i, instant := range out {
		if instant.Location() != time.UTC {
			t.Errorf("out[%d] location = %v, want UTC", i, instant.Location())
		}
	}
}
