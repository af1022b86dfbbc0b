package timeutil

import (
	"testing"
	"time"
)

func TestParseCalendarDate(t *testing.T) {
	got, err := ParseCalendarDate("2020-01-02")
	if err != nil {
		t.Fatalf("ParseCalendarDate() error = %v", err)
	}

	want := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ParseCalendarDate() = %v, want %v", got, want)
	}
	if got.Location() != time.Local {
		t.Errorf("Location() = %v, want Local", got.Location())
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
}

func TestParseCalendarDate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "unpadded month and day", input: "2020-1-2"},
		{name: "no separators", input: "20200102"},
		{name: "slash separators", input: "2020/01/02"},
		{name: "trailing time", input: "2020-01-02T00:00"},
		{name: "trailing garbage", input: "2020-01-02x"},
		{name: "month out of range", input: "2020-13-01"},
		{name: "day out of range", input: "2020-01-32"},
		{name: "words", input: "next tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCalendarDate(tt.input); err == nil {
				t.Errorf("ParseCalendarDate(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestCanonicalize(t *testing.T) {
	// Fixed zones keep the expectations stable regardless of the host zone.
	east := time.FixedZone("E5", 5*3600)
	west := time.FixedZone("W8", -8*3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "utc midnight",
			in:   time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC),
			want: time.Date(2020, time.January, 2, 1, 0, 0, 0, time.UTC),
		},
		{
			name: "eastern offset keeps wall clock",
			in:   time.Date(2020, time.June, 15, 0, 0, 0, 0, east),
			want: time.Date(2020, time.June, 15, 1, 0, 0, 0, time.UTC),
		},
		{
			name: "western offset keeps wall clock",
			in:   time.Date(2020, time.June, 15, 0, 0, 0, 0, west),
			want: time.Date(2020, time.June, 15, 1, 0, 0, 0, time.UTC),
		},
		{
			name: "rolls over midnight",
			in:   time.Date(2020, time.January, 2, 23, 30, 0, 0, time.UTC),
			want: time.Date(2020, time.January, 3, 0, 30, 0, 0, time.UTC),
		},
		{
			name: "preserves minutes",
			in:   time.Date(2020, time.January, 2, 0, 1, 0, 0, time.UTC),
			want: time.Date(2020, time.January, 2, 1, 1, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("Canonicalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("Location() = %v, want UTC", got.Location())
			}
		})
	}
}

func TestFarFutureSentinel(t *testing.T) {
	now := time.Date(2026, time.August, 25, 10, 30, 0, 0, time.UTC)
	got := FarFutureSentinel(now)

	if got.Year() != 2100 {
		t.Errorf("Year() = %d, want 2100", got.Year())
	}
	if got.Month() != time.August || got.Day() != 25 {
		t.Errorf("sentinel = %v, want same month and day as now", got)
	}
	if !got.After(now) {
		t.Errorf("sentinel %v should be after now %v", got, now)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{name: "zero rounds up to one second", ms: 0, want: "00m 01s"},
		{name: "sub-second rounds up", ms: 999, want: "00m 01s"},
		{name: "one second", ms: 1000, want: "00m 02s"},
		{name: "rolls into minutes", ms: 59000, want: "01m 00s"},
		{name: "minute plus", ms: 60000, want: "01m 01s"},
		{name: "two minutes six", ms: 125000, want: "02m 06s"},
		{name: "large minute count", ms: 3599000, want: "60m 00s"},
		{name: "negative clamps", ms: -500, want: "00m 01s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.ms)
			if got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}
