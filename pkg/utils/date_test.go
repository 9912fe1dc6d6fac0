package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "iso", input: "2024-01-15", want: "2024-01-15", ok: true},
		{name: "us slash", input: "01/15/2024", want: "2024-01-15", ok: true},
		{name: "us slash single digit", input: "1/5/2024", want: "2024-01-05", ok: true},
		{name: "long month", input: "January 15, 2024", want: "2024-01-15", ok: true},
		{name: "short month", input: "Jan 15, 2024", want: "2024-01-15", ok: true},
		{name: "datetime", input: "2024-01-15 13:45:00", want: "2024-01-15", ok: true},
		{name: "surrounding whitespace", input: "  2024-03-01 ", want: "2024-03-01", ok: true},
		{name: "rfc3339 via fallback", input: "2024-02-29T10:00:00Z", want: "2024-02-29", ok: true},
		{name: "quarter", input: "Q1 2025", ok: false},
		{name: "fuzzy month", input: "Late February 2025", ok: false},
		{name: "half year", input: "H2 2025", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "sometime soon", ok: false},
		{name: "month day without year", input: "March 5", ok: false},
		{name: "slash without year", input: "12/31", ok: false},
		{name: "short month without year", input: "Dec 31", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
				assert.Equal(t, time.UTC, got.Location())
			} else {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestTruncateToDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2025, 3, 9, 23, 30, 0, 0, loc)

	got := TruncateToDate(in)

	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestClockFunc(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	var clock Clock = ClockFunc(func() time.Time { return fixed })

	assert.Equal(t, fixed, clock.Now())
}
