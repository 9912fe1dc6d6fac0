package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Clock supplies the current time. Services take a Clock so tests can pin "today".
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Parsed dates before this year come from inputs without a year ("March 5", "12/31").
const minNormalizedYear = 1900

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
}

// Timeframes such as "Q1 2025", "H2 2025" or "Late February 2025" name a period, not a day.
var fuzzyDatePattern = regexp.MustCompile(`(?i)\b(q[1-4]|h[12]|fy\s?\d{2,4}|early|mid|late|end of|beginning of|first half|second half|tbd|tba)\b`)

// NormalizeDate resolves a loosely formatted date string to a calendar date (midnight UTC).
// The second return value is false when the string does not name a specific day; callers
// decide the fallback.
func NormalizeDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return TruncateToDate(t), true
		}
	}

	if fuzzyDatePattern.MatchString(value) {
		return time.Time{}, false
	}

	t, err := dateparse.ParseAny(value)
	if err != nil || t.Year() < minNormalizedYear {
		return time.Time{}, false
	}
	return TruncateToDate(t), true
}

// TruncateToDate drops the clock part of t, keeping t's calendar day, and returns it in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
