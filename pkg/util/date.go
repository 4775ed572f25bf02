package util

import "time"

// DateLayout is the ISO calendar date used for record dates.
const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD. Returns (t, true) in UTC on success.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as YYYY-MM-DD in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateAfter reports whether ISO date a is strictly after b. Zero-padded ISO
// dates order lexicographically, so no parsing is needed.
func DateAfter(a, b string) bool {
	return a > b
}

// WeeksBefore returns the calendar date n weeks before now, inclusive lower
// bound for trailing-window queries.
func WeeksBefore(now time.Time, n int) string {
	return FormatDate(now.AddDate(0, 0, -7*n))
}
