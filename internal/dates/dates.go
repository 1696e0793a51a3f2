// Package dates provides civil-date helpers. Due dates and schedule days are
// ISO days (YYYY-MM-DD) with no time-of-day; lexicographic comparison of two
// ISO days is chronological comparison.
package dates

import "time"

// DayFormat is the ISO day layout used for all due dates.
const DayFormat = "2006-01-02"

// Day formats t as an ISO day in UTC.
func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Parse parses an ISO day. The result is midnight UTC of that day.
func Parse(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// Valid reports whether s is a well-formed ISO day.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// AddDays returns the ISO day n days after day. If day is not parseable it
// is returned unchanged.
func AddDays(day string, n int) string {
	t, err := Parse(day)
	if err != nil {
		return day
	}
	return Day(t.AddDate(0, 0, n))
}

// DaysFrom returns the ISO day n days after t.
func DaysFrom(t time.Time, n int) string {
	return Day(t.AddDate(0, 0, n))
}

// Before reports whether day a falls strictly before day b. Empty days never
// compare before anything.
func Before(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a < b
}
