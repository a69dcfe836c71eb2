// Package calendar works with civil dates. A date is a time.Time at UTC
// midnight; arithmetic never looks at wall-clock offsets.
package calendar

import "time"

const day = 24 * time.Hour

// DateOf drops the clock part of t, keeping the year, month and day as seen in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the civil date of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves d by n calendar months. A day that does not exist in the
// target month is clamped to that month's last day, so Jan 31 + 1 is Feb 28 (or 29).
func AddMonths(d time.Time, n int) time.Time {
	d = DateOf(d)
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	dd := min(d.Day(), DaysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), dd, 0, 0, 0, 0, time.UTC)
}

func AddDays(d time.Time, n int) time.Time {
	return DateOf(d).AddDate(0, 0, n)
}

// DaysBetween counts whole days from one date to another; negative when to is earlier.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)) / day)
}

func Format(d time.Time) string {
	return d.Format(time.DateOnly)
}

func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}
