// Package calendar holds the pure date logic behind every calendar surface:
// deciding whether an event is on a given local day, ordering a day's events
// for display, building month grids, and computing the advisory daily quota.
//
// Nothing here performs I/O or keeps state between calls. All functions are
// safe for concurrent use.
package calendar

import "time"

// StartOfDay returns the first instant of the calendar day containing t,
// interpreted in t's location. That is local midnight, or the end of the
// clock gap in zones where a DST change skips midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	if my, mm, md := midnight.Date(); my == y && mm == m && md == d {
		return midnight
	}
	// time.Date resolved the missing midnight into the previous day; the day
	// begins at the transition that ends that zone period.
	if _, transition := midnight.ZoneBounds(); !transition.IsZero() {
		return transition
	}
	return midnight
}

// EndOfDay returns the last representable instant of the calendar day
// containing t, interpreted in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	next := time.Date(y, m, d+1, 12, 0, 0, 0, t.Location())
	return StartOfDay(next).Add(-time.Nanosecond)
}

// IsOnDay reports whether an event spanning [start, end] should be shown on
// the local calendar day containing day. Both intervals are closed: an event
// ending exactly at the day's midnight, or starting exactly at its last
// instant, is on that day.
//
// An event with start after end never matches; it does not panic.
func IsOnDay(start, end, day time.Time) bool {
	if start.After(end) {
		return false
	}
	dayStart := StartOfDay(day)
	dayEnd := EndOfDay(day)
	return within(start, dayStart, dayEnd) ||
		within(end, dayStart, dayEnd) ||
		within(dayStart, start, end)
}

// within reports whether t lies in the closed interval [lo, hi].
func within(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}

// MonthDays returns StartOfDay of every day in the month containing t.
func MonthDays(t time.Time) []time.Time {
	y, m, _ := t.Date()
	loc := t.Location()
	n := time.Date(y, m+1, 0, 12, 0, 0, 0, loc).Day()
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		// Noon always exists, so each entry lands on its own date.
		days = append(days, StartOfDay(time.Date(y, m, 1+i, 12, 0, 0, 0, loc)))
	}
	return days
}
