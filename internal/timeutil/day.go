package timeutil

import "time"

// DayStart returns site-local midnight of the calendar day containing t.
func DayStart(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DayWindow returns the evaluation window for one calendar day.
// For a day still in progress the window closes at now; for a past day it
// closes at midnight + 24h. A day that has not started yet closes at its
// own start (zero elapsed).
func DayWindow(date time.Time, now time.Time, loc *time.Location) (start, end time.Time) {
	start = DayStart(date, loc)
	fullEnd := start.Add(24 * time.Hour)

	now = now.In(loc)
	switch {
	case now.Before(start):
		return start, start
	case now.Before(fullEnd):
		return start, now
	default:
		return start, fullEnd
	}
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
