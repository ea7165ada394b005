// Package timeutil holds the date arithmetic shared by the layout engine,
// the event sharder and the pagination controller. All helpers are pure and
// keep the location of their inputs.
package timeutil

import (
	"math"
	"time"
)

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's day. Second precision matches the grid's
// finest snap interval; a day-0 shard of a cross-midnight event ends here,
// not at 24:00.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// AddDays shifts t by the given number of calendar days, preserving the
// clock time across DST transitions.
func AddDays(t time.Time, days int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+days, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysBetween returns the whole-day difference from start to end. With
// ignoreHours both endpoints are truncated to midnight first, so an event
// from 22:00 to 01:00 the next day still counts one day. The result is
// negative when end precedes start.
func DaysBetween(start, end time.Time, ignoreHours bool) int {
	if ignoreHours {
		start = StartOfDay(start)
		end = StartOfDay(end)
	}
	// Rounding absorbs the 23h/25h days around DST changes.
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// SecondsBetween returns end minus start in whole seconds.
func SecondsBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Second)
}

// ClockSecondsBetween compares only the time-of-day components, ignoring the
// calendar date of either side.
func ClockSecondsBetween(start, end time.Time) int {
	s := start.Hour()*3600 + start.Minute()*60 + start.Second()
	e := end.Hour()*3600 + end.Minute()*60 + end.Second()
	return e - s
}

// SetClock returns t with its time-of-day replaced.
func SetClock(t time.Time, hour, minute, second int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, second, 0, t.Location())
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FirstDayOfWeek walks back from t (at most six days) to the most recent
// occurrence of weekday, truncated to midnight.
func FirstDayOfWeek(t time.Time, weekday time.Weekday) time.Time {
	diff := int(t.Weekday()) - int(weekday)
	if diff < 0 {
		diff += 7
	}
	return AddDays(StartOfDay(t), -diff)
}
