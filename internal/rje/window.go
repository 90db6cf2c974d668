// Package rje computes the daily fleet report ("Rapport Journalier des Engins"):
// availability, mechanical availability and MTBF per engin over the day, the month to
// date and the year to date, grouped site → parc → engin with the yearly objectives.
//
// The package is pure: callers fetch the data once and hand it over.
package rje

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Window is an inclusive [Start, End] range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// NHO returns the nominal hours available over the window.
func (w Window) NHO() float64 { return NHO(w.Start, w.End) }

// Windows holds the three nested report windows for one reference date.
type Windows struct {
	Day   Window
	Month Window
	Year  Window
}

// NewWindows derives the day, month-to-date and year-to-date windows of date.
// Only the calendar date of the argument is used.
func NewWindows(date time.Time) Windows {
	y, m, d := date.Date()
	loc := date.Location()
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
	return Windows{
		Day:   Window{Start: time.Date(y, m, d, 0, 0, 0, 0, loc), End: end},
		Month: Window{Start: time.Date(y, m, 1, 0, 0, 0, 0, loc), End: end},
		Year:  Window{Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc), End: end},
	}
}

// NHO is the calendar capacity of [start, end]: the number of calendar days touched,
// both ends included and partial days counted whole, times 24.
// A window ending before it starts has no capacity.
func NHO(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	s := midnight(start)
	e := midnight(end.In(start.Location()))
	// Round absorbs 23h/25h days around DST changes.
	days := math.Round(e.Sub(s).Hours()/24) + 1
	return days * 24
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate reads an ISO date ("2024-03-15") or an RFC3339 timestamp and keeps only the
// calendar date, at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// FormatDate renders the calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(dateLayout) }
