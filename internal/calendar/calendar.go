// Package calendar holds the date math behind the week and month views.
package calendar

import (
	"time"

	"github.com/dori/weektodo/internal/model"
)

// DateLayout is the date-only format tasks carry
const DateLayout = "2006-01-02"

// FirstDay is the weekday a planner week starts on
const FirstDay = time.Friday

// FormatDate renders t as YYYY-MM-DD in t's own location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as local midnight
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// Day truncates t to midnight in its location
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the most recent Friday on or before anchor
func WeekStart(anchor time.Time) time.Time {
	day := Day(anchor)
	offset := (int(day.Weekday()) - int(FirstDay) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekDates returns the seven days of the week containing anchor
func WeekDates(anchor time.Time) []time.Time {
	start := WeekStart(anchor)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Month is a month laid out for a Sunday-first grid
type Month struct {
	Year          int
	Month         time.Month
	LeadingBlanks int // weekday of the 1st, 0 = Sunday
	Days          []time.Time
}

// MonthGrid lays out the given month
func MonthGrid(year int, month time.Month, loc *time.Location) Month {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	g := Month{
		Year:          first.Year(),
		Month:         first.Month(),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]time.Time, 0, last.Day()),
	}
	for d := 1; d <= last.Day(); d++ {
		g.Days = append(g.Days, time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, loc))
	}
	return g
}

// Weeks returns the grid rows; nil entries are blank cells
func (g Month) Weeks() [][]*time.Time {
	var weeks [][]*time.Time
	week := make([]*time.Time, 0, 7)
	for i := 0; i < g.LeadingBlanks; i++ {
		week = append(week, nil)
	}
	for i := range g.Days {
		week = append(week, &g.Days[i])
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]*time.Time, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// BucketByDate groups tasks by their exact date string, keeping order
func BucketByDate(tasks []model.Task) map[string][]model.Task {
	buckets := make(map[string][]model.Task)
	for _, t := range tasks {
		buckets[t.Date] = append(buckets[t.Date], t)
	}
	return buckets
}

// IsToday reports whether t falls on the same calendar day as now
func IsToday(t, now time.Time) bool {
	return FormatDate(t) == FormatDate(now)
}
