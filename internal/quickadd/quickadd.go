// Package quickadd parses one-line task entries such as
// "Call mom @18:30 !high #purple due:friday".
package quickadd

import (
	"errors"
	"strings"
	"time"

	"github.com/dori/weektodo/internal/calendar"
	"github.com/dori/weektodo/internal/model"
)

// ErrEmptyTitle is returned when only tokens were given
var ErrEmptyTitle = errors.New("task title is empty")

// Entry is a parsed quick-add line
type Entry struct {
	Fields model.TaskFields
	// List names the custom list the task goes into, if any
	List string
}

// Parse reads text into task fields scheduled on day unless a due: token
// says otherwise. Tokens that do not parse stay part of the title.
func Parse(text string, day time.Time) (Entry, error) {
	e := Entry{
		Fields: model.TaskFields{
			Date:  calendar.FormatDate(day),
			Color: model.ColorBlue,
		},
	}

	var titleParts []string
	for _, word := range strings.Fields(text) {
		lower := strings.ToLower(word)
		switch {
		// Time (@9:00, @18:30)
		case strings.HasPrefix(word, "@"):
			if hhmm, ok := parseClock(strings.TrimPrefix(word, "@")); ok {
				e.Fields.Time = &hhmm
			} else {
				titleParts = append(titleParts, word)
			}

		// Priority (!low, !h)
		case strings.HasPrefix(word, "!"):
			if p, ok := model.ParsePriority(strings.TrimPrefix(lower, "!")); ok {
				e.Fields.Priority = &p
			} else {
				titleParts = append(titleParts, word)
			}

		// Color (#purple)
		case strings.HasPrefix(word, "#"):
			if c := model.Color(strings.TrimPrefix(lower, "#")); c.Valid() {
				e.Fields.Color = c
			} else {
				titleParts = append(titleParts, word)
			}

		// Recurrence (*weekly)
		case strings.HasPrefix(word, "*"):
			if r := model.Recurrence(strings.TrimPrefix(lower, "*")); r.Valid() {
				e.Fields.Recurring = &r
			} else {
				titleParts = append(titleParts, word)
			}

		// Due date (due:tomorrow, due:friday, due:2024-01-15)
		case strings.HasPrefix(lower, "due:"):
			if d, ok := ParseNaturalDate(strings.TrimPrefix(lower, "due:"), day); ok {
				e.Fields.Date = calendar.FormatDate(d)
			} else {
				titleParts = append(titleParts, word)
			}

		// Custom list (list:Groceries)
		case strings.HasPrefix(lower, "list:") && len(word) > len("list:"):
			e.List = word[len("list:"):]

		default:
			titleParts = append(titleParts, word)
		}
	}

	e.Fields.Title = strings.Join(titleParts, " ")
	if e.Fields.Title == "" {
		return e, ErrEmptyTitle
	}
	return e, nil
}

// parseClock accepts H:MM and HH:MM in 24 hour time
func parseClock(s string) (string, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// ParseNaturalDate resolves today, tomorrow, nextweek, a weekday name or an
// ISO date relative to now. Weekday names always mean the next occurrence.
func ParseNaturalDate(s string, now time.Time) (time.Time, bool) {
	today := calendar.Day(now)

	switch strings.ToLower(s) {
	case "today":
		return today, true
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), true
	case "nextweek":
		return today.AddDate(0, 0, 7), true
	}

	if day, ok := weekdays[strings.ToLower(s)]; ok {
		return nextWeekday(today, day), true
	}

	if t, err := time.ParseInLocation(calendar.DateLayout, s, now.Location()); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func nextWeekday(today time.Time, day time.Weekday) time.Time {
	days := int(day - today.Weekday())
	if days <= 0 {
		days += 7
	}
	return today.AddDate(0, 0, days)
}
