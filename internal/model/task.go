package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTask is returned when task fields fail validation
var ErrInvalidTask = errors.New("invalid task")

// Color is one of the fixed task palette entries
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorOrange Color = "orange"
	ColorTeal   Color = "teal"
)

// Colors returns the task palette in display order
func Colors() []Color {
	return []Color{
		ColorRed, ColorBlue, ColorGreen, ColorYellow,
		ColorPurple, ColorPink, ColorOrange, ColorTeal,
	}
}

// Valid reports whether c is part of the palette
func (c Color) Valid() bool {
	for _, known := range Colors() {
		if c == known {
			return true
		}
	}
	return false
}

// Next returns the following palette color, wrapping around
func (c Color) Next() Color {
	colors := Colors()
	for i, known := range colors {
		if c == known {
			return colors[(i+1)%len(colors)]
		}
	}
	return ColorBlue
}

// Recurrence represents how often a task repeats
type Recurrence string

const (
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// Valid reports whether r is a known recurrence
func (r Recurrence) Valid() bool {
	switch r {
	case RecurDaily, RecurWeekly, RecurMonthly:
		return true
	}
	return false
}

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next cycles low -> medium -> high -> low
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	case PriorityHigh:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// ParsePriority accepts the long and short spellings used by quick add
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(s) {
	case "low", "l":
		return PriorityLow, true
	case "medium", "med", "m":
		return PriorityMedium, true
	case "high", "hi", "h":
		return PriorityHigh, true
	}
	return "", false
}

// Task represents a planner item as the remote store returns it
type Task struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Completed bool        `json:"completed"`
	Date      string      `json:"date"`
	Time      *string     `json:"time,omitempty"`
	Color     Color       `json:"color"`
	Recurring *Recurrence `json:"recurring,omitempty"`
	ListID    *string     `json:"listId"`
	Reminder  *string     `json:"reminder,omitempty"`
	Priority  *Priority   `json:"priority,omitempty"`
}

// Location returns where the task lives: the date-indexed main collection
// or exactly one custom list.
func (t Task) Location() Location {
	if t.ListID != nil && *t.ListID != "" {
		return InList(*t.ListID)
	}
	return Scheduled(t.Date)
}

// WithLocation returns a copy of t whose list reference and date agree with loc
func (t Task) WithLocation(loc Location) Task {
	if id, ok := loc.List(); ok {
		t.ListID = &id
		return t
	}
	t.ListID = nil
	t.Date = loc.Date()
	return t
}

// PriorityOrDefault returns the task's priority, medium when unset
func (t Task) PriorityOrDefault() Priority {
	if t.Priority == nil {
		return PriorityMedium
	}
	return *t.Priority
}

// Clone returns a deep copy of t
func (t Task) Clone() Task {
	c := t
	c.Time = cloneString(t.Time)
	c.ListID = cloneString(t.ListID)
	c.Reminder = cloneString(t.Reminder)
	if t.Recurring != nil {
		r := *t.Recurring
		c.Recurring = &r
	}
	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// TaskFields is a task without its server-assigned identifier
type TaskFields struct {
	Title     string      `json:"title"`
	Completed bool        `json:"completed"`
	Date      string      `json:"date"`
	Time      *string     `json:"time,omitempty"`
	Color     Color       `json:"color"`
	Recurring *Recurrence `json:"recurring,omitempty"`
	Reminder  *string     `json:"reminder,omitempty"`
	Priority  *Priority   `json:"priority,omitempty"`
}

// Validate checks the title and enumerated fields
func (f TaskFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if f.Color != "" && !f.Color.Valid() {
		return fmt.Errorf("%w: unknown color %q", ErrInvalidTask, f.Color)
	}
	if f.Recurring != nil && !f.Recurring.Valid() {
		return fmt.Errorf("%w: unknown recurrence %q", ErrInvalidTask, *f.Recurring)
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, *f.Priority)
	}
	return nil
}

// TaskPatch is a partial task update. Nil fields are left untouched.
// ClearList sends an explicit null list reference, which moves the task
// back to the main collection.
type TaskPatch struct {
	Title     *string
	Completed *bool
	Date      *string
	Time      *string
	Color     *Color
	Recurring *Recurrence
	Priority  *Priority
	ListID    *string
	ClearList bool
}

// MarshalJSON writes only the fields that are set
func (p TaskPatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Completed != nil {
		out["completed"] = *p.Completed
	}
	if p.Date != nil {
		out["date"] = *p.Date
	}
	if p.Time != nil {
		out["time"] = *p.Time
	}
	if p.Color != nil {
		out["color"] = *p.Color
	}
	if p.Recurring != nil {
		out["recurring"] = *p.Recurring
	}
	if p.Priority != nil {
		out["priority"] = *p.Priority
	}
	switch {
	case p.ClearList:
		out["listId"] = nil
	case p.ListID != nil:
		out["listId"] = *p.ListID
	}
	return json.Marshal(out)
}

// Apply returns t with the patch applied, used for optimistic display
func (p TaskPatch) Apply(t Task) Task {
	t = t.Clone()
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Time != nil {
		t.Time = cloneString(p.Time)
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Recurring != nil {
		r := *p.Recurring
		t.Recurring = &r
	}
	if p.Priority != nil {
		pr := *p.Priority
		t.Priority = &pr
	}
	switch {
	case p.ClearList:
		t.ListID = nil
	case p.ListID != nil:
		t.ListID = cloneString(p.ListID)
	}
	return t
}

// Ptr returns a pointer to v, handy for optional fields
func Ptr[T any](v T) *T {
	return &v
}
