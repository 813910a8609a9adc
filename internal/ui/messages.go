package ui

import (
	"fmt"

	"github.com/dori/weektodo/internal/store"
)

// View represents the current active view
type View int

const (
	ViewWeek View = iota
	ViewCalendar
	ViewLists
	ViewChat
	ViewHelp
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewWeek:
		return "Week"
	case ViewCalendar:
		return "Calendar"
	case ViewLists:
		return "Lists"
	case ViewChat:
		return "Chat"
	case ViewHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// ParseView maps a config or flag value onto a view
func ParseView(name string) (View, error) {
	switch name {
	case "", "week":
		return ViewWeek, nil
	case "calendar":
		return ViewCalendar, nil
	case "lists":
		return ViewLists, nil
	case "chat":
		return ViewChat, nil
	}
	return ViewWeek, fmt.Errorf("unknown view %q", name)
}

// Messages for inter-component communication

// LoadedMsg reports the result of the initial fetch
type LoadedMsg struct {
	Err error
}

// ChangeMsg wraps an event from the store's change feed
type ChangeMsg struct {
	Change store.Change
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
