package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/ui/theme"
)

// Priority glyphs, highest first
const (
	glyphHigh   = "▲"
	glyphMedium = "●"
	glyphLow    = "▽"
)

func priorityGlyph(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return glyphHigh
	case model.PriorityLow:
		return glyphLow
	default:
		return glyphMedium
	}
}

// taskLine describes how a task is drawn inside a column
type taskLine struct {
	task     model.Task
	selected bool
	held     bool
	pending  bool
	width    int
}

func (l taskLine) render() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	task := l.task

	checkbox := "☐"
	if task.Completed {
		checkbox = "☑"
	}

	swatch := lipgloss.NewStyle().Foreground(t.TaskColor(task.Color)).Render("█")
	prio := styles.Priority.
		Foreground(t.PriorityColor(task.PriorityOrDefault())).
		Render(priorityGlyph(task.PriorityOrDefault()))

	var suffix []string
	if task.Time != nil && *task.Time != "" {
		suffix = append(suffix, styles.Time.Render(*task.Time))
	}
	if task.Recurring != nil {
		suffix = append(suffix, styles.Label.Render("↻"))
	}
	if l.pending {
		suffix = append(suffix, styles.Label.Render("…"))
	}

	prefix := swatch + " " + checkbox + " " + prio + " "
	tail := ""
	if len(suffix) > 0 {
		tail = " " + strings.Join(suffix, " ")
	}

	titleWidth := l.width - lipgloss.Width(prefix) - lipgloss.Width(tail)
	title := truncate(task.Title, titleWidth)

	var style lipgloss.Style
	switch {
	case l.held:
		style = styles.TaskHeld
	case l.selected:
		style = styles.TaskSelected
	case task.Completed:
		style = styles.TaskDone
	default:
		style = styles.TaskNormal
	}

	return prefix + style.Render(title) + tail
}

// truncate shortens s to at most width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// clamp keeps a cursor inside [0, n)
func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
