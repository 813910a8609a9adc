package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/weektodo/internal/model"
)

// Dracula theme - Dark theme with vibrant colors
// https://draculatheme.com/
var Dracula = Theme{
	Name: "dracula",

	// Background colors
	Background: lipgloss.Color("#282A36"),
	Foreground: lipgloss.Color("#F8F8F2"),
	Subtle:     lipgloss.Color("#6272A4"),
	Highlight:  lipgloss.Color("#44475A"),
	Border:     lipgloss.Color("#6272A4"),

	// Primary colors
	Primary:   lipgloss.Color("#BD93F9"), // Purple
	Secondary: lipgloss.Color("#8BE9FD"), // Cyan
	Info:      lipgloss.Color("#8BE9FD"), // Cyan

	// Semantic colors
	Success: lipgloss.Color("#50FA7B"), // Green
	Warning: lipgloss.Color("#F1FA8C"), // Yellow
	Error:   lipgloss.Color("#FF5555"), // Red

	// Priority colors
	PriorityLow:    lipgloss.Color("#50FA7B"), // Green
	PriorityMedium: lipgloss.Color("#F1FA8C"), // Yellow
	PriorityHigh:   lipgloss.Color("#FFB86C"), // Orange

	// Task palette
	TaskColors: map[model.Color]lipgloss.Color{
		model.ColorRed:    lipgloss.Color("#FF5555"),
		model.ColorBlue:   lipgloss.Color("#6272F4"),
		model.ColorGreen:  lipgloss.Color("#50FA7B"),
		model.ColorYellow: lipgloss.Color("#F1FA8C"),
		model.ColorPurple: lipgloss.Color("#BD93F9"),
		model.ColorPink:   lipgloss.Color("#FF79C6"),
		model.ColorOrange: lipgloss.Color("#FFB86C"),
		model.ColorTeal:   lipgloss.Color("#8BE9FD"),
	},
}
