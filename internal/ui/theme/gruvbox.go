package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/weektodo/internal/model"
)

// Gruvbox theme - Retro groove color scheme
// https://github.com/morhetz/gruvbox
var Gruvbox = Theme{
	Name: "gruvbox",

	// Background colors (dark mode)
	Background: lipgloss.Color("#282828"),
	Foreground: lipgloss.Color("#EBDBB2"),
	Subtle:     lipgloss.Color("#928374"),
	Highlight:  lipgloss.Color("#3C3836"),
	Border:     lipgloss.Color("#504945"),

	// Primary colors
	Primary:   lipgloss.Color("#83A598"), // Aqua
	Secondary: lipgloss.Color("#8EC07C"), // Green
	Info:      lipgloss.Color("#83A598"), // Aqua

	// Semantic colors
	Success: lipgloss.Color("#B8BB26"), // Green
	Warning: lipgloss.Color("#FABD2F"), // Yellow
	Error:   lipgloss.Color("#FB4934"), // Red

	// Priority colors
	PriorityLow:    lipgloss.Color("#B8BB26"), // Green
	PriorityMedium: lipgloss.Color("#FABD2F"), // Yellow
	PriorityHigh:   lipgloss.Color("#FE8019"), // Orange

	// Task palette
	TaskColors: map[model.Color]lipgloss.Color{
		model.ColorRed:    lipgloss.Color("#FB4934"),
		model.ColorBlue:   lipgloss.Color("#83A598"),
		model.ColorGreen:  lipgloss.Color("#B8BB26"),
		model.ColorYellow: lipgloss.Color("#FABD2F"),
		model.ColorPurple: lipgloss.Color("#D3869B"),
		model.ColorPink:   lipgloss.Color("#F5A3B8"),
		model.ColorOrange: lipgloss.Color("#FE8019"),
		model.ColorTeal:   lipgloss.Color("#8EC07C"),
	},
}
