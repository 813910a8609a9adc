package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/weektodo/internal/model"
)

// Catppuccin theme - Soothing pastel theme (Mocha variant)
// https://github.com/catppuccin/catppuccin
var Catppuccin = Theme{
	Name: "catppuccin",

	// Background colors (Mocha)
	Background: lipgloss.Color("#1E1E2E"),
	Foreground: lipgloss.Color("#CDD6F4"),
	Subtle:     lipgloss.Color("#6C7086"),
	Highlight:  lipgloss.Color("#313244"),
	Border:     lipgloss.Color("#45475A"),

	// Primary colors
	Primary:   lipgloss.Color("#89B4FA"), // Blue
	Secondary: lipgloss.Color("#CBA6F7"), // Mauve
	Info:      lipgloss.Color("#74C7EC"), // Sapphire

	// Semantic colors
	Success: lipgloss.Color("#A6E3A1"), // Green
	Warning: lipgloss.Color("#F9E2AF"), // Yellow
	Error:   lipgloss.Color("#F38BA8"), // Red

	// Priority colors
	PriorityLow:    lipgloss.Color("#A6E3A1"), // Green
	PriorityMedium: lipgloss.Color("#F9E2AF"), // Yellow
	PriorityHigh:   lipgloss.Color("#FAB387"), // Peach

	// Task palette
	TaskColors: map[model.Color]lipgloss.Color{
		model.ColorRed:    lipgloss.Color("#F38BA8"),
		model.ColorBlue:   lipgloss.Color("#89B4FA"),
		model.ColorGreen:  lipgloss.Color("#A6E3A1"),
		model.ColorYellow: lipgloss.Color("#F9E2AF"),
		model.ColorPurple: lipgloss.Color("#CBA6F7"),
		model.ColorPink:   lipgloss.Color("#F5C2E7"),
		model.ColorOrange: lipgloss.Color("#FAB387"),
		model.ColorTeal:   lipgloss.Color("#94E2D5"),
	},
}
