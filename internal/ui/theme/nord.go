package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/weektodo/internal/model"
)

// Nord theme - Arctic, north-bluish color palette
// https://www.nordtheme.com/
var Nord = Theme{
	Name: "nord",

	// Polar Night (dark backgrounds)
	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),

	// Frost (primary blues)
	Primary:   lipgloss.Color("#88C0D0"), // Nord8 - bright cyan
	Secondary: lipgloss.Color("#81A1C1"), // Nord9 - desaturated blue
	Info:      lipgloss.Color("#5E81AC"), // Nord10 - dark blue

	// Aurora (accent colors)
	Success: lipgloss.Color("#A3BE8C"), // Nord14 - green
	Warning: lipgloss.Color("#EBCB8B"), // Nord13 - yellow
	Error:   lipgloss.Color("#BF616A"), // Nord11 - red

	// Priority colors
	PriorityLow:    lipgloss.Color("#A3BE8C"), // Green
	PriorityMedium: lipgloss.Color("#EBCB8B"), // Yellow
	PriorityHigh:   lipgloss.Color("#D08770"), // Orange

	// Task palette
	TaskColors: map[model.Color]lipgloss.Color{
		model.ColorRed:    lipgloss.Color("#BF616A"),
		model.ColorBlue:   lipgloss.Color("#5E81AC"),
		model.ColorGreen:  lipgloss.Color("#A3BE8C"),
		model.ColorYellow: lipgloss.Color("#EBCB8B"),
		model.ColorPurple: lipgloss.Color("#B48EAD"),
		model.ColorPink:   lipgloss.Color("#D8A0C0"),
		model.ColorOrange: lipgloss.Color("#D08770"),
		model.ColorTeal:   lipgloss.Color("#8FBCBB"),
	},
}
