package toast

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colours = map[Category]lipgloss.Color{
		Success: lipgloss.Color("2"),
		Error:   lipgloss.Color("1"),
		Warning: lipgloss.Color("3"),
		Info:    lipgloss.Color("6"),
	}
	neutralColour = lipgloss.Color("8")

	glyphs = map[string]string{
		"check-circle": "✔",
		"x-circle":     "✖",
		"info-circle":  "ℹ",
	}
)

// Render draws a toast for a terminal: a rounded box in the category's
// colour with the icon and label on top and the message below.
func Render(msg string, cat Category) string {
	colour, ok := colours[cat]
	if !ok {
		colour = neutralColour
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colour).
		Render(glyphs[cat.Style().Icon] + " " + cat.Label())

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colour).
		Padding(0, 1)

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, header, msg))
}
