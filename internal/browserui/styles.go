package browserui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// c is shorthand for lipgloss.Color.
func c(hex string) color.Color { return lipgloss.Color(hex) }

// Palette of the browser's dark theme.
var (
	colorBG      = c("#1B1D23")
	colorChrome  = c("#2A2D35")
	headerColor  = c("#6AC6FF")
	statusColor  = c("#A5ABB6")
	hintColor    = c("#FFD86E")
	errorColor   = c("#F25A29")
	sepColor     = c("#3A3F4B")
	accentColor  = c("#C990C0")
	modalBGColor = c("#23262E")
)

var (
	headerStyle = lipgloss.NewStyle().
			Background(colorChrome).
			Foreground(headerColor).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(colorChrome).
			Foreground(statusColor)

	statusErrorStyle = statusStyle.Foreground(errorColor)

	bgStyle = lipgloss.NewStyle().
		Background(colorBG)

	sepStyle = lipgloss.NewStyle().
			Foreground(sepColor).
			Background(colorBG)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorBG).
			Background(hintColor).
			Bold(true).
			Padding(0, 1)
)
