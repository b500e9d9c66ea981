package textmeasure

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
)

// CellContext measures text as it appears in a terminal: each display cell
// of the string is Aspect times the font size wide.
type CellContext struct {
	Aspect float64
}

// DefaultCellContext uses the usual monospace advance of 0.6em.
var DefaultCellContext = CellContext{Aspect: 0.6}

// MeasureText implements Context.
func (c CellContext) MeasureText(font, text string) float64 {
	return float64(lipgloss.Width(text)) * fontSizeOf(font) * c.Aspect
}

// fontSizeOf extracts the pixel size from a "10px family" font string.
func fontSizeOf(font string) float64 {
	size, _, ok := strings.Cut(font, "px")
	if !ok {
		return 10
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(size), 64)
	if err != nil || v <= 0 {
		return 10
	}
	return v
}
