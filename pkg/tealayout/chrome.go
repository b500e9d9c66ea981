package tealayout

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// BarLayer renders a one-row bar across width at row y.
func BarLayer(id, content string, width, y int, style lipgloss.Style) *lipgloss.Layer {
	rendered := style.Width(width).MaxHeight(1).Render(content)
	return lipgloss.NewLayer(rendered).X(0).Y(y).Z(1).ID(id)
}

// VerticalSeparator creates a Layer with a vertical line of │ characters.
func VerticalSeparator(x, y, height int, style lipgloss.Style) *lipgloss.Layer {
	if height <= 0 {
		return lipgloss.NewLayer("").X(x).Y(y).ID("separator")
	}
	rendered := style.Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
	return lipgloss.NewLayer(rendered).X(x).Y(y).Z(1).ID("separator")
}

// ModalLayer centres content, boxed in boxStyle, over the terminal.
func ModalLayer(content string, termW, termH int, boxStyle lipgloss.Style) *lipgloss.Layer {
	rendered := boxStyle.Render(content)
	cx := max((termW-lipgloss.Width(rendered))/2, 0)
	cy := max((termH-lipgloss.Height(rendered))/2, 0)
	return lipgloss.NewLayer(rendered).X(cx).Y(cy).Z(100).ID("modal")
}

// CornerLayer pins content to the top-right corner of r, one cell in from
// the edges. It floats above the region at Z 50.
func CornerLayer(id, content string, r Region, style lipgloss.Style) *lipgloss.Layer {
	rendered := style.Render(content)
	x := max(r.Rect.Max.X-lipgloss.Width(rendered)-1, r.Rect.Min.X)
	return lipgloss.NewLayer(rendered).X(x).Y(r.Rect.Min.Y + 1).Z(50).ID(id)
}

// FillLayer creates a Layer filled with style over a region.
func FillLayer(r Region, style lipgloss.Style, id string, z int) *lipgloss.Layer {
	w, h := r.Rect.Dx(), r.Rect.Dy()
	if w <= 0 || h <= 0 {
		return lipgloss.NewLayer("").X(r.Rect.Min.X).Y(r.Rect.Min.Y).Z(z).ID(id)
	}
	line := strings.Repeat(" ", w)
	lines := make([]string, h)
	for i := range lines {
		lines[i] = line
	}
	rendered := style.Render(strings.Join(lines, "\n"))
	return lipgloss.NewLayer(rendered).X(r.Rect.Min.X).Y(r.Rect.Min.Y).Z(z).ID(id)
}

// ContentLayer places pre-rendered content at a region's origin.
func ContentLayer(r Region, content, id string, z int) *lipgloss.Layer {
	return lipgloss.NewLayer(content).X(r.Rect.Min.X).Y(r.Rect.Min.Y).Z(z).ID(id)
}
