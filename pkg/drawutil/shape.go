package drawutil

import (
	"math"

	"charm.land/lipgloss/v2"

	"github.com/wesen/neograph/pkg/cellbuf"
)

// DrawDisc fills the ellipse centred on (cx, cy) with radii rx, ry in cell
// units. A disc smaller than a cell still covers the centre cell.
func DrawDisc(buf *cellbuf.Buffer, cx, cy, rx, ry float64, ch rune, style cellbuf.StyleKey, z cellbuf.Priority) {
	eachEllipseCell(cx, cy, rx, ry, func(x, y int, _ bool) {
		buf.Plot(x, y, ch, style, z)
	})
}

// DrawRing restyles the outline cells of the ellipse, leaving the glyphs
// already drawn there.
func DrawRing(buf *cellbuf.Buffer, cx, cy, rx, ry float64, style cellbuf.StyleKey, z cellbuf.Priority) {
	eachEllipseCell(cx, cy, rx, ry, func(x, y int, edge bool) {
		if edge {
			buf.Restyle(x, y, style, z)
		}
	})
}

func eachEllipseCell(cx, cy, rx, ry float64, fn func(x, y int, edge bool)) {
	rx, ry = math.Max(rx, 0.5), math.Max(ry, 0.5)
	inside := func(x, y int) bool {
		dx := (float64(x) + 0.5 - cx) / rx
		dy := (float64(y) + 0.5 - cy) / ry
		return dx*dx+dy*dy <= 1
	}
	x0, x1 := int(math.Floor(cx-rx)), int(math.Ceil(cx+rx))
	y0, y1 := int(math.Floor(cy-ry)), int(math.Ceil(cy+ry))
	hit := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !inside(x, y) {
				continue
			}
			hit = true
			edge := !inside(x-1, y) || !inside(x+1, y) || !inside(x, y-1) || !inside(x, y+1)
			fn(x, y, edge)
		}
	}
	if !hit {
		fn(int(math.Floor(cx)), int(math.Floor(cy)), true)
	}
}

// TextWidth returns the display width of s in cells.
func TextWidth(s string) int {
	return lipgloss.Width(s)
}

// DrawCentered writes s centred horizontally on cx in row y.
func DrawCentered(buf *cellbuf.Buffer, cx float64, y int, s string, style cellbuf.StyleKey, z cellbuf.Priority) {
	w := TextWidth(s)
	x := int(math.Round(cx - float64(w)/2))
	buf.SetString(x, y, s, style, z)
}
