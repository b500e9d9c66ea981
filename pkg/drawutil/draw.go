package drawutil

import (
	"image"

	"github.com/wesen/neograph/pkg/cellbuf"
)

// pointChar returns the line glyph for pts[i] from the direction to its
// neighbour.
func pointChar(pts []image.Point, i int) rune {
	var dx, dy int
	switch {
	case i+1 < len(pts) && i > 0:
		dx = pts[i+1].X - pts[i-1].X
		dy = pts[i+1].Y - pts[i-1].Y
	case i+1 < len(pts):
		dx = pts[i+1].X - pts[i].X
		dy = pts[i+1].Y - pts[i].Y
	case i > 0:
		dx = pts[i].X - pts[i-1].X
		dy = pts[i].Y - pts[i-1].Y
	}
	return LineChar(dx, dy)
}

// DrawLine draws a Bresenham line into buf at priority z.
func DrawLine(buf *cellbuf.Buffer, x0, y0, x1, y1 int, style cellbuf.StyleKey, z cellbuf.Priority) {
	pts := Bresenham(x0, y0, x1, y1)
	for i, p := range pts {
		buf.Plot(p.X, p.Y, pointChar(pts, i), style, z)
	}
}

// DrawPolyline draws connected segments through pts. Repeated cells are
// collapsed so each cell gets one glyph.
func DrawPolyline(buf *cellbuf.Buffer, pts []image.Point, style cellbuf.StyleKey, z cellbuf.Priority) {
	cells := Trace(pts)
	for i, p := range cells {
		buf.Plot(p.X, p.Y, pointChar(cells, i), style, z)
	}
}

// DrawDashedPolyline is DrawPolyline with every third cell left out.
func DrawDashedPolyline(buf *cellbuf.Buffer, pts []image.Point, style cellbuf.StyleKey, z cellbuf.Priority) {
	cells := Trace(pts)
	for i, p := range cells {
		if i%3 != 2 {
			buf.Plot(p.X, p.Y, pointChar(cells, i), style, z)
		}
	}
}

// Trace rasterizes the polyline through pts into a cell path without
// consecutive duplicates.
func Trace(pts []image.Point) []image.Point {
	if len(pts) == 0 {
		return nil
	}
	out := []image.Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		for _, p := range Bresenham(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y) {
			if p != out[len(out)-1] {
				out = append(out, p)
			}
		}
	}
	return out
}

// DrawArrowHead plots the arrowhead glyph for direction (dx, dy) at (x, y).
func DrawArrowHead(buf *cellbuf.Buffer, x, y int, dx, dy float64, style cellbuf.StyleKey, z cellbuf.Priority) {
	buf.Plot(x, y, ArrowChar(dx, dy), style, z)
}
