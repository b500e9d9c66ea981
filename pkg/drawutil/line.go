// Package drawutil provides terminal drawing primitives for graph views:
// Bresenham lines and polylines, directional line and arrowhead glyphs,
// filled ellipses for node discs, centred labels, and a background grid,
// all drawing into a cellbuf.Buffer.
package drawutil

import "image"

// Bresenham returns the integer points on the line from (x0,y0) to (x1,y1).
// The result always includes both endpoints. The loop is capped at
// dx+dy+2 iterations.
func Bresenham(x0, y0, x1, y1 int) []image.Point {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	x, y := x0, y0

	pts := make([]image.Point, 0, dx+dy+1)
	for range dx + dy + 2 {
		pts = append(pts, image.Pt(x, y))
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
	return pts
}

// LineChar returns the line glyph for a step (dx, dy). Terminal cells are
// about twice as tall as wide, so shallow slopes read as horizontal.
func LineChar(dx, dy int) rune {
	adx, ady := abs(dx), abs(dy)
	switch {
	case dx == 0 && dy == 0:
		return '·'
	case ady == 0 || adx > 2*ady:
		return '─'
	case adx == 0 || ady > 2*adx:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

var arrowGlyphs = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// ArrowChar returns the arrowhead glyph closest to the direction (dx, dy),
// with y growing downwards.
func ArrowChar(dx, dy float64) rune {
	if dx == 0 && dy == 0 {
		return '•'
	}
	// Octant from the slope without trig: tan(22.5°) ≈ 0.4142.
	const t = 0.4142
	adx, ady := dx, dy
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}
	switch {
	case ady <= adx*t:
		if dx > 0 {
			return arrowGlyphs[0]
		}
		return arrowGlyphs[4]
	case adx <= ady*t:
		if dy > 0 {
			return arrowGlyphs[2]
		}
		return arrowGlyphs[6]
	case dx > 0 && dy > 0:
		return arrowGlyphs[1]
	case dx < 0 && dy > 0:
		return arrowGlyphs[3]
	case dx < 0:
		return arrowGlyphs[5]
	default:
		return arrowGlyphs[7]
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
