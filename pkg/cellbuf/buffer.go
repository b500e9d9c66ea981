// Package cellbuf provides a 2D character buffer with per-cell styling,
// draw-order priorities and run-merged Lipgloss rendering.
//
// Each cell holds a rune, a StyleKey and a priority. A write only lands if
// its priority is at least the cell's current one, so callers can draw
// edges, node discs and captions in any order and still get captions on
// top. Styles are interned in a Palette; keys are small ints so cells stay
// cheap to copy.
//
// Limitation: all runes are assumed to be single-width.
package cellbuf

// StyleKey identifies a style interned in a Palette.
type StyleKey int

// Priority orders overlapping writes. Higher wins.
type Priority uint8

// Cell is a single character in the buffer.
type Cell struct {
	Ch    rune
	Style StyleKey
	Z     Priority
}

// Buffer is a 2D grid of styled cells.
type Buffer struct {
	W, H  int
	Cells [][]Cell // [row][col]
	bg    StyleKey
}

// New creates a Buffer of the given size filled with blank cells in the
// background style.
func New(w, h int, bg StyleKey) *Buffer {
	w, h = max(w, 0), max(h, 0)
	b := &Buffer{W: w, H: h, Cells: make([][]Cell, h), bg: bg}
	for y := range b.Cells {
		b.Cells[y] = make([]Cell, w)
	}
	b.Clear()
	return b
}

// InBounds reports whether (x, y) is inside the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// Set writes a cell at the lowest priority above the background.
func (b *Buffer) Set(x, y int, ch rune, style StyleKey) {
	b.Plot(x, y, ch, style, 1)
}

// Plot writes ch at (x, y) unless a higher-priority cell is already there.
// Out-of-bounds writes are ignored. It reports whether the write landed.
func (b *Buffer) Plot(x, y int, ch rune, style StyleKey, z Priority) bool {
	if !b.InBounds(x, y) || b.Cells[y][x].Z > z {
		return false
	}
	b.Cells[y][x] = Cell{Ch: ch, Style: style, Z: z}
	return true
}

// SetString writes s from (x, y) rightwards at priority z, clipping at the
// buffer edge.
func (b *Buffer) SetString(x, y int, s string, style StyleKey, z Priority) {
	i := 0
	for _, ch := range s {
		b.Plot(x+i, y, ch, style, z)
		i++
	}
}

// Restyle changes the style of an existing cell without touching its rune,
// subject to the same priority rule.
func (b *Buffer) Restyle(x, y int, style StyleKey, z Priority) {
	if !b.InBounds(x, y) || b.Cells[y][x].Z > z {
		return
	}
	b.Cells[y][x].Style = style
	b.Cells[y][x].Z = z
}

// At returns the cell at (x, y), or a zero cell outside the buffer.
func (b *Buffer) At(x, y int) Cell {
	if !b.InBounds(x, y) {
		return Cell{}
	}
	return b.Cells[y][x]
}

// Clear resets every cell to a blank background cell at priority zero.
func (b *Buffer) Clear() {
	for y := range b.Cells {
		for x := range b.Cells[y] {
			b.Cells[y][x] = Cell{Ch: ' ', Style: b.bg}
		}
	}
}

// String returns the buffer's runes without styling, rows joined by "\n".
func (b *Buffer) String() string {
	rows := make([]rune, 0, (b.W+1)*b.H)
	for y, row := range b.Cells {
		if y > 0 {
			rows = append(rows, '\n')
		}
		for _, c := range row {
			rows = append(rows, c.Ch)
		}
	}
	return string(rows)
}
