// Package tealayout computes named screen regions for Bubbletea v2 apps and
// builds the Lipgloss v2 layers that frame them.
package tealayout

import "image"

// Region is a named rectangular area of the terminal.
type Region struct {
	Name string
	Rect image.Rectangle
}

// Contains reports whether the terminal cell (x, y) is inside the region.
func (r Region) Contains(x, y int) bool {
	return image.Pt(x, y).In(r.Rect)
}

// Local converts terminal coordinates to region-relative ones.
func (r Region) Local(x, y int) (int, int) {
	return x - r.Rect.Min.X, y - r.Rect.Min.Y
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool { return r.Rect.Empty() }

// Layout holds the computed regions for a given terminal size.
type Layout struct {
	TermW, TermH int
	Regions      map[string]Region
	order        []string
}

// Get returns the region with the given name, or a zero Region.
func (l Layout) Get(name string) Region {
	return l.Regions[name]
}

// Has reports whether a non-empty region with the given name exists.
func (l Layout) Has(name string) bool {
	r, ok := l.Regions[name]
	return ok && !r.Empty()
}

// At returns the region containing the cell (x, y). Regions are checked in
// the order they were added.
func (l Layout) At(x, y int) (Region, bool) {
	for _, name := range l.order {
		if r := l.Regions[name]; r.Contains(x, y) {
			return r, true
		}
	}
	return Region{}, false
}

// LayoutBuilder reserves fixed strips from the terminal edges and gives the
// remainder to one region.
type LayoutBuilder struct {
	termW, termH int
	top, bottom  int // rows consumed from top/bottom
	left, right  int // columns consumed from left/right
	regions      []Region
}

// NewLayoutBuilder creates a builder for the given terminal size.
func NewLayoutBuilder(termW, termH int) *LayoutBuilder {
	return &LayoutBuilder{termW: termW, termH: termH}
}

// TopFixed reserves rows from the top across the full width.
func (b *LayoutBuilder) TopFixed(name string, height int) *LayoutBuilder {
	y := b.top
	b.regions = append(b.regions, Region{
		Name: name,
		Rect: image.Rect(0, y, b.termW, y+height),
	})
	b.top += height
	return b
}

// BottomFixed reserves rows from the bottom across the full width.
func (b *LayoutBuilder) BottomFixed(name string, height int) *LayoutBuilder {
	y := b.termH - b.bottom - height
	b.regions = append(b.regions, Region{
		Name: name,
		Rect: image.Rect(0, y, b.termW, y+height),
	})
	b.bottom += height
	return b
}

// LeftFixed reserves columns from the left, between the top and bottom
// strips.
func (b *LayoutBuilder) LeftFixed(name string, width int) *LayoutBuilder {
	x := b.left
	b.regions = append(b.regions, Region{
		Name: name,
		Rect: image.Rect(x, b.top, x+width, b.termH-b.bottom),
	})
	b.left += width
	return b
}

// RightFixed reserves columns from the right, between the top and bottom
// strips.
func (b *LayoutBuilder) RightFixed(name string, width int) *LayoutBuilder {
	x := b.termW - b.right - width
	b.regions = append(b.regions, Region{
		Name: name,
		Rect: image.Rect(x, b.top, x+width, b.termH-b.bottom),
	})
	b.right += width
	return b
}

// When applies fn only if cond holds, for optional strips such as a side
// panel hidden in fullscreen.
func (b *LayoutBuilder) When(cond bool, fn func(*LayoutBuilder) *LayoutBuilder) *LayoutBuilder {
	if cond {
		return fn(b)
	}
	return b
}

// Remaining assigns whatever rectangle is left after fixed allocations.
// A degenerate remainder becomes an empty rectangle.
func (b *LayoutBuilder) Remaining(name string) *LayoutBuilder {
	x1 := b.termW - b.right
	y1 := b.termH - b.bottom
	var rect image.Rectangle
	if x1 > b.left && y1 > b.top {
		rect = image.Rect(b.left, b.top, x1, y1)
	}
	b.regions = append(b.regions, Region{Name: name, Rect: rect})
	return b
}

// Build computes and returns the final Layout.
func (b *LayoutBuilder) Build() Layout {
	l := Layout{
		TermW:   b.termW,
		TermH:   b.termH,
		Regions: make(map[string]Region, len(b.regions)),
		order:   make([]string, 0, len(b.regions)),
	}
	for _, r := range b.regions {
		if r.Rect.Min.X >= r.Rect.Max.X || r.Rect.Min.Y >= r.Rect.Max.Y {
			r.Rect = image.Rectangle{}
		}
		l.Regions[r.Name] = r
		l.order = append(l.order, r.Name)
	}
	return l
}
