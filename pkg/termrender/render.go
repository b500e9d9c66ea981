// Package termrender draws a laid-out graph into a terminal cell buffer.
//
// World coordinates go through the controller's zoom transform to screen
// pixels, and screen pixels map onto cells of CellWidth × CellHeight.
// Relationships are drawn first, then node discs, then captions, so the
// cell priorities keep captions readable where shapes overlap.
package termrender

import (
	"image"
	"math"
	"strings"

	"github.com/wesen/neograph/pkg/cellbuf"
	"github.com/wesen/neograph/pkg/drawutil"
	"github.com/wesen/neograph/pkg/geometry"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/graphstyle"
	"github.com/wesen/neograph/pkg/viz"
)

// Draw priorities, lowest first.
const (
	zGrid cellbuf.Priority = iota
	zShaft
	zHead
	zRelCaption
	zDisc
	zNodeCaption
)

const (
	defaultNodeColor = "#A5ABB6"
	defaultTextColor = "#FFFFFF"
)

// Options configures the projection and chrome colours.
type Options struct {
	// CellWidth and CellHeight are the screen px covered by one cell.
	CellWidth  float64
	CellHeight float64
	Background string
	// GridSpacing dots the canvas every GridSpacing world px. Zero
	// disables the grid.
	GridSpacing    float64
	GridColor      string
	SelectionColor string
	HoverColor     string
}

// DefaultOptions returns 10×20 px cells on the terminal's own background.
func DefaultOptions() Options {
	return Options{
		CellWidth:      10,
		CellHeight:     20,
		GridColor:      "#3A3F4B",
		SelectionColor: "#6AC6FF",
		HoverColor:     "#B9E3FF",
	}
}

// Renderer implements viz.Renderer for a terminal canvas.
type Renderer struct {
	style   *graphstyle.GraphStyle
	opts    Options
	palette *cellbuf.Palette
	dirty   bool
	ticks   int
	changes int
}

// New creates a renderer reading colours from style.
func New(style *graphstyle.GraphStyle, opts Options) *Renderer {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 10
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 20
	}
	return &Renderer{
		style:   style,
		opts:    opts,
		palette: cellbuf.NewPalette(cellbuf.Spec{BG: opts.Background}),
		dirty:   true,
	}
}

// SetStyle swaps the style sheet used for colours.
func (r *Renderer) SetStyle(style *graphstyle.GraphStyle) {
	r.style = style
	r.dirty = true
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options { return r.opts }

// OnGraphChange implements viz.Renderer.
func (r *Renderer) OnGraphChange(_ *graphmodel.Graph, _ viz.UpdateOptions) {
	r.changes++
	r.dirty = true
}

// OnTick implements viz.Renderer.
func (r *Renderer) OnTick(_ *graphmodel.Graph) {
	r.ticks++
	r.dirty = true
}

// Dirty reports whether the graph changed since the last Render.
func (r *Renderer) Dirty() bool { return r.dirty }

// Stats returns how many change and tick notifications were received.
func (r *Renderer) Stats() (changes, ticks int) { return r.changes, r.ticks }

// ScreenSize returns the screen px size of a w × h cell canvas.
func (r *Renderer) ScreenSize(w, h int) (float64, float64) {
	return float64(w) * r.opts.CellWidth, float64(h) * r.opts.CellHeight
}

// CellCentre returns the screen px at the centre of cell (col, row).
func (r *Renderer) CellCentre(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * r.opts.CellWidth, (float64(row) + 0.5) * r.opts.CellHeight
}

// Render draws the graph and returns the styled canvas.
func (r *Renderer) Render(g *graphmodel.Graph, t viz.Transform, w, h int) string {
	buf := r.Draw(g, t, w, h)
	r.dirty = false
	return buf.Render(r.palette)
}

// Draw paints the graph into a fresh w × h buffer.
func (r *Renderer) Draw(g *graphmodel.Graph, t viz.Transform, w, h int) *cellbuf.Buffer {
	buf := cellbuf.New(w, h, 0)
	if w == 0 || h == 0 || t.K <= 0 {
		return buf
	}
	if r.opts.GridSpacing > 0 {
		origin := t.Apply(graphmodel.Point{})
		drawutil.DrawGrid(buf, origin.X/r.opts.CellWidth, origin.Y/r.opts.CellHeight,
			r.opts.CellWidth/t.K, r.opts.CellHeight/t.K, r.opts.GridSpacing,
			r.key(cellbuf.Spec{FG: r.opts.GridColor, BG: r.opts.Background}))
	}
	for _, rel := range g.Relationships() {
		r.drawRelationship(buf, rel, t)
	}
	sw, sh := r.ScreenSize(w, h)
	tl := t.Invert(graphmodel.Point{})
	br := t.Invert(graphmodel.Point{X: sw, Y: sh})
	for _, n := range g.NodesInBounds(graphmodel.Bounds{MinX: tl.X, MinY: tl.Y, MaxX: br.X, MaxY: br.Y}) {
		r.drawNode(buf, n, t)
	}
	return buf
}

func (r *Renderer) key(spec cellbuf.Spec) cellbuf.StyleKey {
	return r.palette.Intern(spec)
}

// toCell maps a world point to fractional cell coordinates.
func (r *Renderer) toCell(p graphmodel.Point, t viz.Transform) (float64, float64) {
	s := t.Apply(p)
	return s.X / r.opts.CellWidth, s.Y / r.opts.CellHeight
}

func (r *Renderer) drawNode(buf *cellbuf.Buffer, n *graphmodel.NodeModel, t viz.Transform) {
	el := r.style.ForNode(n)
	fill := orDefault(el.Get("color"), defaultNodeColor)
	text := orDefault(el.Get("text-color-internal"), defaultTextColor)

	cx, cy := r.toCell(graphmodel.Point{X: n.X, Y: n.Y}, t)
	rx := n.Radius * t.K / r.opts.CellWidth
	ry := n.Radius * t.K / r.opts.CellHeight
	drawutil.DrawDisc(buf, cx, cy, rx, ry, ' ', r.key(cellbuf.Spec{BG: fill}), zDisc)

	switch {
	case n.Selected:
		drawutil.DrawRing(buf, cx, cy, rx, ry, r.key(cellbuf.Spec{BG: r.opts.SelectionColor}), zDisc)
	case n.Hovered:
		drawutil.DrawRing(buf, cx, cy, rx, ry, r.key(cellbuf.Spec{BG: r.opts.HoverColor}), zDisc)
	}
	if n.Fixed {
		buf.Plot(int(math.Floor(cx+rx-0.5)), int(math.Floor(cy-ry+0.5)), '•',
			r.key(cellbuf.Spec{FG: text, BG: fill}), zDisc)
	}

	lines := n.CaptionLines
	visible := min(len(lines), max(1, int(2*ry)))
	if visible == 0 {
		return
	}
	lines = lines[:visible]
	maxWidth := max(1, int(2*rx))
	capKey := r.key(cellbuf.Spec{FG: text, BG: fill, Bold: n.Selected})
	for i, line := range lines {
		row := int(math.Floor(cy + float64(i) - float64(len(lines)-1)/2))
		drawutil.DrawCentered(buf, cx, row, clip(line.Text, maxWidth), capKey, zNodeCaption)
	}
}

func (r *Renderer) drawRelationship(buf *cellbuf.Buffer, rel *graphmodel.RelationshipModel, t viz.Transform) {
	a := rel.Arrow
	if a == nil {
		return
	}
	el := r.style.ForRelationship(rel)
	colour := orDefault(el.Get("color"), defaultNodeColor)
	if rel.Selected {
		colour = r.opts.SelectionColor
	} else if rel.Hovered {
		colour = r.opts.HoverColor
	}
	lineKey := r.key(cellbuf.Spec{FG: colour, BG: r.opts.Background, Bold: rel.Selected})

	path := r.arrowPath(a, t)
	if len(path) < 2 {
		return
	}
	cells := make([]image.Point, 0, len(path))
	for _, p := range path {
		cells = append(cells, image.Pt(int(math.Floor(p.X/r.opts.CellWidth)), int(math.Floor(p.Y/r.opts.CellHeight))))
	}
	drawutil.DrawPolyline(buf, cells, lineKey, zShaft)

	last, prev := path[len(path)-1], path[len(path)-2]
	end := cells[len(cells)-1]
	drawutil.DrawArrowHead(buf, end.X, end.Y, last.X-prev.X, last.Y-prev.Y, lineKey, zHead)

	caption := rel.ShortCaption
	if caption == "" {
		return
	}
	mx, my := r.toCell(a.Mid, t)
	capSpec := cellbuf.Spec{FG: colour, BG: r.opts.Background, Bold: rel.Selected}
	if rel.CaptionLayout == graphmodel.CaptionInternal {
		capSpec = cellbuf.Spec{
			FG:   orDefault(el.Get("text-color-internal"), defaultTextColor),
			BG:   colour,
			Bold: rel.Selected,
		}
	}
	drawutil.DrawCentered(buf, mx, int(math.Floor(my)), caption, r.key(capSpec), zRelCaption)
}

// arrowPath samples the arrow's curve in screen px.
func (r *Renderer) arrowPath(a *graphmodel.Arrow, t viz.Transform) []graphmodel.Point {
	if a.Kind == graphmodel.ArrowLoop {
		return loopPath(a, t)
	}
	start, end := t.Apply(a.Start), t.Apply(a.End)
	steps := 1
	if a.Kind == graphmodel.ArrowArc {
		length := math.Hypot(end.X-start.X, end.Y-start.Y) / math.Min(r.opts.CellWidth, r.opts.CellHeight)
		steps = max(4, min(64, int(length)))
	}
	path := make([]graphmodel.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		path = append(path, t.Apply(geometry.QuadPoint(a, float64(i)/float64(steps))))
	}
	return path
}

// loopPath runs from the node around the far side of the loop circle and
// back, in screen px.
func loopPath(a *graphmodel.Arrow, t viz.Transform) []graphmodel.Point {
	const (
		steps = 24
		gap   = 40.0
	)
	path := []graphmodel.Point{t.Apply(a.Start)}
	from := a.Angle - 180 + gap
	sweep := 360 - 2*gap
	for i := 0; i <= steps; i++ {
		rad := (from + sweep*float64(i)/steps) * math.Pi / 180
		path = append(path, t.Apply(graphmodel.Point{
			X: a.Control.X + a.LoopRadius*math.Cos(rad),
			Y: a.Control.Y + a.LoopRadius*math.Sin(rad),
		}))
	}
	return append(path, t.Apply(a.End))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// clip cuts s to at most width cells, ending in an ellipsis when cut.
func clip(s string, width int) string {
	if drawutil.TextWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:min(len(runes), width)])
	}
	var b strings.Builder
	for _, ch := range runes {
		if drawutil.TextWidth(b.String()+string(ch)) > width-1 {
			break
		}
		b.WriteRune(ch)
	}
	return b.String() + "…"
}
