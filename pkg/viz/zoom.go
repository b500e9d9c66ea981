package viz

import (
	"math"

	"github.com/wesen/neograph/pkg/graphmodel"
)

// ZoomState is the zoom gesture state.
type ZoomState int

const (
	ZoomIdle ZoomState = iota
	ZoomZooming
)

func (s ZoomState) String() string {
	if s == ZoomZooming {
		return "zooming"
	}
	return "idle"
}

// Transform maps world to screen: screen = world*K + (X, Y).
type Transform struct {
	X, Y, K float64
}

// Apply maps a world point to the screen.
func (t Transform) Apply(p graphmodel.Point) graphmodel.Point {
	return graphmodel.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point to the world.
func (t Transform) Invert(p graphmodel.Point) graphmodel.Point {
	return graphmodel.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

type view struct {
	width, height float64
	fullscreen    bool
	t             Transform
	minScale      float64
	maxScale      float64
	state         ZoomState
	inLimit       bool
	outLimit      bool
}

func newView(minScale, maxScale float64) view {
	return view{t: Transform{K: 1}, minScale: minScale, maxScale: maxScale}
}

func (v *view) worldCentre() graphmodel.Point {
	return v.t.Invert(graphmodel.Point{X: v.width / 2, Y: v.height / 2})
}

// scaleAbout sets the scale to k, keeping the world point under (sx, sy)
// fixed on screen.
func (v *view) scaleAbout(k, sx, sy float64) {
	k = math.Max(v.minScale, math.Min(v.maxScale, k))
	w := v.t.Invert(graphmodel.Point{X: sx, Y: sy})
	v.t.K = k
	v.t.X = sx - w.X*k
	v.t.Y = sy - w.Y*k
}

// updateLimits refreshes the limit flags and reports whether one of them
// just turned on.
func (v *view) updateLimits() bool {
	const eps = 1e-9
	in := v.t.K >= v.maxScale-eps
	out := v.t.K <= v.minScale+eps
	just := (in && !v.inLimit) || (out && !v.outLimit)
	v.inLimit, v.outLimit = in, out
	return just
}

// Transform returns the current world-to-screen transform.
func (c *Controller) Transform() Transform { return c.view.t }

// Scale returns the current zoom factor.
func (c *Controller) Scale() float64 { return c.view.t.K }

// ZoomState returns the gesture state.
func (c *Controller) ZoomState() ZoomState { return c.view.state }

// ZoomLimits reports whether zooming further in or out is blocked.
func (c *Controller) ZoomLimits() (in, out bool) { return c.view.inLimit, c.view.outLimit }

// ScaleExtent returns the effective scale bounds. Zoom-to-fit may have
// lowered the minimum.
func (c *Controller) ScaleExtent() (float64, float64) { return c.view.minScale, c.view.maxScale }

// Viewport returns the viewport size in screen px.
func (c *Controller) Viewport() (width, height float64) { return c.view.width, c.view.height }

// Fullscreen reports the last fullscreen flag passed to Resize.
func (c *Controller) Fullscreen() bool { return c.view.fullscreen }

// ScreenToWorld maps a screen point to world coordinates.
func (c *Controller) ScreenToWorld(sx, sy float64) graphmodel.Point {
	return c.view.t.Invert(graphmodel.Point{X: sx, Y: sy})
}

// WorldToScreen maps a world point to screen coordinates.
func (c *Controller) WorldToScreen(p graphmodel.Point) graphmodel.Point {
	return c.view.t.Apply(p)
}

// Resize sets the viewport, keeping the world point at the centre of the
// old viewport at the centre of the new one. The first call centres the
// origin.
func (c *Controller) Resize(fullscreen bool, width, height float64) {
	centre := graphmodel.Point{}
	if c.view.width > 0 && c.view.height > 0 {
		centre = c.view.worldCentre()
	}
	c.view.width, c.view.height = width, height
	c.view.fullscreen = fullscreen
	c.view.t.X = width/2 - centre.X*c.view.t.K
	c.view.t.Y = height/2 - centre.Y*c.view.t.K
	c.log.Debug("viewport resized", "width", width, "height", height, "fullscreen", fullscreen)
}

// BeginZoom enters the zooming state, as at the start of a wheel or pinch
// gesture.
func (c *Controller) BeginZoom() {
	if c.view.state == ZoomIdle {
		c.view.state = ZoomZooming
	}
}

// ZoomAt multiplies the scale by factor around the screen point (sx, sy).
func (c *Controller) ZoomAt(factor, sx, sy float64) {
	c.BeginZoom()
	c.view.scaleAbout(c.view.t.K*factor, sx, sy)
}

// EndZoom returns to idle and reports the new scale.
func (c *Controller) EndZoom() {
	if c.view.state != ZoomZooming {
		return
	}
	c.view.state = ZoomIdle
	c.emitZoom(false)
}

// Wheel is a complete one-step zoom gesture at the pointer.
func (c *Controller) Wheel(factor, sx, sy float64) {
	c.ZoomAt(factor, sx, sy)
	c.EndZoom()
}

// ZoomInClick zooms in one step around the viewport centre.
func (c *Controller) ZoomInClick() {
	c.Wheel(c.opts.ZoomInFactor, c.view.width/2, c.view.height/2)
}

// ZoomOutClick zooms out one step around the viewport centre.
func (c *Controller) ZoomOutClick() {
	c.Wheel(c.opts.ZoomOutFactor, c.view.width/2, c.view.height/2)
}

// ZoomToFitClick scales and centres the node bounding box into the
// viewport, leaving FitPadding free. When the graph needs a scale below the
// minimum, the minimum is lowered to it. An empty graph is left alone.
func (c *Controller) ZoomToFitClick() {
	b, ok := c.graph.NodeBounds()
	if !ok || c.view.width <= 0 || c.view.height <= 0 {
		return
	}
	w, h := math.Max(b.Width(), 1), math.Max(b.Height(), 1)
	k := (1 - c.opts.FitPadding) / math.Max(w/c.view.width, h/c.view.height)
	lowered := false
	if k < c.view.minScale {
		c.view.minScale = k
		lowered = true
	}
	k = math.Min(k, c.view.maxScale)

	c.view.state = ZoomZooming
	centre := b.Center()
	c.view.t = Transform{
		K: k,
		X: c.view.width/2 - centre.X*k,
		Y: c.view.height/2 - centre.Y*k,
	}
	c.view.state = ZoomIdle
	c.emitZoom(lowered)
}

// Pan moves the view by a screen offset.
func (c *Controller) Pan(dx, dy float64) {
	c.view.t.X += dx
	c.view.t.Y += dy
}

func (c *Controller) emitZoom(lowered bool) {
	just := c.view.updateLimits()
	if just {
		c.log.Info("zoom limit reached", "scale", c.view.t.K, "in", c.view.inLimit, "out", c.view.outLimit)
	}
	if c.events.OnZoom != nil {
		c.events.OnZoom(ZoomEvent{
			Scale:              c.view.t.K,
			InLimitReached:     c.view.inLimit,
			OutLimitReached:    c.view.outLimit,
			LimitJustReached:   just,
			FitLoweredMinScale: lowered,
		})
	}
}
