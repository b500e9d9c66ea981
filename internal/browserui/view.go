package browserui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wesen/neograph/pkg/tealayout"
	"github.com/wesen/neograph/pkg/viz"
)

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.Width == 0 || m.Height == 0 {
		return tea.NewView("")
	}
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

// render composes every layer into the terminal frame.
func (m Model) render() string {
	layout := m.layout()
	canvasRegion := layout.Get("canvas")

	var layers []*lipgloss.Layer

	// Background
	layers = append(layers,
		tealayout.FillLayer(layout.Get("header"), headerStyle, "header-bg", 0),
		tealayout.FillLayer(canvasRegion, bgStyle, "canvas-bg", 0),
		tealayout.FillLayer(layout.Get("status"), statusStyle, "status-bg", 0),
	)

	layers = append(layers,
		tealayout.BarLayer("header", m.headerText(), m.Width, 0, headerStyle),
	)
	st := statusStyle
	if m.st.failed {
		st = statusErrorStyle
	}
	layers = append(layers,
		tealayout.BarLayer("status", m.statusText(), m.Width, m.Height-1, st),
	)

	// Graph
	cw, ch := canvasRegion.Rect.Dx(), canvasRegion.Rect.Dy()
	if cw > 0 && ch > 0 && m.Loaded {
		frame := m.renderer.Render(m.ctrl.Graph(), m.ctrl.Transform(), cw, ch)
		layers = append(layers, tealayout.ContentLayer(canvasRegion, frame, "graph", 1))
	}

	if m.st.hint != "" {
		layers = append(layers, tealayout.CornerLayer("zoom-hint", m.st.hint, canvasRegion, hintStyle))
	}

	// Inspector
	if layout.Has("inspector") {
		ir := layout.Get("inspector")
		pw, ph := ir.Rect.Dx(), ir.Rect.Dy()
		if pw > 0 && ph > 0 {
			layers = append(layers,
				tealayout.VerticalSeparator(ir.Rect.Min.X, ir.Rect.Min.Y, ph, sepStyle),
				tealayout.FillLayer(ir, panelLineStyle, "inspector-bg", 0),
				buildInspectorLayer(m.ctrl.Graph(), m.inspected(), ir.Rect.Min.X+2, ir.Rect.Min.Y, pw-3, ph),
			)
		}
	}

	if m.EditOpen {
		layers = append(layers, buildEditModalLayer(m))
	}

	comp := lipgloss.NewCompositor(layers...)
	canvas := lipgloss.NewCanvas(m.Width, m.Height)
	canvas.Compose(comp)
	return canvas.Render()
}

// inspected is the hovered item while the selection is the canvas,
// otherwise the selection.
func (m Model) inspected() viz.Item {
	sel := m.ctrl.Selected()
	if sel.Kind == viz.ItemCanvas && m.st.hovered.Kind != viz.ItemCanvas {
		return m.st.hovered
	}
	return sel
}

func (m Model) headerText() string {
	title := m.title
	if title == "" {
		title = "graph"
	}
	return fmt.Sprintf(" neograph  │  %s  │  [e]xpand [p]in [d]ismiss [t]ree [s]tyle [f]ull  │  [q]uit", title)
}

// statusText shows zoom, counts and the last status message.
func (m Model) statusText() string {
	g := m.ctrl.Graph()
	parts := []string{
		fmt.Sprintf(" %3.0f%%", m.ctrl.Scale()*100),
		fmt.Sprintf("%d nodes  %d rels", g.NodeCount(), g.RelationshipCount()),
	}
	in, out := m.ctrl.ZoomLimits()
	switch {
	case in:
		parts = append(parts, "max zoom")
	case out:
		parts = append(parts, "min zoom")
	}
	if m.ctrl.NotAllNodesShown() {
		parts = append(parts, fmt.Sprintf("not all nodes shown (limit %d)", m.vizOpts.InitialNodeDisplay))
	}
	if m.ctrl.Ticking() {
		parts = append(parts, "◌ layout")
	}
	if m.st.status != "" {
		parts = append(parts, m.st.status)
	}
	return strings.Join(parts, "  │  ")
}
