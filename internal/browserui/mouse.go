package browserui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/neograph/pkg/tealayout"
	"github.com/wesen/neograph/pkg/viz"
)

const doubleClick = 400 * time.Millisecond

// handleMouse processes mouse events and returns updated model + command.
func handleMouse(m Model, msg tea.MouseMsg, canvas tealayout.Region) (Model, tea.Cmd) {
	mouse := msg.Mouse()
	m.MouseX = mouse.X
	m.MouseY = mouse.Y

	if m.EditOpen || !m.Loaded {
		return m, nil
	}

	// Releases end drags and pans wherever the pointer is.
	if _, ok := msg.(tea.MouseReleaseMsg); ok {
		m.ctrl.DragEnd()
		m.panning = false
		return m, nil
	}

	if !canvas.Contains(mouse.X, mouse.Y) {
		return m, nil
	}

	// Screen px at the centre of the cell under the pointer
	col, row := canvas.Local(mouse.X, mouse.Y)
	sx, sy := m.renderer.CellCentre(col, row)

	switch msg.(type) {
	case tea.MouseClickMsg:
		if mouse.Button != tea.MouseLeft {
			return m, nil
		}
		m = handleLeftClick(m, sx, sy)
		if !m.ctrl.DragStart(sx, sy) {
			m.panning = true
			m.lastX, m.lastY = mouse.X, mouse.Y
		}

	case tea.MouseMotionMsg:
		switch {
		case m.ctrl.Dragging():
			m.ctrl.DragMove(sx, sy)
		case m.panning:
			m.pan(mouse.X-m.lastX, mouse.Y-m.lastY)
			m.lastX, m.lastY = mouse.X, mouse.Y
		default:
			m.ctrl.Hover(sx, sy)
		}

	case tea.MouseWheelMsg:
		switch mouse.Button {
		case tea.MouseWheelUp:
			m.ctrl.Wheel(m.vizOpts.ZoomInFactor, sx, sy)
		case tea.MouseWheelDown:
			m.ctrl.Wheel(m.vizOpts.ZoomOutFactor, sx, sy)
		}
	}

	return m, nil
}

// handleLeftClick selects the item under the pointer. A second click on the
// same node within doubleClick toggles its expansion.
func handleLeftClick(m Model, sx, sy float64) Model {
	item := m.ctrl.Click(sx, sy)
	if item.Kind != viz.ItemNode {
		m.lastClickID = ""
		return m
	}
	now := time.Now()
	if item.Node.ID == m.lastClickID && now.Sub(m.lastClickAt) < doubleClick {
		m.ctrl.ToggleExpand(item.Node.ID)
		m.lastClickID = ""
		return m
	}
	m.lastClickID = item.Node.ID
	m.lastClickAt = now
	return m
}
