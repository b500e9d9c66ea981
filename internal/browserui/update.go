package browserui

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/tealayout"
	"github.com/wesen/neograph/pkg/viz"
)

// panStep is the number of cells an arrow key pans.
const panStep = 4

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()

	case tea.KeyMsg:
		if m.EditOpen {
			m, cmd = m.handleEditKeys(msg)
		} else {
			m, cmd = m.handleKeys(msg)
		}

	case tea.MouseMsg:
		m, cmd = handleMouse(m, msg, m.layout().Get("canvas"))

	case frameMsg:
		m.sched.frame()

	case loadedMsg:
		m.onLoaded(msg)

	case expandedMsg:
		m.onExpanded(msg)

	case internalMsg:
		m.onInternal(msg)

	case savedMsg:
		if msg.err != nil {
			m.log.Error("saving", "what", msg.what, "error", msg.err)
			m.st.setError(msg.err)
		}

	case hintExpiredMsg:
		m.st.hint = ""
	}

	return m, tea.Batch(cmd, m.st.drain(), m.sched.cmd())
}

// layout splits the terminal into header, status bar, inspector and canvas.
// Fullscreen hides the inspector.
func (m Model) layout() tealayout.Layout {
	return tealayout.NewLayoutBuilder(m.Width, m.Height).
		TopFixed("header", 1).
		BottomFixed("status", 1).
		When(!m.Fullscreen, func(b *tealayout.LayoutBuilder) *tealayout.LayoutBuilder {
			return b.RightFixed("inspector", panelWidth)
		}).
		Remaining("canvas").
		Build()
}

// resize hands the canvas size, in screen px, to the controller.
func (m Model) resize() {
	r := m.layout().Get("canvas").Rect
	w, h := m.renderer.ScreenSize(r.Dx(), r.Dy())
	m.ctrl.Resize(m.Fullscreen, w, h)
	m.fitOnce()
}

// fitOnce zooms to fit the first time a loaded graph meets a sized canvas.
func (m Model) fitOnce() {
	if m.st.fitted || !m.Loaded {
		return
	}
	if w, h := m.ctrl.Viewport(); w <= 0 || h <= 0 {
		return
	}
	m.st.fitted = true
	m.ctrl.ZoomToFitClick()
}

func (m *Model) onLoaded(msg loadedMsg) {
	if msg.err != nil {
		m.log.Error("loading initial result", "error", msg.err)
		m.st.setError(msg.err)
		return
	}
	if err := m.ctrl.Load(msg.recs); err != nil {
		m.log.Warn("some records were rejected", "error", err)
	}
	m.ctrl.Init()
	m.Loaded = true
	g := m.ctrl.Graph()
	m.st.setStatus("loaded %d nodes, %d relationships", g.NodeCount(), g.RelationshipCount())
	m.st.queue(m.fetchInternal())
	m.fitOnce()
}

func (m *Model) onExpanded(msg expandedMsg) {
	if msg.err != nil {
		m.log.Error("expanding node", "node", msg.parentID, "error", msg.err)
		m.st.setError(msg.err)
		return
	}
	batch, convErr := graphmodel.Convert(m.ctrl.Graph(), msg.exp.Records)
	if convErr != nil {
		m.log.Warn("some neighbours were rejected", "node", msg.parentID, "error", convErr)
	}
	added, err := m.ctrl.ApplyExpansion(msg.generation, msg.parentID, batch)
	if err != nil {
		if errors.Is(err, viz.ErrStale) {
			m.log.Debug("dropping stale expansion", "node", msg.parentID)
			return
		}
		m.st.setError(err)
		return
	}
	if shown := len(msg.exp.Records.Nodes); shown < msg.exp.Total {
		m.st.setStatus("added %d, showing %d of %d neighbours", added, shown, msg.exp.Total)
	} else {
		m.st.setStatus("added %d of %d neighbours", added, msg.exp.Total)
	}
	m.st.queue(m.fetchInternal())
}

func (m *Model) onInternal(msg internalMsg) {
	if msg.err != nil {
		m.log.Warn("fetching internal relationships", "error", msg.err)
		return
	}
	batch, err := graphmodel.Convert(m.ctrl.Graph(), graphmodel.Records{Relationships: msg.rels})
	if err != nil {
		m.log.Debug("internal relationships rejected", "error", err)
	}
	if err := m.ctrl.ApplyInternalRelationships(msg.generation, batch.Relationships); errors.Is(err, viz.ErrStale) {
		m.log.Debug("dropping stale internal relationships")
	}
}

// fetchInternal asks the source for relationships among the visible nodes.
func (m Model) fetchInternal() tea.Cmd {
	nodes := m.ctrl.Graph().Nodes()
	if len(nodes) < 2 {
		return nil
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return betweenCmd(m.src, m.timeout, m.ctrl.Generation(), ids)
}

// handleKeys processes keyboard input.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	sel := m.ctrl.Selected()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	// Zoom
	case "+", "=":
		m.ctrl.ZoomInClick()
	case "-", "_":
		m.ctrl.ZoomOutClick()
	case "0":
		m.ctrl.ZoomToFitClick()

	// Camera panning
	case "up":
		m.pan(0, panStep)
	case "down":
		m.pan(0, -panStep)
	case "left":
		m.pan(panStep, 0)
	case "right":
		m.pan(-panStep, 0)

	case "f":
		m.Fullscreen = !m.Fullscreen
		m.resize()

	// Node actions on the selection
	case "e", "enter":
		if sel.Kind == viz.ItemNode {
			m.ctrl.ToggleExpand(sel.Node.ID)
		}
	case "p":
		if sel.Kind == viz.ItemNode {
			m.ctrl.TogglePin(sel.Node.ID)
		}
	case "u":
		m.ctrl.UnpinAll()
		m.st.setStatus("released all nodes")
	case "d", "delete", "backspace":
		if sel.Kind == viz.ItemNode {
			m.ctrl.Dismiss(sel.Node.ID)
		}
	case "tab":
		m.cycleSelection()

	case "t":
		res := m.ctrl.LayoutTree(m.layoutOpts)
		m.st.setStatus("tree layout: %d roots", len(res.Roots))
		m.ctrl.ZoomToFitClick()

	case "s":
		return m.openEditModal()
	case "R":
		m.ctrl.Style().ResetToDefault()
		m.ctrl.Restyle()
		m.st.setStatus("style reset")
		return m, saveSheetCmd(m.store, m.sheet, m.ctrl.Style().ToSheet())

	case "esc", "escape":
		m.ctrl.Select(viz.Item{Kind: viz.ItemCanvas})
		m.st.hint = ""
	}

	return m, nil
}

// pan moves the view by whole cells.
func (m Model) pan(cols, rows int) {
	o := m.renderer.Options()
	m.ctrl.Pan(float64(cols)*o.CellWidth, float64(rows)*o.CellHeight)
}

// cycleSelection selects the node after the current one in graph order.
func (m Model) cycleSelection() {
	nodes := m.ctrl.Graph().Nodes()
	if len(nodes) == 0 {
		return
	}
	next := 0
	if sel := m.ctrl.Selected(); sel.Kind == viz.ItemNode {
		for i, n := range nodes {
			if n == sel.Node {
				next = (i + 1) % len(nodes)
				break
			}
		}
	}
	m.ctrl.Select(viz.Item{Kind: viz.ItemNode, Node: nodes[next]})
}
