package browserui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesen/neograph/internal/config"
	"github.com/wesen/neograph/internal/source"
	"github.com/wesen/neograph/internal/store"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/viz"
)

const moviesYAML = `
initial: [keanu, matrix]
nodes:
  - {id: keanu, labels: [Person], properties: {name: Keanu}}
  - {id: carrie, labels: [Person], properties: {name: Carrie}}
  - {id: matrix, labels: [Movie], properties: {title: The Matrix}}
  - {id: reloaded, labels: [Movie], properties: {title: Reloaded}}
relationships:
  - {id: r1, type: ACTED_IN, startNode: keanu, endNode: matrix}
  - {id: r2, type: ACTED_IN, startNode: carrie, endNode: matrix}
  - {id: r3, type: ACTED_IN, startNode: keanu, endNode: reloaded}
  - {id: r4, type: KNOWS, startNode: keanu, endNode: carrie}
`

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.Seed = 7
	cfg.Viewer.MaxZoom = 10
	return cfg
}

func newModel(t *testing.T, cfg *config.Config, st *store.Store) Model {
	t.Helper()
	src, err := source.ParseFixture([]byte(moviesYAML))
	require.NoError(t, err)
	return newModelWith(t, cfg, st, src)
}

func newModelWith(t *testing.T, cfg *config.Config, st *store.Store, src source.Source) Model {
	t.Helper()
	m, err := New(Options{
		Source:        src,
		Store:         st,
		Config:        cfg,
		Title:         "movies",
		FrameInterval: time.Millisecond,
		HintDuration:  time.Millisecond,
	})
	require.NoError(t, err)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return run(t, m, m.Init())
}

func memStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// send delivers msg and runs whatever work it starts.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return run(t, next.(Model), cmd)
}

// maxFrames bounds the simulation frames one run delivers. A held drag
// keeps the simulation warm indefinitely.
const maxFrames = 50

// run executes cmd and feeds the model's own messages back until nothing
// is left. Other messages are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	frames := 0
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case frameMsg:
			if frames++; frames > maxFrames {
				m.sched.inFlight = false
				continue
			}
		case loadedMsg, expandedMsg, internalMsg, savedMsg, hintExpiredMsg:
		default:
			continue
		}
		next, cmd := m.Update(msg)
		m = next.(Model)
		queue = append(queue, cmd)
	}
	return m
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "ctrl+n":
		return tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	}
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

// press delivers a key without running the work it starts.
func press(m Model, s string) (Model, tea.Cmd) {
	next, cmd := m.Update(key(s))
	return next.(Model), cmd
}

func selectNode(m Model, id string) {
	m.ctrl.Select(viz.Item{Kind: viz.ItemNode, Node: m.ctrl.Graph().Node(id)})
}

// cellOf returns the terminal cell under the centre of node id.
func cellOf(m Model, id string) (int, int) {
	n := m.ctrl.Graph().Node(id)
	p := m.ctrl.WorldToScreen(graphmodel.Point{X: n.X, Y: n.Y})
	o := m.renderer.Options()
	r := m.layout().Get("canvas").Rect
	return r.Min.X + int(p.X/o.CellWidth), r.Min.Y + int(p.Y/o.CellHeight)
}

type failingSource struct{ *source.Fixture }

func (failingSource) Initial(context.Context) (graphmodel.Records, error) {
	return graphmodel.Records{}, errors.New("connection refused")
}

// ── Loading ──

func TestLoad(t *testing.T) {
	m := newModel(t, testConfig(), nil)

	assert.True(t, m.Loaded)
	g := m.ctrl.Graph()
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.RelationshipCount())
	assert.True(t, m.st.fitted)
	assert.Contains(t, m.st.status, "loaded 2 nodes")

	w, h := m.ctrl.Viewport()
	assert.Equal(t, float64((120-panelWidth)*10), w)
	assert.Equal(t, float64(38*20), h)
}

func TestLoadError(t *testing.T) {
	m := newModelWith(t, testConfig(), nil, failingSource{})
	assert.False(t, m.Loaded)
	assert.True(t, m.st.failed)
	assert.Equal(t, "connection refused", m.st.status)
}

func TestLoadDisplayLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Viewer.InitialNodeDisplay = 1
	m := newModel(t, cfg, nil)
	assert.Equal(t, 1, m.ctrl.Graph().NodeCount())
	assert.Contains(t, m.statusText(), "not all nodes shown (limit 1)")
}

// ── Expansion ──

func TestExpandAndCollapse(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	g := m.ctrl.Graph()
	selectNode(m, "keanu")

	m = send(t, m, key("e"))
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 4, g.RelationshipCount())
	assert.True(t, g.Node("keanu").Expanded)
	assert.True(t, g.Relationship("r2").Internal, "carrie→matrix was found between visible nodes")
	assert.Equal(t, "added 2 of 3 neighbours", m.st.status, "the matrix was already shown")

	m = send(t, m, key("e"))
	assert.Equal(t, 2, g.NodeCount())
	assert.False(t, g.Node("keanu").Expanded)
	assert.Contains(t, m.st.status, "collapsed")
}

func TestExpandLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Viewer.MaxNeighbours = 1
	m := newModel(t, cfg, nil)
	selectNode(m, "keanu")

	m = send(t, m, key("e"))
	assert.Equal(t, 2, m.ctrl.Graph().NodeCount())
	assert.Equal(t, "added 0, showing 1 of 3 neighbours", m.st.status)
}

func TestStaleExpansionDropped(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	old := m.ctrl.Generation()
	m.ctrl.Init()

	carrie := graphmodel.NodeRecord{ID: "carrie", Labels: []string{"Person"}}
	m = send(t, m, expandedMsg{
		generation: old,
		parentID:   "keanu",
		exp:        source.Expansion{Records: graphmodel.Records{Nodes: []graphmodel.NodeRecord{carrie}}, Total: 1},
	})
	assert.Equal(t, 2, m.ctrl.Graph().NodeCount())
}

// ── Keys ──

func TestZoomKeys(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	fit := m.ctrl.Scale()

	m = send(t, m, key("-"))
	assert.InDelta(t, fit*0.7, m.ctrl.Scale(), 1e-9)
	m = send(t, m, key("+"))
	assert.InDelta(t, fit*0.7*1.3, m.ctrl.Scale(), 1e-9)
	m = send(t, m, key("0"))
	assert.InDelta(t, fit, m.ctrl.Scale(), fit*0.05)

	before := m.ctrl.Transform()
	m = send(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.InDelta(t, before.X+panStep*10, m.ctrl.Transform().X, 1e-9)
}

func TestFullscreen(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	m = send(t, m, key("f"))
	assert.True(t, m.Fullscreen)
	assert.True(t, m.ctrl.Fullscreen())
	assert.False(t, m.layout().Has("inspector"))
	w, _ := m.ctrl.Viewport()
	assert.Equal(t, 1200.0, w)
}

func TestNodeKeys(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	g := m.ctrl.Graph()

	m = send(t, m, key("tab"))
	require.Equal(t, "keanu", m.ctrl.Selected().ID())
	m = send(t, m, key("tab"))
	require.Equal(t, "matrix", m.ctrl.Selected().ID())

	m = send(t, m, key("p"))
	assert.True(t, g.Node("matrix").Fixed)
	m = send(t, m, key("u"))
	assert.False(t, g.Node("matrix").Fixed)

	m = send(t, m, key("d"))
	assert.Nil(t, g.Node("matrix"))
	assert.Equal(t, viz.ItemCanvas, m.ctrl.Selected().Kind)
	assert.Equal(t, 0, g.RelationshipCount())
}

func TestTreeLayoutKey(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	m = send(t, m, key("t"))
	for _, n := range m.ctrl.Graph().Nodes() {
		assert.True(t, n.Fixed, n.ID)
	}
	assert.Contains(t, m.st.status, "tree layout: 1 roots")
}

func TestQuit(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	_, cmd := m.handleKeys(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// ── Mouse ──

func TestClickDragRelease(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	x, y := cellOf(m, "keanu")

	m = send(t, m, tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	assert.Equal(t, "keanu", m.ctrl.Selected().ID())
	assert.True(t, m.ctrl.Dragging())

	m = send(t, m, tea.MouseMotionMsg{X: x + 3, Y: y})
	keanu := m.ctrl.Graph().Node("keanu")
	assert.True(t, keanu.Fixed)
	want := m.ctrl.ScreenToWorld(m.renderer.CellCentre(x+3-m.layout().Get("canvas").Rect.Min.X, y-1))
	assert.InDelta(t, want.X, keanu.FX, 1e-9)

	m = send(t, m, tea.MouseReleaseMsg{X: x + 3, Y: y, Button: tea.MouseLeft})
	assert.False(t, m.ctrl.Dragging())
	assert.True(t, keanu.Fixed, "dragged nodes stay pinned")
}

func TestDoubleClickExpands(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	keanu := m.ctrl.Graph().Node("keanu")
	p := m.ctrl.WorldToScreen(graphmodel.Point{X: keanu.X, Y: keanu.Y})

	m = handleLeftClick(m, p.X, p.Y)
	assert.False(t, keanu.Expanded)
	m = handleLeftClick(m, p.X, p.Y)
	m = run(t, m, m.st.drain())
	assert.True(t, keanu.Expanded)
	assert.Equal(t, 4, m.ctrl.Graph().NodeCount())
}

func TestPanAndWheel(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	before := m.ctrl.Transform()

	m = send(t, m, tea.MouseClickMsg{X: 0, Y: 1, Button: tea.MouseLeft})
	require.False(t, m.ctrl.Dragging())
	m = send(t, m, tea.MouseMotionMsg{X: 5, Y: 3})
	after := m.ctrl.Transform()
	assert.InDelta(t, before.X+50, after.X, 1e-9)
	assert.InDelta(t, before.Y+40, after.Y, 1e-9)
	m = send(t, m, tea.MouseReleaseMsg{X: 5, Y: 3})

	scale := m.ctrl.Scale()
	m = send(t, m, tea.MouseWheelMsg{X: 40, Y: 20, Button: tea.MouseWheelDown})
	assert.Less(t, m.ctrl.Scale(), scale)
}

func TestMouseOutsideCanvasIgnored(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	selectNode(m, "keanu")
	m = send(t, m, tea.MouseClickMsg{X: 110, Y: 5, Button: tea.MouseLeft})
	assert.Equal(t, "keanu", m.ctrl.Selected().ID())
}

// ── Zoom hint ──

func TestZoomLimitHintShownOnce(t *testing.T) {
	db := memStore(t)
	m := newModel(t, testConfig(), db)
	require.False(t, m.st.hintShown)

	var cmds []tea.Cmd
	for range 10 {
		var cmd tea.Cmd
		m, cmd = press(m, "+")
		cmds = append(cmds, cmd)
	}
	assert.NotEmpty(t, m.st.hint)
	in, _ := m.ctrl.ZoomLimits()
	assert.True(t, in)

	m = run(t, m, tea.Batch(cmds...))
	assert.Empty(t, m.st.hint, "hint expires")
	shown, err := db.Flag(context.Background(), store.PrefZoomLimitHintShown)
	require.NoError(t, err)
	assert.True(t, shown)

	again := newModel(t, testConfig(), db)
	for range 10 {
		again, _ = press(again, "+")
	}
	assert.Empty(t, again.st.hint)
}

// ── Style editor ──

func TestStyleEditor(t *testing.T) {
	db := memStore(t)
	m := newModel(t, testConfig(), db)

	m, _ = press(m, "s")
	assert.False(t, m.EditOpen, "nothing selected")

	selectNode(m, "keanu")
	m, _ = press(m, "s")
	require.True(t, m.EditOpen)
	assert.Equal(t, "node.Person", m.EditSelector.String())
	assert.Equal(t, nodeEditProps, m.EditProps)
	assert.NotEmpty(t, m.EditInputs[0].Value())

	m.EditInputs[0].SetValue("#FF0000")
	m.EditInputs[2].SetValue("")
	m, _ = press(m, "tab")
	m, _ = press(m, "tab")
	require.Equal(t, 2, m.EditFocus)
	m, _ = press(m, "8")
	m, _ = press(m, "0")
	assert.Equal(t, "80", m.EditInputs[2].Value())

	m = send(t, m, key("enter"))
	assert.False(t, m.EditOpen)
	keanu := m.ctrl.Graph().Node("keanu")
	el := m.ctrl.Style().ForNode(keanu)
	assert.Equal(t, "#FF0000", el.Get("color"))
	assert.Equal(t, "80", el.Get("diameter"))
	assert.InDelta(t, 40, keanu.Radius, 1e-9)

	sheet, err := db.LoadSheet(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", sheet["node.Person"]["color"])
}

func TestStyleEditorPresets(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	selectNode(m, "keanu")
	m, _ = press(m, "s")
	require.True(t, m.EditOpen)

	m, _ = press(m, "tab")
	m, _ = press(m, "tab")
	require.Equal(t, "diameter", m.EditProps[m.EditFocus])
	assert.Equal(t, "50px", m.EditInputs[2].Value())
	m, _ = press(m, "ctrl+n")
	assert.Equal(t, "65px", m.EditInputs[2].Value())

	m.EditInputs[2].SetValue("80px")
	m, _ = press(m, "ctrl+n")
	assert.Equal(t, "10px", m.EditInputs[2].Value(), "wraps around")

	m, _ = press(m, "tab")
	require.Equal(t, "caption", m.EditProps[m.EditFocus])
	before := m.EditInputs[3].Value()
	m, _ = press(m, "ctrl+n")
	assert.Equal(t, before, m.EditInputs[3].Value(), "no palette for captions")
}

func TestStyleEditorCancel(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	selectNode(m, "keanu")
	m, _ = press(m, "s")
	m.EditInputs[0].SetValue("#00FF00")
	m, _ = press(m, "esc")
	assert.False(t, m.EditOpen)
	assert.NotEqual(t, "#00FF00", m.ctrl.Style().ForNode(m.ctrl.Graph().Node("keanu")).Get("color"))
}

func TestStyleEditorRelationship(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	m.ctrl.Select(viz.Item{Kind: viz.ItemRelationship, Relationship: m.ctrl.Graph().Relationship("r1")})
	m, _ = press(m, "s")
	require.True(t, m.EditOpen)
	assert.Equal(t, "relationship.ACTED_IN", m.EditSelector.String())
	assert.Equal(t, relationshipEditProps, m.EditProps)
}

// ── View ──

func TestView(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.Equal(t, tea.MouseModeAllMotion, v.MouseMode)
	assert.NotEmpty(t, m.render())

	unsized, err := New(Options{Source: failingSource{}})
	require.NoError(t, err)
	assert.False(t, unsized.View().AltScreen)
}

func TestStatusText(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	s := m.statusText()
	assert.Contains(t, s, "2 nodes  1 rels")
	assert.Contains(t, s, "%")
	assert.Contains(t, m.headerText(), "movies")
}

func TestInspectorLines(t *testing.T) {
	m := newModel(t, testConfig(), nil)
	g := m.ctrl.Graph()

	texts := func(lines []panelLine) map[string]string {
		out := map[string]string{}
		for _, l := range lines {
			out[l.prop] = l.text
		}
		return out
	}

	canvas := texts(inspectorLines(g, viz.Item{Kind: viz.ItemCanvas}))
	assert.Equal(t, "1", canvas[":Person"])
	assert.Equal(t, "1", canvas[":Movie"])
	assert.Equal(t, "1", canvas["[:ACTED_IN]"])

	node := texts(inspectorLines(g, viz.Item{Kind: viz.ItemNode, Node: g.Node("keanu")}))
	assert.Equal(t, "keanu", node["<id>"])
	assert.Equal(t, "Keanu", node["name"])

	rel := inspectorLines(g, viz.Item{Kind: viz.ItemRelationship, Relationship: g.Relationship("r1")})
	assert.Equal(t, "[:ACTED_IN]", rel[1].text)
	assert.Equal(t, "Keanu → The Matrix", rel[3].text)

	// Hover shows while nothing is selected.
	m.st.hovered = viz.Item{Kind: viz.ItemNode, Node: g.Node("matrix")}
	assert.Equal(t, "matrix", m.inspected().ID())
	selectNode(m, "keanu")
	assert.Equal(t, "keanu", m.inspected().ID())
}

func TestClipText(t *testing.T) {
	assert.Equal(t, "abc", clipText("abc", 3))
	assert.Equal(t, "ab…", clipText("abcd", 3))
	assert.Equal(t, "", clipText("abc", 0))
}

func TestFrameScheduler(t *testing.T) {
	s := newFrameScheduler(time.Millisecond)
	assert.Nil(t, s.cmd())

	ran := 0
	s.RequestTick(func() { ran++ })
	require.NotNil(t, s.cmd())
	assert.Nil(t, s.cmd(), "one tick in flight")

	assert.Equal(t, 1, s.frame())
	assert.Equal(t, 1, ran)
	assert.Nil(t, s.cmd())
}
