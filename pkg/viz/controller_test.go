package viz

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wesen/neograph/pkg/forcesim"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/graphstyle"
	"github.com/wesen/neograph/pkg/treelayout"
)

type recorder struct {
	changes []UpdateOptions
	ticks   int
	nodes   int
}

func (r *recorder) OnGraphChange(g *graphmodel.Graph, opts UpdateOptions) {
	r.changes = append(r.changes, opts)
	r.nodes = g.NodeCount()
}

func (r *recorder) OnTick(*graphmodel.Graph) { r.ticks++ }

type fixture struct {
	c      *Controller
	sched  *forcesim.ManualScheduler
	rec    *recorder
	events []string
	zooms  []ZoomEvent
	expand []string
}

func newFixture(t *testing.T, g *graphmodel.Graph, opts Options) *fixture {
	t.Helper()
	f := &fixture{sched: forcesim.NewManualScheduler(), rec: &recorder{}}
	ev := Events{
		OnItemSelected: func(i Item) { f.events = append(f.events, "select:"+i.Kind.String()+":"+i.ID()) },
		OnItemHovered:  func(i Item) { f.events = append(f.events, "hover:"+i.Kind.String()+":"+i.ID()) },
		OnNodeExpandRequested: func(n *graphmodel.NodeModel, gen uint64) {
			f.expand = append(f.expand, n.ID)
		},
		OnZoom:          func(z ZoomEvent) { f.zooms = append(f.zooms, z) },
		OnSimulationEnd: func() { f.events = append(f.events, "end") },
	}
	f.c = New(g, graphstyle.New(), f.sched, opts, ev, f.rec)
	f.c.Resize(false, 800, 600)
	return f
}

func pair() *graphmodel.Graph {
	g := graphmodel.New().AddNodes(
		graphmodel.NewNode("1", []string{"Person"}, nil),
		graphmodel.NewNode("2", []string{"Person"}, nil),
	)
	g.AddRelationships(graphmodel.NewRelationship("r1", "1", "2", "KNOWS", nil))
	return g
}

func TestInit(t *testing.T) {
	t.Run("binds, precomputes and schedules one frame", func(t *testing.T) {
		f := newFixture(t, pair(), DefaultOptions())
		f.c.Init()

		assert.True(t, f.c.Bound())
		assert.Equal(t, uint64(1), f.c.Generation())
		require.Len(t, f.rec.changes, 1)
		assert.Equal(t, UpdateOptions{UpdateNodes: true, UpdateRelationships: true}, f.rec.changes[0])
		assert.Equal(t, 25.0, f.c.Graph().Node("1").Radius)
		assert.NotNil(t, f.c.Graph().Relationship("r1").Arrow)
		assert.True(t, f.c.Graph().Node("1").Positioned)
	})

	t.Run("second init rebuilds without leaking the first frame", func(t *testing.T) {
		g := pair()
		g.AddNodes(graphmodel.NewNode("3", nil, nil))
		f := newFixture(t, g, DefaultOptions())
		f.c.Init()
		f.c.Init()
		assert.Equal(t, uint64(2), f.c.Generation())
		assert.LessOrEqual(t, f.sched.Pending(), 1)
		assert.Len(t, f.rec.changes, 2)
	})

	t.Run("empty graph renders nothing", func(t *testing.T) {
		f := newFixture(t, graphmodel.New(), DefaultOptions())
		assert.NotPanics(t, f.c.Init)
		assert.False(t, f.c.Ticking())
		assert.Zero(t, f.sched.Pending())
		assert.Zero(t, f.rec.nodes)
		f.c.ZoomToFitClick()
		assert.Empty(t, f.zooms)
	})

	t.Run("session id is a uuid", func(t *testing.T) {
		f := newFixture(t, pair(), DefaultOptions())
		_, err := uuid.Parse(f.c.Session())
		assert.NoError(t, err)
	})
}

func TestSimulationLoop(t *testing.T) {
	opts := DefaultOptions()
	opts.Simulation.PrecomputeTicks = 5
	f := newFixture(t, pair(), opts)
	f.c.Init()
	require.True(t, f.c.Ticking())

	rounds := f.sched.RunUntilIdle(1000)
	assert.Greater(t, rounds, 0)
	assert.False(t, f.c.Ticking())
	assert.Contains(t, f.events, "end")
	assert.Greater(t, f.rec.ticks, rounds)
}

func TestRelationshipOnlyUpdateKeepsPositions(t *testing.T) {
	g := pair()
	g.AddNodes(graphmodel.NewNode("3", nil, nil))
	f := newFixture(t, g, DefaultOptions())
	f.c.Init()
	f.sched.RunUntilIdle(1000)

	before := map[string][2]float64{}
	for _, n := range g.Nodes() {
		before[n.ID] = [2]float64{n.X, n.Y}
	}
	err := f.c.ApplyInternalRelationships(f.c.Generation(), []*graphmodel.RelationshipModel{
		graphmodel.NewRelationship("r2", "2", "3", "KNOWS", nil),
	})
	require.NoError(t, err)
	assert.True(t, g.Relationship("r2").Internal)
	assert.NotNil(t, g.Relationship("r2").Arrow)
	assert.False(t, f.c.Ticking())
	f.sched.RunUntilIdle(10)
	for _, n := range g.Nodes() {
		assert.Equal(t, before[n.ID], [2]float64{n.X, n.Y}, n.ID)
	}
	last := f.rec.changes[len(f.rec.changes)-1]
	assert.Equal(t, UpdateOptions{UpdateRelationships: true}, last)
}

func TestResizeKeepsCentre(t *testing.T) {
	f := newFixture(t, pair(), DefaultOptions())
	f.c.Pan(120, -40)
	f.c.ZoomAt(1.5, 100, 100)
	f.c.EndZoom()
	w, h := f.c.Viewport()
	centre := f.c.ScreenToWorld(w/2, h/2)

	f.c.Resize(true, 1200, 900)
	after := f.c.ScreenToWorld(600, 450)
	assert.InDelta(t, centre.X, after.X, 1e-9)
	assert.InDelta(t, centre.Y, after.Y, 1e-9)
	assert.True(t, f.c.Fullscreen())
}

func TestZoom(t *testing.T) {
	t.Run("clicks clamp and flag the limits", func(t *testing.T) {
		f := newFixture(t, pair(), DefaultOptions())
		for range 10 {
			f.c.ZoomInClick()
		}
		assert.Equal(t, 2.0, f.c.Scale())
		in, out := f.c.ZoomLimits()
		assert.True(t, in)
		assert.False(t, out)
		assert.Equal(t, ZoomIdle, f.c.ZoomState())

		just := 0
		for _, z := range f.zooms {
			if z.LimitJustReached {
				just++
			}
		}
		assert.Equal(t, 1, just)

		f.c.ZoomOutClick()
		assert.InDelta(t, 1.4, f.c.Scale(), 1e-9)
		in, _ = f.c.ZoomLimits()
		assert.False(t, in)

		for range 20 {
			f.c.ZoomOutClick()
		}
		assert.Equal(t, 0.1, f.c.Scale())
		_, out = f.c.ZoomLimits()
		assert.True(t, out)
	})

	t.Run("zoom keeps the point under the cursor", func(t *testing.T) {
		f := newFixture(t, pair(), DefaultOptions())
		p := f.c.ScreenToWorld(200, 150)
		f.c.Wheel(1.3, 200, 150)
		q := f.c.WorldToScreen(p)
		assert.InDelta(t, 200, q.X, 1e-9)
		assert.InDelta(t, 150, q.Y, 1e-9)
	})

	t.Run("gesture states", func(t *testing.T) {
		f := newFixture(t, pair(), DefaultOptions())
		f.c.BeginZoom()
		assert.Equal(t, ZoomZooming, f.c.ZoomState())
		f.c.ZoomAt(1.1, 0, 0)
		assert.Empty(t, f.zooms)
		f.c.EndZoom()
		assert.Equal(t, ZoomIdle, f.c.ZoomState())
		assert.Len(t, f.zooms, 1)
	})
}

func TestZoomToFit(t *testing.T) {
	t.Run("fits the node box with padding", func(t *testing.T) {
		g := pair()
		f := newFixture(t, g, DefaultOptions())
		f.c.Init()
		g.Node("1").X, g.Node("1").Y = -300, 0
		g.Node("2").X, g.Node("2").Y = 300, 0
		f.c.ZoomToFitClick()

		k := f.c.Scale()
		assert.InDelta(t, 0.95*800/650, math.Min(k, 2), 1e-9)
		left := f.c.WorldToScreen(graphmodel.Point{X: -325, Y: 0})
		right := f.c.WorldToScreen(graphmodel.Point{X: 325, Y: 0})
		assert.InDelta(t, 400, (left.X+right.X)/2, 1e-9)
		assert.Greater(t, left.X, 0.0)
		assert.Less(t, right.X, 800.0)
	})

	t.Run("lowers the minimum scale for huge graphs", func(t *testing.T) {
		g := pair()
		f := newFixture(t, g, DefaultOptions())
		f.c.Init()
		g.Node("1").X = -50000
		g.Node("2").X = 50000
		f.c.ZoomToFitClick()

		min, _ := f.c.ScaleExtent()
		assert.Less(t, min, 0.1)
		assert.Equal(t, min, f.c.Scale())
		require.NotEmpty(t, f.zooms)
		assert.True(t, f.zooms[len(f.zooms)-1].FitLoweredMinScale)
	})
}

func TestDestroy(t *testing.T) {
	f := newFixture(t, pair(), DefaultOptions())
	f.c.Init()
	gen := f.c.Generation()
	f.c.Destroy()

	assert.False(t, f.c.Bound())
	assert.Zero(t, f.sched.Pending())
	added, err := f.c.ApplyExpansion(gen, "1", graphmodel.Batch{Nodes: []*graphmodel.NodeModel{graphmodel.NewNode("9", nil, nil)}})
	assert.ErrorIs(t, err, ErrStale)
	assert.Zero(t, added)
	assert.Nil(t, f.c.Graph().Node("9"))
	assert.ErrorIs(t, f.c.ApplyInternalRelationships(gen, nil), ErrStale)
	assert.NotPanics(t, func() {
		f.c.Init()
		f.c.Update(UpdateOptions{UpdateNodes: true})
		f.c.Destroy()
	})
}

func TestStaleGenerationAfterRebind(t *testing.T) {
	f := newFixture(t, pair(), DefaultOptions())
	f.c.Init()
	gen := f.c.Generation()
	f.c.Init()
	err := f.c.ApplyInternalRelationships(gen, []*graphmodel.RelationshipModel{
		graphmodel.NewRelationship("r9", "2", "1", "KNOWS", nil),
	})
	assert.ErrorIs(t, err, ErrStale)
	assert.Nil(t, f.c.Graph().Relationship("r9"))
}

func TestExpandCollapse(t *testing.T) {
	g := pair()
	f := newFixture(t, g, DefaultOptions())
	f.c.Init()

	f.c.ToggleExpand("1")
	require.Equal(t, []string{"1"}, f.expand)

	batch := graphmodel.Batch{
		Nodes: []*graphmodel.NodeModel{
			graphmodel.NewNode("2", nil, nil),
			graphmodel.NewNode("a", nil, nil),
			graphmodel.NewNode("b", nil, nil),
		},
		Relationships: []*graphmodel.RelationshipModel{
			graphmodel.NewRelationship("ra", "1", "a", "HAS", nil),
			graphmodel.NewRelationship("rb", "1", "b", "HAS", nil),
		},
	}
	added, err := f.c.ApplyExpansion(f.c.Generation(), "1", batch)
	require.NoError(t, err)
	assert.Equal(t, 2, added, "node 2 was already shown")
	assert.Equal(t, 4, g.NodeCount())
	assert.True(t, g.Node("1").Expanded)
	assert.Equal(t, []string{"a", "b"}, g.ExpandedChildren("1"))
	assert.True(t, g.Node("a").Positioned)

	f.c.ToggleExpand("1")
	assert.Equal(t, 2, g.NodeCount())
	assert.Nil(t, g.Relationship("ra"))
	assert.NotNil(t, g.Relationship("r1"))
	assert.False(t, g.Node("1").Expanded)
}

func TestSelectHoverDismiss(t *testing.T) {
	g := pair()
	f := newFixture(t, g, DefaultOptions())
	f.c.Init()
	f.sched.RunUntilIdle(1000)

	n := g.Node("1")
	s := f.c.WorldToScreen(graphmodel.Point{X: n.X, Y: n.Y})
	item := f.c.Click(s.X, s.Y)
	require.Equal(t, ItemNode, item.Kind)
	assert.True(t, n.Selected)

	f.c.Hover(s.X, s.Y)
	f.c.Hover(s.X, s.Y)
	assert.True(t, n.Hovered)

	f.c.Click(-10000, -10000)
	assert.False(t, n.Selected)
	assert.Equal(t, ItemCanvas, f.c.Selected().Kind)
	assert.Equal(t, 2, f.c.Selected().NodeCount)

	f.c.Click(s.X, s.Y)
	f.c.Dismiss("1")
	assert.Nil(t, g.Node("1"))
	assert.Zero(t, g.RelationshipCount())
	assert.Equal(t, ItemCanvas, f.c.Selected().Kind)

	assert.Equal(t, []string{
		"select:node:1",
		"hover:node:1",
		"select:canvas:",
		"select:node:1",
		"select:canvas:",
	}, filter(f.events, "end"))
}

func filter(events []string, drop string) []string {
	var out []string
	for _, e := range events {
		if e != drop {
			out = append(out, e)
		}
	}
	return out
}

func TestDragPins(t *testing.T) {
	g := pair()
	f := newFixture(t, g, DefaultOptions())
	f.c.Init()
	f.sched.RunUntilIdle(1000)

	n := g.Node("2")
	s := f.c.WorldToScreen(graphmodel.Point{X: n.X, Y: n.Y})
	require.True(t, f.c.DragStart(s.X, s.Y))
	assert.True(t, f.c.Ticking())
	f.c.DragMove(10, 20)
	f.c.DragEnd()
	f.sched.RunUntilIdle(1000)

	w := f.c.ScreenToWorld(10, 20)
	assert.True(t, n.Fixed)
	assert.InDelta(t, w.X, n.X, 1e-9)
	assert.InDelta(t, w.Y, n.Y, 1e-9)
	assert.False(t, f.c.DragStart(-10000, -10000))

	f.c.TogglePin("2")
	assert.False(t, n.Fixed)
}

func TestLoadDisplayLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialNodeDisplay = 2
	f := newFixture(t, graphmodel.New(), opts)
	err := f.c.Load(graphmodel.Records{
		Nodes: []graphmodel.NodeRecord{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		Relationships: []graphmodel.RelationshipRecord{
			{ID: "r1", Type: "T", StartNodeID: "1", EndNodeID: "2"},
			{ID: "r2", Type: "T", StartNodeID: "2", EndNodeID: "3"},
		},
	})
	require.NoError(t, err)
	assert.True(t, f.c.NotAllNodesShown())
	assert.Equal(t, 2, f.c.Graph().NodeCount())
	assert.Equal(t, 1, f.c.Graph().RelationshipCount())
}

func TestLoadDisplayLimitIgnoresShownNodes(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialNodeDisplay = 3
	f := newFixture(t, graphmodel.New(), opts)
	require.NoError(t, f.c.Load(graphmodel.Records{
		Nodes: []graphmodel.NodeRecord{{ID: "1"}, {ID: "2"}},
	}))
	require.NoError(t, f.c.Load(graphmodel.Records{
		Nodes: []graphmodel.NodeRecord{{ID: "1"}, {ID: "2"}, {ID: "3"}},
	}))

	assert.Equal(t, 3, f.c.Graph().NodeCount())
	assert.NotNil(t, f.c.Graph().Node("3"))
	assert.False(t, f.c.NotAllNodesShown())

	require.NoError(t, f.c.Load(graphmodel.Records{
		Nodes: []graphmodel.NodeRecord{{ID: "3"}, {ID: "4"}},
	}))
	assert.Equal(t, 3, f.c.Graph().NodeCount())
	assert.Nil(t, f.c.Graph().Node("4"))
	assert.True(t, f.c.NotAllNodesShown())
}

func TestLayoutTree(t *testing.T) {
	g := pair()
	f := newFixture(t, g, DefaultOptions())
	f.c.Init()
	res := f.c.LayoutTree(treelayout.DefaultOptions())

	assert.Equal(t, 0, res.Cells["1"].Row)
	assert.Equal(t, 1, res.Cells["2"].Row)
	assert.True(t, g.Node("1").Fixed)
	f.sched.RunUntilIdle(1000)
	assert.Equal(t, 0.0, g.Node("1").Y)
	assert.Equal(t, 250.0, g.Node("2").Y)
}
