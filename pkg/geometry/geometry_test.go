package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/graphstyle"
	"github.com/wesen/neograph/pkg/textmeasure"
)

func newGeometry() *Geometry {
	return New(graphstyle.New(), textmeasure.NewCache(100), textmeasure.DefaultCellContext)
}

func placed(id string, x, y float64, props ...graphmodel.Property) *graphmodel.NodeModel {
	n := graphmodel.NewNode(id, []string{"Person"}, props)
	n.X, n.Y, n.Positioned = x, y, true
	return n
}

func TestNodeFormatting(t *testing.T) {
	t.Run("radius and short caption", func(t *testing.T) {
		g := graphmodel.New().AddNodes(placed("1", 0, 0, graphmodel.Property{Key: "name", Value: "Keanu"}))
		newGeometry().OnGraphChange(g, true, false)

		n := g.Node("1")
		assert.Equal(t, 25.0, n.Radius)
		assert.Equal(t, "Keanu", n.Caption)
		require.Len(t, n.CaptionLines, 1)
		assert.Equal(t, graphmodel.CaptionLine{Text: "Keanu", Baseline: 0}, n.CaptionLines[0])
	})

	t.Run("long caption wraps and is cut", func(t *testing.T) {
		long := "The quick brown fox jumps over the lazy dog again and again and again"
		g := graphmodel.New().AddNodes(placed("1", 0, 0, graphmodel.Property{Key: "name", Value: long}))
		newGeometry().OnGraphChange(g, true, false)

		lines := g.Node("1").CaptionLines
		require.Len(t, lines, 3)
		assert.True(t, strings.HasSuffix(lines[2].Text, "…"), lines[2].Text)
		assert.Less(t, lines[0].Baseline, lines[2].Baseline)
		assert.Equal(t, 0.0, lines[1].Baseline)
	})

	t.Run("diameter from the style", func(t *testing.T) {
		s := graphstyle.New()
		s.ChangeForSelector(graphstyle.ParseSelector("node.Person"), graphstyle.Props{"diameter": "80px"})
		g := graphmodel.New().AddNodes(placed("1", 0, 0))
		New(s, nil, nil).OnGraphChange(g, true, false)
		assert.Equal(t, 40.0, g.Node("1").Radius)
	})
}

func twoNodes(distance float64) *graphmodel.Graph {
	return graphmodel.New().AddNodes(placed("A", 0, 0), placed("B", distance, 0))
}

func TestStraightArrow(t *testing.T) {
	g := twoNodes(300)
	g.AddRelationships(graphmodel.NewRelationship("r1", "A", "B", "ACTED_IN", nil))
	geo := newGeometry()
	geo.OnGraphChange(g, true, true)
	geo.OnTick(g)

	r := g.Relationship("r1")
	require.NotNil(t, r.Arrow)
	assert.Equal(t, graphmodel.ArrowStraight, r.Arrow.Kind)
	assert.Equal(t, 0.0, r.NaturalAngle)
	assert.Equal(t, 300.0, r.CentreDistance)
	assert.InDelta(t, 25, r.Arrow.Start.X, 1e-9)
	assert.InDelta(t, 275, r.Arrow.End.X, 1e-9)
	assert.Equal(t, "ACTED_IN", r.ShortCaption)
	assert.Equal(t, graphmodel.CaptionExternal, r.CaptionLayout)
}

func TestCaptionShortenedOnShortShaft(t *testing.T) {
	g := twoNodes(100)
	g.AddRelationships(graphmodel.NewRelationship("r1", "A", "B", "ACTED_IN", nil))
	geo := newGeometry()
	geo.OnGraphChange(g, true, true)
	geo.OnTick(g)

	r := g.Relationship("r1")
	assert.Equal(t, "ACTED_…", r.ShortCaption)

	// Nodes touching leave no room at all.
	g.Node("B").X = 50
	geo.OnTick(g)
	assert.Equal(t, "", r.ShortCaption)
}

func TestBundles(t *testing.T) {
	t.Run("antiparallel pair bows to opposite sides", func(t *testing.T) {
		g := twoNodes(300)
		g.AddRelationships(
			graphmodel.NewRelationship("r1", "A", "B", "T", nil),
			graphmodel.NewRelationship("r2", "B", "A", "T", nil),
		)
		geo := newGeometry()
		geo.OnGraphChange(g, true, true)
		geo.OnTick(g)

		a1, a2 := g.Relationship("r1").Arrow, g.Relationship("r2").Arrow
		assert.Equal(t, graphmodel.ArrowArc, a1.Kind)
		assert.Equal(t, graphmodel.ArrowArc, a2.Kind)
		assert.Equal(t, 180.0, g.Relationship("r2").NaturalAngle)
		assert.Less(t, a1.Mid.Y*a2.Mid.Y, 0.0, "mid points on opposite sides")
	})

	t.Run("odd bundle keeps a straight middle", func(t *testing.T) {
		g := twoNodes(300)
		for _, id := range []string{"r1", "r2", "r3"} {
			g.AddRelationships(graphmodel.NewRelationship(id, "A", "B", "T", nil))
		}
		geo := newGeometry()
		geo.OnGraphChange(g, true, true)
		geo.OnTick(g)

		assert.Equal(t, graphmodel.ArrowArc, g.Relationship("r1").Arrow.Kind)
		assert.Equal(t, graphmodel.ArrowStraight, g.Relationship("r2").Arrow.Kind)
		assert.Equal(t, graphmodel.ArrowArc, g.Relationship("r3").Arrow.Kind)
		assert.Equal(t, -30.0, g.Relationship("r1").Arrow.Deflection)
		assert.Equal(t, 30.0, g.Relationship("r3").Arrow.Deflection)
	})

	t.Run("large bundles share the maximum deflection", func(t *testing.T) {
		g := twoNodes(300)
		ids := []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"}
		for _, id := range ids {
			g.AddRelationships(graphmodel.NewRelationship(id, "A", "B", "T", nil))
		}
		geo := newGeometry()
		geo.OnGraphChange(g, true, true)
		geo.OnTick(g)
		first := g.Relationship("r1").Arrow.Deflection
		last := g.Relationship("r7").Arrow.Deflection
		assert.InDelta(t, 150, last-first, 1e-9)
	})
}

func TestLoops(t *testing.T) {
	g := twoNodes(300)
	g.AddRelationships(
		graphmodel.NewRelationship("out", "A", "B", "T", nil),
		graphmodel.NewRelationship("self", "A", "A", "T", nil),
	)
	geo := newGeometry()
	geo.OnGraphChange(g, true, true)
	geo.OnTick(g)

	loop := g.Relationship("self")
	require.NotNil(t, loop.Arrow)
	assert.Equal(t, graphmodel.ArrowLoop, loop.Arrow.Kind)
	assert.Equal(t, 180.0, loop.NaturalAngle, "opposite the only other relationship")
	assert.Less(t, loop.Arrow.Mid.X, -25.0)
	assert.InDelta(t, 0, loop.Arrow.Mid.Y, 1e-9)
}

func TestBiggestGap(t *testing.T) {
	s, e := biggestGap(nil)
	assert.Equal(t, [2]float64{0, 360}, [2]float64{s, e})

	s, e = biggestGap([]float64{10, 100, 350})
	assert.Equal(t, [2]float64{100, 350}, [2]float64{s, e})

	s, e = biggestGap([]float64{90})
	assert.Equal(t, 90.0, s)
	assert.Equal(t, 450.0, e)
}

func TestArcLengthAndQuadPoint(t *testing.T) {
	a := &graphmodel.Arrow{
		Start:   graphmodel.Point{X: 0, Y: 0},
		Control: graphmodel.Point{X: 50, Y: 0},
		End:     graphmodel.Point{X: 100, Y: 0},
	}
	assert.Equal(t, graphmodel.Point{X: 50, Y: 0}, QuadPoint(a, 0.5))
	assert.InDelta(t, 100, quadLength(a.Start, a.Control, a.End), 1e-9)
	assert.InDelta(t, 1, math.Hypot(unit(37)), 1e-12)
}

func TestEmptyGraph(t *testing.T) {
	g := graphmodel.New()
	geo := newGeometry()
	assert.NotPanics(t, func() {
		geo.OnGraphChange(g, true, true)
		geo.OnTick(g)
	})
}
