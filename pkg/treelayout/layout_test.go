package treelayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wesen/neograph/pkg/graphmodel"
)

func build(nodeIDs []string, edges ...[2]string) *graphmodel.Graph {
	g := graphmodel.New()
	for _, id := range nodeIDs {
		g.AddNodes(graphmodel.NewNode(id, nil, nil))
	}
	for i, e := range edges {
		g.AddRelationships(graphmodel.NewRelationship(string(rune('a'+i)), e[0], e[1], "T", nil))
	}
	return g
}

func TestSingleEdge(t *testing.T) {
	g := build([]string{"1", "2"}, [2]string{"1", "2"})
	res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())

	assert.Equal(t, []string{"1"}, res.Roots)
	assert.Equal(t, 0, res.Cells["1"].Row)
	assert.Equal(t, 1, res.Cells["2"].Row)
	assert.True(t, g.Node("1").Fixed)
	assert.True(t, g.Node("2").Fixed)
	assert.Equal(t, 0.0, g.Node("1").Y)
	assert.Equal(t, 250.0, g.Node("2").Y)
	assert.Equal(t, g.Node("2").Y, g.Node("2").FY)
}

func TestParentCentredOverChildren(t *testing.T) {
	g := build([]string{"r", "a", "b", "c"},
		[2]string{"r", "a"}, [2]string{"r", "b"}, [2]string{"r", "c"})
	res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())

	assert.Equal(t, Cell{Row: 1, Column: 0}, res.Cells["a"])
	assert.Equal(t, Cell{Row: 1, Column: 1}, res.Cells["b"])
	assert.Equal(t, Cell{Row: 1, Column: 2}, res.Cells["c"])
	assert.Equal(t, Cell{Row: 0, Column: 1}, res.Cells["r"])
	assert.Equal(t, 200.0, g.Node("r").X)

	g2 := build([]string{"r", "a", "b"}, [2]string{"r", "a"}, [2]string{"r", "b"})
	res2 := LayoutGraphWithRootNodeOnTop(g2, DefaultOptions())
	assert.Equal(t, 0.5, res2.Cells["r"].Column)
}

func TestSiblingSubtreesDoNotOverlap(t *testing.T) {
	g := build([]string{"r", "a", "b", "a1", "a2", "b1"},
		[2]string{"r", "a"}, [2]string{"r", "b"},
		[2]string{"a", "a1"}, [2]string{"a", "a2"}, [2]string{"b", "b1"})
	res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())

	seen := make(map[Cell]string)
	for id, c := range res.Cells {
		other, dup := seen[c]
		require.False(t, dup, "%s and %s share %v", id, other, c)
		seen[c] = id
	}
	assert.Equal(t, 2, res.Cells["b1"].Row)
	assert.Greater(t, res.Cells["b1"].Column, res.Cells["a2"].Column)
}

func TestSecondRootRow(t *testing.T) {
	g := build([]string{"r", "a", "b", "s"},
		[2]string{"r", "a"}, [2]string{"a", "b"}, [2]string{"s", "b"})
	res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())

	assert.Equal(t, []string{"r", "s"}, res.Roots)
	assert.Equal(t, 2, res.Cells["b"].Row)
	assert.Equal(t, 1, res.Cells["s"].Row, "one row above its placed neighbour")

	g2 := build([]string{"r", "a", "s", "t"}, [2]string{"r", "a"}, [2]string{"s", "t"})
	res2 := LayoutGraphWithRootNodeOnTop(g2, DefaultOptions())
	assert.Equal(t, 0, res2.Cells["s"].Row)
	assert.Equal(t, 1.0, res2.Cells["s"].Column)
}

func TestDeterminism(t *testing.T) {
	edges := [][2]string{
		{"1", "2"}, {"1", "3"}, {"2", "4"}, {"3", "4"}, {"5", "3"}, {"4", "6"},
	}
	nodes := []string{"1", "2", "3", "4", "5", "6"}
	first := LayoutGraphWithRootNodeOnTop(build(nodes, edges...), DefaultOptions())
	for range 5 {
		again := LayoutGraphWithRootNodeOnTop(build(nodes, edges...), DefaultOptions())
		assert.Equal(t, first.Cells, again.Cells)
	}
}

func TestRowMonotonicityOnPlacedEdges(t *testing.T) {
	edges := [][2]string{
		{"1", "2"}, {"1", "3"}, {"2", "4"}, {"3", "4"}, {"5", "3"}, {"4", "6"}, {"6", "7"},
	}
	g := build([]string{"1", "2", "3", "4", "5", "6", "7"}, edges...)
	res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())

	for _, e := range edges {
		if !res.PlacedEdge(e[0], e[1]) {
			continue
		}
		assert.GreaterOrEqual(t, res.Cells[e[1]].Row, res.Cells[e[0]].Row+1, "%s->%s", e[0], e[1])
	}
	assert.Len(t, res.Parent, 5)
}

func TestShallowestParentWins(t *testing.T) {
	g := build([]string{"r", "a", "b"},
		[2]string{"r", "a"}, [2]string{"a", "b"}, [2]string{"r", "b"})
	res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())

	assert.Equal(t, Cell{Row: 0, Column: 0.5}, res.Cells["r"])
	assert.Equal(t, Cell{Row: 1, Column: 0}, res.Cells["a"])
	assert.Equal(t, Cell{Row: 1, Column: 1}, res.Cells["b"])
	assert.Equal(t, "r", res.Parent["b"])
	assert.False(t, res.PlacedEdge("a", "b"))

	g2 := build([]string{"r", "a", "b", "c", "d"},
		[2]string{"r", "a"}, [2]string{"a", "b"}, [2]string{"b", "c"},
		[2]string{"c", "d"}, [2]string{"r", "c"})
	res2 := LayoutGraphWithRootNodeOnTop(g2, DefaultOptions())
	assert.Equal(t, 1, res2.Cells["c"].Row)
	assert.Equal(t, 2, res2.Cells["d"].Row)
	assert.Equal(t, 2, res2.Cells["b"].Row)
}

func TestCycles(t *testing.T) {
	t.Run("cycle below a root terminates", func(t *testing.T) {
		g := build([]string{"r", "a", "b"},
			[2]string{"r", "a"}, [2]string{"a", "b"}, [2]string{"b", "a"})
		res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())
		assert.Len(t, res.Cells, 3)
		assert.Equal(t, 2, res.Cells["b"].Row)
	})

	t.Run("root-less cycle is left alone", func(t *testing.T) {
		g := build([]string{"a", "b"}, [2]string{"a", "b"}, [2]string{"b", "a"})
		res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())
		assert.Empty(t, res.Roots)
		assert.Empty(t, res.Cells)
		assert.False(t, g.Node("a").Fixed)
	})

	t.Run("self loop", func(t *testing.T) {
		g := build([]string{"r", "a"}, [2]string{"r", "a"}, [2]string{"a", "a"})
		res := LayoutGraphWithRootNodeOnTop(g, DefaultOptions())
		assert.Equal(t, 1, res.Cells["a"].Row)
	})
}

func TestSortedOrder(t *testing.T) {
	edgesA := [][2]string{{"z", "1"}, {"a", "2"}}
	edgesB := [][2]string{{"a", "2"}, {"z", "1"}}
	opts := DefaultOptions()
	opts.RootOrder = SortedOrder

	resA := LayoutGraphWithRootNodeOnTop(build([]string{"a", "z", "1", "2"}, edgesA...), opts)
	resB := LayoutGraphWithRootNodeOnTop(build([]string{"a", "z", "1", "2"}, edgesB...), opts)
	assert.Equal(t, []string{"a", "z"}, resA.Roots)
	assert.Equal(t, resA.Cells, resB.Cells)

	order, err := ParseRootOrder("Sorted")
	require.NoError(t, err)
	assert.Equal(t, SortedOrder, order)
	_, err = ParseRootOrder("random")
	assert.Error(t, err)
}

func TestEmptyGraph(t *testing.T) {
	res := LayoutGraphWithRootNodeOnTop(graphmodel.New(), DefaultOptions())
	assert.Empty(t, res.Cells)
}
