// Package treelayout places a graph root-down on a grid: roots (sources that
// are never targets) on row 0, each node one row below its shallowest
// parent, parents centred over their children.
package treelayout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wesen/neograph/pkg/graphmodel"
)

// RootOrder decides the order roots and children are visited in. It also
// decides which edge breaks a cycle.
type RootOrder int

const (
	// DiscoveryOrder visits ids in relationship-iteration order.
	DiscoveryOrder RootOrder = iota
	// SortedOrder visits ids lexically, independent of iteration order.
	SortedOrder
)

func (o RootOrder) String() string {
	switch o {
	case SortedOrder:
		return "sorted"
	default:
		return "discovery"
	}
}

// ParseRootOrder accepts "discovery" or "sorted".
func ParseRootOrder(s string) (RootOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discovery":
		return DiscoveryOrder, nil
	case "sorted":
		return SortedOrder, nil
	}
	return DiscoveryOrder, fmt.Errorf("unknown root order %q", s)
}

// Options configures the grid.
type Options struct {
	RowSpacing    float64
	ColumnSpacing float64
	RootOrder     RootOrder
}

// DefaultOptions returns 250px rows and 200px columns.
func DefaultOptions() Options {
	return Options{RowSpacing: 250, ColumnSpacing: 200}
}

// Cell is a grid slot. Columns are fractional when a parent is centred
// over an even number of children.
type Cell struct {
	Row    int
	Column float64
}

// Result is the outcome of one layout pass.
type Result struct {
	Cells map[string]Cell
	Roots []string
	// Parent maps a placed node to the node whose edge placed it. Roots
	// have no entry.
	Parent map[string]string
}

// PlacedEdge reports whether the edge from -> to is the one that placed to.
func (r Result) PlacedEdge(from, to string) bool {
	p, ok := r.Parent[to]
	return ok && p == from
}

// LayoutGraphWithRootNodeOnTop assigns a cell to every node reachable from a
// root, moves the node to the cell's pixel position and pins it there.
// Nodes in root-less cycles and nodes without relationships are untouched.
func LayoutGraphWithRootNodeOnTop(g *graphmodel.Graph, opts Options) Result {
	l := newLayouter(g, opts)
	for i, root := range l.roots {
		row := 0
		if i > 0 {
			row = l.findRowForNode(root)
		}
		l.placeTree(root, row)
	}

	for id, c := range l.cells {
		n := g.Node(id)
		if n == nil {
			continue
		}
		n.PinAt(c.Column*opts.ColumnSpacing, float64(c.Row)*opts.RowSpacing)
	}
	return Result{Cells: l.cells, Roots: l.roots, Parent: l.parent}
}

type layouter struct {
	g          *graphmodel.Graph
	out        map[string][]string
	roots      []string
	cells      map[string]Cell
	parent     map[string]string
	visited    map[string]bool
	nextColumn map[int]float64
}

func newLayouter(g *graphmodel.Graph, opts Options) *layouter {
	l := &layouter{
		g:          g,
		out:        make(map[string][]string),
		cells:      make(map[string]Cell),
		parent:     make(map[string]string),
		visited:    make(map[string]bool),
		nextColumn: make(map[int]float64),
	}

	var sources []string
	seenSource := make(map[string]bool)
	seenEdge := make(map[[2]string]bool)
	targets := make(map[string]bool)
	for _, r := range g.Relationships() {
		if !seenSource[r.SourceID] {
			seenSource[r.SourceID] = true
			sources = append(sources, r.SourceID)
		}
		targets[r.TargetID] = true
		edge := [2]string{r.SourceID, r.TargetID}
		if seenEdge[edge] {
			continue
		}
		seenEdge[edge] = true
		l.out[r.SourceID] = append(l.out[r.SourceID], r.TargetID)
	}
	for _, id := range sources {
		if !targets[id] {
			l.roots = append(l.roots, id)
		}
	}

	if opts.RootOrder == SortedOrder {
		sort.Strings(l.roots)
		for id := range l.out {
			sort.Strings(l.out[id])
		}
	}
	return l
}

// placeTree claims every unvisited node reachable from root breadth-first,
// so each node hangs under a parent on the shallowest path, then assigns
// cells to the resulting tree.
func (l *layouter) placeTree(root string, row int) {
	children := make(map[string][]string)
	l.visited[root] = true
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range l.out[id] {
			if l.visited[child] {
				continue
			}
			l.visited[child] = true
			l.parent[child] = id
			children[id] = append(children[id], child)
			queue = append(queue, child)
		}
	}
	l.place(root, row, children)
}

// place puts id on row after its subtree and returns the cell of id.
func (l *layouter) place(id string, row int, children map[string][]string) Cell {
	kids := children[id]
	var first Cell
	for i, child := range kids {
		c := l.place(child, row+1, children)
		if i == 0 {
			first = c
		}
	}

	column := l.nextColumn[row]
	if len(kids) > 0 {
		column = max(column, first.Column+float64(len(kids)-1)/2)
	}
	cell := Cell{Row: row, Column: column}
	l.cells[id] = cell
	l.nextColumn[row] = column + 1
	return cell
}

// findRowForNode returns one row above the shallowest placed neighbour of
// id, or 0.
func (l *layouter) findRowForNode(id string) int {
	best := -1
	for _, nb := range l.g.FindNodeNeighbourIDs(id) {
		c, ok := l.cells[nb]
		if !ok {
			continue
		}
		if best < 0 || c.Row < best {
			best = c.Row
		}
	}
	if best <= 0 {
		return 0
	}
	return best - 1
}
