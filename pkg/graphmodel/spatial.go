package graphmodel

import "math"

// Bounds is an axis-aligned world rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// NodeBounds returns the bounding box of all nodes including their radius.
// ok is false for an empty graph.
func (g *Graph) NodeBounds() (b Bounds, ok bool) {
	b = Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		b.MinX = math.Min(b.MinX, n.X-n.Radius)
		b.MinY = math.Min(b.MinY, n.Y-n.Radius)
		b.MaxX = math.Max(b.MaxX, n.X+n.Radius)
		b.MaxY = math.Max(b.MaxY, n.Y+n.Radius)
	}
	return b, len(g.nodeOrder) > 0
}

// HitTest returns the topmost (last-inserted) node containing the world
// point, or nil.
func (g *Graph) HitTest(x, y float64) *NodeModel {
	for i := len(g.nodeOrder) - 1; i >= 0; i-- {
		n := g.nodes[g.nodeOrder[i]]
		if n.Contains(x, y) {
			return n
		}
	}
	return nil
}

// HitTestRelationship returns the relationship whose arrow midpoint is
// within tolerance of the world point, or nil.
func (g *Graph) HitTestRelationship(x, y, tolerance float64) *RelationshipModel {
	var best *RelationshipModel
	bestDist := tolerance
	for _, id := range g.relOrder {
		r := g.rels[id]
		if r.Arrow == nil {
			continue
		}
		d := math.Hypot(x-r.Arrow.Mid.X, y-r.Arrow.Mid.Y)
		if d <= bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// NodesInBounds returns nodes whose circle intersects b, in insertion order.
func (g *Graph) NodesInBounds(b Bounds) []*NodeModel {
	var result []*NodeModel
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if n.X+n.Radius >= b.MinX && n.X-n.Radius <= b.MaxX &&
			n.Y+n.Radius >= b.MinY && n.Y-n.Radius <= b.MaxY {
			result = append(result, n)
		}
	}
	return result
}
