package viz

import (
	"errors"

	"github.com/wesen/neograph/pkg/forcesim"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/treelayout"
)

// ErrStale is returned when a background result arrives for an earlier
// binding or after Destroy.
var ErrStale = errors.New("visualization was rebound or destroyed")

// ItemAt returns the node, relationship or canvas under the screen point.
func (c *Controller) ItemAt(sx, sy float64) Item {
	w := c.ScreenToWorld(sx, sy)
	if n := c.graph.HitTest(w.X, w.Y); n != nil {
		return Item{Kind: ItemNode, Node: n}
	}
	tol := c.opts.HitTolerance / c.view.t.K
	if r := c.graph.HitTestRelationship(w.X, w.Y, tol); r != nil {
		return Item{Kind: ItemRelationship, Relationship: r}
	}
	return c.canvasItem()
}

// Selected returns the selected item.
func (c *Controller) Selected() Item { return c.selected }

// Select marks item selected and emits OnItemSelected. Selecting the canvas
// clears the selection.
func (c *Controller) Select(item Item) {
	c.setSelected(false)
	if item.Kind == ItemCanvas {
		item = c.canvasItem()
	}
	c.selected = item
	c.setSelected(true)
	if c.events.OnItemSelected != nil {
		c.events.OnItemSelected(item)
	}
}

// Click selects whatever is under the screen point.
func (c *Controller) Click(sx, sy float64) Item {
	item := c.ItemAt(sx, sy)
	c.Select(item)
	return item
}

func (c *Controller) setSelected(on bool) {
	switch c.selected.Kind {
	case ItemNode:
		c.selected.Node.Selected = on
	case ItemRelationship:
		c.selected.Relationship.Selected = on
	}
}

// Hover marks the item under the screen point hovered. OnItemHovered fires
// only when the hovered item changes.
func (c *Controller) Hover(sx, sy float64) Item {
	item := c.ItemAt(sx, sy)
	if item.Kind == c.hovered.Kind && item.ID() == c.hovered.ID() {
		return item
	}
	switch c.hovered.Kind {
	case ItemNode:
		c.hovered.Node.Hovered = false
	case ItemRelationship:
		c.hovered.Relationship.Hovered = false
	}
	switch item.Kind {
	case ItemNode:
		item.Node.Hovered = true
	case ItemRelationship:
		item.Relationship.Hovered = true
	}
	c.hovered = item
	if c.events.OnItemHovered != nil {
		c.events.OnItemHovered(item)
	}
	return item
}

// TogglePin pins a free node at its position or releases a pinned one.
func (c *Controller) TogglePin(id string) {
	n := c.graph.Node(id)
	if n == nil {
		return
	}
	if n.Fixed {
		n.Unpin()
		if c.Bound() {
			c.sim.Reheat(forcesim.DraggingAlpha)
			c.startTicking()
		}
		return
	}
	n.Pin()
}

// UnpinAll releases every node and restarts the simulation.
func (c *Controller) UnpinAll() {
	for _, n := range c.graph.Nodes() {
		n.Unpin()
	}
	if c.Bound() {
		c.sim.Reheat(forcesim.DefaultAlpha)
		c.startTicking()
	}
}

// DragStart grabs the node at the screen point and keeps the simulation
// warm while it moves. It returns false when no node is there.
func (c *Controller) DragStart(sx, sy float64) bool {
	if !c.Bound() {
		return false
	}
	item := c.ItemAt(sx, sy)
	if item.Kind != ItemNode {
		return false
	}
	c.dragging = item.Node
	c.sim.SetAlphaTarget(forcesim.DraggingAlphaTarget)
	c.sim.Reheat(max(c.sim.Alpha(), forcesim.DraggingAlpha))
	c.startTicking()
	return true
}

// DragMove pins the grabbed node under the screen point.
func (c *Controller) DragMove(sx, sy float64) {
	if c.dragging == nil {
		return
	}
	w := c.ScreenToWorld(sx, sy)
	c.dragging.PinAt(w.X, w.Y)
}

// DragEnd lets the simulation cool. The dragged node stays pinned.
func (c *Controller) DragEnd() {
	if c.dragging == nil {
		return
	}
	c.dragging = nil
	c.sim.SetAlphaTarget(forcesim.DefaultAlphaTarget)
}

// Dragging reports whether a node is grabbed.
func (c *Controller) Dragging() bool { return c.dragging != nil }

// Dismiss removes a node and its relationships from the view.
func (c *Controller) Dismiss(id string) {
	n := c.graph.Node(id)
	if n == nil {
		return
	}
	if c.selected.Kind == ItemNode && c.selected.Node == n {
		c.Select(Item{Kind: ItemCanvas})
	}
	c.graph.RemoveConnectedRelationships(id)
	c.graph.RemoveNode(id)
	c.log.Debug("node dismissed", "node", id)
	c.Update(UpdateOptions{UpdateNodes: true, UpdateRelationships: true})
}

// ToggleExpand collapses an expanded node, or asks the caller to fetch the
// neighbours of a collapsed one through OnNodeExpandRequested.
func (c *Controller) ToggleExpand(id string) {
	n := c.graph.Node(id)
	if n == nil || !c.Bound() {
		return
	}
	if n.Expanded {
		c.graph.CollapseNode(id)
		c.log.Debug("node collapsed", "node", id)
		if c.events.OnNodeCollapsed != nil {
			c.events.OnNodeCollapsed(n)
		}
		c.Update(UpdateOptions{UpdateNodes: true, UpdateRelationships: true})
		return
	}
	if c.events.OnNodeExpandRequested != nil {
		c.events.OnNodeExpandRequested(n, c.generation)
	}
}

// ApplyExpansion adds the neighbours fetched for parentID around it and
// returns how many of them were not shown before. It returns ErrStale when
// generation no longer matches.
func (c *Controller) ApplyExpansion(generation uint64, parentID string, batch graphmodel.Batch) (int, error) {
	if !c.Bound() || generation != c.generation {
		return 0, ErrStale
	}
	parent := c.graph.Node(parentID)
	if parent == nil {
		return 0, nil
	}
	fresh := c.freshNodes(batch.Nodes)
	forcesim.CircularLayout(fresh, parent.X, parent.Y, forcesim.CircleRadius(len(fresh))+parent.Radius*2)
	c.graph.AddExpandedNodes(parentID, fresh...)
	c.graph.AddRelationships(batch.Relationships...)
	parent.Expanded = true
	c.log.Debug("node expanded", "node", parentID, "new_nodes", len(fresh), "relationships", len(batch.Relationships))
	c.Update(UpdateOptions{UpdateNodes: true, UpdateRelationships: true})
	return len(fresh), nil
}

// ApplyInternalRelationships adds relationships discovered between visible
// nodes without moving any node.
func (c *Controller) ApplyInternalRelationships(generation uint64, rels []*graphmodel.RelationshipModel) error {
	if !c.Bound() || generation != c.generation {
		return ErrStale
	}
	before := c.graph.RelationshipCount()
	c.graph.AddInternalRelationships(rels...)
	if c.graph.RelationshipCount() != before {
		c.Update(UpdateOptions{UpdateRelationships: true})
	}
	return nil
}

// Load ingests records, keeping at most InitialNodeDisplay nodes. Dropped
// nodes take their relationships with them and set NotAllNodesShown. The
// returned error lists rejected records; accepted ones are still added.
func (c *Controller) Load(recs graphmodel.Records) error {
	batch, err := graphmodel.Convert(c.graph, recs)
	batch.Nodes = c.freshNodes(batch.Nodes)
	limit := c.opts.InitialNodeDisplay
	if limit > 0 && c.graph.NodeCount()+len(batch.Nodes) > limit {
		keep := max(limit-c.graph.NodeCount(), 0)
		batch.Nodes = batch.Nodes[:keep]
		c.notAllNodesShown = true
		c.log.Info("node display limit reached", "limit", limit)
	}
	c.graph.AddNodes(batch.Nodes...)
	c.graph.AddRelationships(batch.Relationships...)
	if err != nil {
		c.log.Warn("records rejected", "error", err)
	}
	if c.Bound() {
		c.Update(UpdateOptions{UpdateNodes: true, UpdateRelationships: true})
	}
	return err
}

// freshNodes drops nodes the graph already holds.
func (c *Controller) freshNodes(nodes []*graphmodel.NodeModel) []*graphmodel.NodeModel {
	var fresh []*graphmodel.NodeModel
	for _, n := range nodes {
		if c.graph.Node(n.ID) == nil {
			fresh = append(fresh, n)
		}
	}
	return fresh
}

// NotAllNodesShown reports whether Load dropped nodes over the display
// limit.
func (c *Controller) NotAllNodesShown() bool { return c.notAllNodesShown }

// LayoutTree arranges the graph root-down and pins every placed node.
func (c *Controller) LayoutTree(opts treelayout.Options) treelayout.Result {
	res := treelayout.LayoutGraphWithRootNodeOnTop(c.graph, opts)
	if c.Bound() {
		c.sim.UpdateNodes(c.graph.Nodes())
		c.sim.Reheat(forcesim.DefaultAlpha)
		c.geometry.OnTick(c.graph)
		for _, r := range c.renderers {
			r.OnTick(c.graph)
		}
		c.startTicking()
	}
	c.log.Debug("tree layout applied", "roots", len(res.Roots), "placed", len(res.Cells))
	return res
}
