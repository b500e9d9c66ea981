// Package viz is the visualization controller: it binds a graph and a style
// sheet to renderers, drives the force simulation through an injected
// scheduler, and owns the zoom/pan transform and node interactions.
//
// A Controller is single-goroutine. Results of background work re-enter
// through ApplyExpansion and ApplyInternalRelationships, which drop results
// that belong to an earlier binding or arrive after Destroy.
package viz

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/wesen/neograph/pkg/forcesim"
	"github.com/wesen/neograph/pkg/geometry"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/graphstyle"
)

// Controller owns one visualization session.
type Controller struct {
	graph     *graphmodel.Graph
	style     *graphstyle.GraphStyle
	geometry  *geometry.Geometry
	sim       *forcesim.Simulation
	scheduler forcesim.Scheduler
	renderers []Renderer
	events    Events
	opts      Options
	log       *slog.Logger
	session   string

	bound      bool
	destroyed  bool
	generation uint64
	tick       forcesim.Handle
	ticking    bool

	view view

	selected Item
	hovered  Item
	dragging *graphmodel.NodeModel

	notAllNodesShown bool
}

// New creates an unbound controller. Call Init to start it.
func New(g *graphmodel.Graph, style *graphstyle.GraphStyle, scheduler forcesim.Scheduler, opts Options, events Events, renderers ...Renderer) *Controller {
	def := DefaultOptions()
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = def.MaxZoom
	}
	if opts.MinZoom <= 0 || opts.MinZoom > opts.MaxZoom {
		opts.MinZoom = def.MinZoom
	}
	if opts.ZoomInFactor <= 1 {
		opts.ZoomInFactor = def.ZoomInFactor
	}
	if opts.ZoomOutFactor <= 0 || opts.ZoomOutFactor >= 1 {
		opts.ZoomOutFactor = def.ZoomOutFactor
	}
	if opts.HitTolerance <= 0 {
		opts.HitTolerance = def.HitTolerance
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	session := uuid.NewString()

	c := &Controller{
		graph:     g,
		style:     style,
		geometry:  geometry.New(style, opts.TextCache, opts.TextContext),
		scheduler: scheduler,
		renderers: renderers,
		events:    events,
		opts:      opts,
		log:       log.With("session", session),
		session:   session,
	}
	c.view = newView(opts.MinZoom, opts.MaxZoom)
	c.selected = c.canvasItem()
	c.hovered = c.canvasItem()
	return c
}

// Session returns the session id carried in log records.
func (c *Controller) Session() string { return c.session }

// Graph returns the bound graph.
func (c *Controller) Graph() *graphmodel.Graph { return c.graph }

// Style returns the bound style sheet.
func (c *Controller) Style() *graphstyle.GraphStyle { return c.style }

// Generation identifies the current binding. Background results must carry
// the generation they were requested under.
func (c *Controller) Generation() uint64 { return c.generation }

// Bound reports whether Init ran and Destroy did not.
func (c *Controller) Bound() bool { return c.bound && !c.destroyed }

// Simulation returns the running simulation, or nil before Init.
func (c *Controller) Simulation() *forcesim.Simulation { return c.sim }

// Init binds the graph and style to the renderers and starts the
// simulation. Calling it again tears the previous binding down first.
func (c *Controller) Init() {
	if c.destroyed {
		return
	}
	if c.bound {
		c.stopTicking()
	}
	c.bound = true
	c.generation++
	c.geometry.SetStyle(c.style)

	nodes := c.graph.Nodes()
	forcesim.CircularLayout(nodes, 0, 0, forcesim.CircleRadius(len(nodes)))

	c.sim = forcesim.New(c.opts.Simulation)
	c.geometry.OnGraphChange(c.graph, true, true)
	c.sim.UpdateNodes(nodes)
	c.sim.UpdateRelationships(c.graph.Relationships())
	ran := c.sim.Precompute()
	c.geometry.OnTick(c.graph)

	all := UpdateOptions{UpdateNodes: true, UpdateRelationships: true}
	for _, r := range c.renderers {
		r.OnGraphChange(c.graph, all)
		r.OnTick(c.graph)
	}
	c.log.Debug("visualization bound",
		"generation", c.generation,
		"nodes", len(nodes),
		"relationships", c.graph.RelationshipCount(),
		"precomputed_ticks", ran)
	c.startTicking()
}

// Update refreshes the requested entity class. Node changes place new nodes
// and reheat the simulation; relationship-only changes leave positions
// alone.
func (c *Controller) Update(opts UpdateOptions) {
	if !c.Bound() || (!opts.UpdateNodes && !opts.UpdateRelationships) {
		return
	}
	if opts.UpdateNodes {
		nodes := c.graph.Nodes()
		centre := c.view.worldCentre()
		forcesim.CircularLayout(nodes, centre.X, centre.Y, forcesim.CircleRadius(len(nodes)))
		c.geometry.OnGraphChange(c.graph, true, false)
		c.sim.UpdateNodes(nodes)
	}
	if opts.UpdateRelationships || opts.UpdateNodes {
		c.geometry.OnGraphChange(c.graph, false, true)
		c.sim.UpdateRelationships(c.graph.Relationships())
	}
	if opts.UpdateNodes {
		c.sim.RefreshLinkDistances()
		c.sim.Reheat(forcesim.DefaultAlpha)
		c.sim.Precompute()
	}
	c.geometry.OnTick(c.graph)

	for _, r := range c.renderers {
		r.OnGraphChange(c.graph, opts)
		r.OnTick(c.graph)
	}
	if opts.UpdateNodes {
		c.startTicking()
	}
}

// Restyle recomputes radii and captions after a style edit without moving
// nodes.
func (c *Controller) Restyle() {
	if !c.Bound() {
		return
	}
	c.geometry.OnGraphChange(c.graph, true, true)
	c.sim.RefreshLinkDistances()
	c.geometry.OnTick(c.graph)
	all := UpdateOptions{UpdateNodes: true, UpdateRelationships: true}
	for _, r := range c.renderers {
		r.OnGraphChange(c.graph, all)
		r.OnTick(c.graph)
	}
}

// Destroy stops the simulation and drops every renderer. Later calls on the
// controller are no-ops.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.stopTicking()
	c.renderers = nil
	c.destroyed = true
	c.generation++
	c.log.Debug("visualization destroyed")
}

// Ticking reports whether a simulation frame is scheduled.
func (c *Controller) Ticking() bool { return c.ticking }

func (c *Controller) startTicking() {
	if c.ticking || c.graph.NodeCount() == 0 || !c.sim.Running() {
		return
	}
	c.ticking = true
	c.log.Debug("simulation started", "alpha", c.sim.Alpha())
	c.tick = c.scheduler.RequestTick(c.onFrame)
}

func (c *Controller) stopTicking() {
	if !c.ticking {
		return
	}
	c.scheduler.CancelTick(c.tick)
	c.ticking = false
}

func (c *Controller) onFrame() {
	if !c.ticking || c.destroyed {
		return
	}
	running := c.sim.Step()
	c.geometry.OnTick(c.graph)
	for _, r := range c.renderers {
		r.OnTick(c.graph)
	}
	if running {
		c.tick = c.scheduler.RequestTick(c.onFrame)
		return
	}
	c.ticking = false
	c.log.Debug("simulation ended")
	if c.events.OnSimulationEnd != nil {
		c.events.OnSimulationEnd()
	}
}

func (c *Controller) canvasItem() Item {
	return Item{
		Kind:          ItemCanvas,
		NodeCount:     c.graph.NodeCount(),
		RelationCount: c.graph.RelationshipCount(),
	}
}
