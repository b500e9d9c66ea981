package viz

import (
	"log/slog"

	"github.com/wesen/neograph/pkg/forcesim"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/textmeasure"
)

// UpdateOptions selects which entity class changed.
type UpdateOptions struct {
	UpdateNodes         bool
	UpdateRelationships bool
}

// Renderer draws the graph. OnGraphChange follows structural or style
// changes; OnTick follows every simulation step.
type Renderer interface {
	OnGraphChange(g *graphmodel.Graph, opts UpdateOptions)
	OnTick(g *graphmodel.Graph)
}

// ItemKind says what an Item refers to.
type ItemKind int

const (
	ItemCanvas ItemKind = iota
	ItemNode
	ItemRelationship
)

func (k ItemKind) String() string {
	switch k {
	case ItemNode:
		return "node"
	case ItemRelationship:
		return "relationship"
	default:
		return "canvas"
	}
}

// Item is the target of a selection or hover. Canvas items carry counts of
// the whole graph.
type Item struct {
	Kind          ItemKind
	Node          *graphmodel.NodeModel
	Relationship  *graphmodel.RelationshipModel
	NodeCount     int
	RelationCount int
}

// ID returns the id of the referenced entity, or "".
func (i Item) ID() string {
	switch i.Kind {
	case ItemNode:
		return i.Node.ID
	case ItemRelationship:
		return i.Relationship.ID
	}
	return ""
}

// ZoomEvent reports the scale after a zoom operation.
type ZoomEvent struct {
	Scale              float64
	InLimitReached     bool
	OutLimitReached    bool
	LimitJustReached   bool
	FitLoweredMinScale bool
}

// Events are the callbacks the controller emits. Any may be nil.
type Events struct {
	OnItemSelected        func(Item)
	OnItemHovered         func(Item)
	OnNodeExpandRequested func(n *graphmodel.NodeModel, generation uint64)
	OnNodeCollapsed       func(n *graphmodel.NodeModel)
	OnZoom                func(ZoomEvent)
	OnSimulationEnd       func()
}

// Options configures a controller.
type Options struct {
	MinZoom       float64
	MaxZoom       float64
	ZoomInFactor  float64
	ZoomOutFactor float64
	// FitPadding is the fraction of the viewport left empty by zoom-to-fit.
	FitPadding float64
	// InitialNodeDisplay caps the nodes taken from one Load.
	InitialNodeDisplay int
	// HitTolerance is the screen distance, in px, within which a
	// relationship caption counts as hit.
	HitTolerance float64

	Simulation  forcesim.Options
	TextContext textmeasure.Context
	TextCache   *textmeasure.Cache
	Logger      *slog.Logger
}

// DefaultOptions returns the browser's limits.
func DefaultOptions() Options {
	return Options{
		MinZoom:            0.1,
		MaxZoom:            2,
		ZoomInFactor:       1.3,
		ZoomOutFactor:      0.7,
		FitPadding:         0.05,
		InitialNodeDisplay: 300,
		HitTolerance:       12,
		Simulation:         forcesim.DefaultOptions(),
	}
}
