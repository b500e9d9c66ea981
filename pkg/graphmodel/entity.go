package graphmodel

import "math"

// Property is one entry of an entity's ordered property list. Value is the
// display form; Type names the source value kind ("String", "Integer", ...).
type Property struct {
	Key   string
	Value string
	Type  string
}

// CaptionLine is one line of a node caption fitted inside the node circle.
// Baseline is relative to the node centre.
type CaptionLine struct {
	Text     string
	Baseline float64
}

// NodeModel is a node of the visualized graph.
type NodeModel struct {
	ID           string
	Labels       []string
	PropertyList []Property
	PropertyMap  map[string]string

	// Position and velocity, in world pixels. The simulation owns VX/VY.
	X, Y   float64
	VX, VY float64

	// Fixed pins the node at (FX, FY); the simulation will not move it.
	Fixed  bool
	FX, FY float64

	// Positioned is set once the node received an initial position.
	Positioned bool

	Radius       float64
	Caption      string
	CaptionLines []CaptionLine

	Expanded bool
	Minified bool
	Selected bool
	Hovered  bool
}

// NewNode creates a node with the given labels and properties.
func NewNode(id string, labels []string, props []Property) *NodeModel {
	n := &NodeModel{
		ID:           id,
		Labels:       dedupeLabels(labels),
		PropertyList: props,
		PropertyMap:  make(map[string]string, len(props)),
	}
	for _, p := range props {
		n.PropertyMap[p.Key] = p.Value
	}
	return n
}

// Pin fixes the node at its current position.
func (n *NodeModel) Pin() {
	n.Fixed = true
	n.FX, n.FY = n.X, n.Y
}

// PinAt fixes the node at (x, y) and moves it there.
func (n *NodeModel) PinAt(x, y float64) {
	n.X, n.Y = x, y
	n.Pin()
	n.Positioned = true
}

// Unpin releases the node back to the simulation.
func (n *NodeModel) Unpin() {
	n.Fixed = false
}

// HasLabel reports whether the node carries label.
func (n *NodeModel) HasLabel(label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Contains reports whether the world point (x, y) lies inside the node circle.
func (n *NodeModel) Contains(x, y float64) bool {
	return math.Hypot(x-n.X, y-n.Y) <= n.Radius
}

// CaptionLayout is where a relationship caption is drawn.
type CaptionLayout string

const (
	CaptionInternal CaptionLayout = "internal"
	CaptionExternal CaptionLayout = "external"
)

// RelationshipModel is a directed relationship between two nodes. Endpoints
// are referenced by id and resolved through the owning Graph.
type RelationshipModel struct {
	ID           string
	SourceID     string
	TargetID     string
	Type         string
	PropertyList []Property
	PropertyMap  map[string]string

	// Internal marks relationships discovered between already-visible nodes
	// rather than returned by the primary result.
	Internal bool

	Selected bool
	Hovered  bool

	NaturalAngle   float64
	CentreDistance float64

	Caption       string
	ShortCaption  string
	CaptionLength float64
	CaptionHeight float64
	CaptionLayout CaptionLayout

	Arrow *Arrow
}

// NewRelationship creates a relationship from sourceID to targetID.
func NewRelationship(id, sourceID, targetID, relType string, props []Property) *RelationshipModel {
	r := &RelationshipModel{
		ID:            id,
		SourceID:      sourceID,
		TargetID:      targetID,
		Type:          relType,
		PropertyList:  props,
		PropertyMap:   make(map[string]string, len(props)),
		CaptionLayout: CaptionInternal,
	}
	for _, p := range props {
		r.PropertyMap[p.Key] = p.Value
	}
	return r
}

// IsLoop reports whether the relationship starts and ends at the same node.
func (r *RelationshipModel) IsLoop() bool {
	return r.SourceID == r.TargetID
}

// Touches reports whether nodeID is an endpoint of r.
func (r *RelationshipModel) Touches(nodeID string) bool {
	return r.SourceID == nodeID || r.TargetID == nodeID
}

// Other returns the endpoint opposite nodeID.
func (r *RelationshipModel) Other(nodeID string) string {
	if r.TargetID == nodeID {
		return r.SourceID
	}
	return r.TargetID
}

// ArrowKind distinguishes the three relationship routing shapes.
type ArrowKind int

const (
	ArrowStraight ArrowKind = iota
	ArrowArc
	ArrowLoop
)

// Point is a world-space coordinate.
type Point struct {
	X, Y float64
}

// Arrow is the routed geometry of a relationship in world coordinates.
// Arcs are quadratic curves through Control; loops are circles centred on
// Control with radius LoopRadius.
type Arrow struct {
	Kind        ArrowKind
	Start       Point
	End         Point
	Control     Point
	Mid         Point
	Angle       float64 // degrees, direction of the shaft at Mid
	Deflection  float64 // degrees
	ShaftLength float64
	ShaftWidth  float64
	HeadWidth   float64
	HeadHeight  float64
	LoopRadius  float64
}

func dedupeLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
