// Package geometry derives everything the renderers draw from the graph and
// the style sheet: node radii and caption lines, relationship captions, and
// the routed arrow of every relationship.
//
// OnGraphChange runs when entities are added or restyled. OnTick runs after
// every simulation step and only re-routes arrows.
package geometry

import (
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/graphstyle"
	"github.com/wesen/neograph/pkg/textmeasure"
)

// FontFamily is the family captions are measured in.
const FontFamily = "sans-serif"

// Geometry computes derived layout for one graph.
type Geometry struct {
	style *graphstyle.GraphStyle
	cache *textmeasure.Cache
	ctx   textmeasure.Context
}

// New creates a geometry pass. cache may be nil to use the shared cache.
func New(style *graphstyle.GraphStyle, cache *textmeasure.Cache, ctx textmeasure.Context) *Geometry {
	if ctx == nil {
		ctx = textmeasure.DefaultCellContext
	}
	return &Geometry{style: style, cache: cache, ctx: ctx}
}

// SetStyle swaps the style sheet.
func (g *Geometry) SetStyle(style *graphstyle.GraphStyle) {
	g.style = style
}

func (g *Geometry) measure(text string, fontSize float64) float64 {
	if g.cache == nil {
		return textmeasure.MeasureText(text, FontFamily, fontSize, g.ctx)
	}
	return g.cache.MeasureText(text, FontFamily, fontSize, g.ctx)
}

// OnGraphChange recomputes node and/or relationship captions and sizes.
func (g *Geometry) OnGraphChange(graph *graphmodel.Graph, updateNodes, updateRelationships bool) {
	if updateNodes {
		for _, n := range graph.Nodes() {
			g.formatNode(n)
		}
	}
	if updateRelationships {
		for _, r := range graph.Relationships() {
			g.formatRelationship(r)
		}
	}
}

// OnTick re-routes every relationship for the current node positions.
func (g *Geometry) OnTick(graph *graphmodel.Graph) {
	g.layoutRelationships(graph)
}

func (g *Geometry) formatNode(n *graphmodel.NodeModel) {
	el := g.style.ForNode(n)
	n.Radius = el.Float("diameter", 50) / 2
	n.Caption = el.Caption(n)
	n.CaptionLines = g.fitCaptionIntoCircle(n, n.Caption, el.Float("font-size", 10))
}

func (g *Geometry) formatRelationship(r *graphmodel.RelationshipModel) {
	el := g.style.ForRelationship(r)
	fontSize := el.Float("font-size", 8)
	padding := el.Float("padding", 3)
	r.Caption = el.Caption(r)
	r.CaptionLength = g.measure(r.Caption, fontSize) + 2*padding
	r.CaptionHeight = fontSize
	if el.Float("shaft-width", 1) > fontSize {
		r.CaptionLayout = graphmodel.CaptionInternal
	} else {
		r.CaptionLayout = graphmodel.CaptionExternal
	}
}
