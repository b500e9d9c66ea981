package geometry

import (
	"math"
	"sort"

	"github.com/wesen/neograph/pkg/graphmodel"
)

const (
	defaultDeflectionStep  = 30.0
	maximumTotalDeflection = 150.0
	loopStraightLength     = 40.0
	loopSpread             = 30.0
)

// layoutRelationships routes every relationship. Pairs with one
// relationship get a straight arrow; bundles fan out as arcs around the
// middle one; self relationships become loops placed in the widest free gap
// around their node.
func (g *Geometry) layoutRelationships(graph *graphmodel.Graph) {
	pairs := graph.GroupedRelationships()
	computeNonLoopAngles(graph, pairs)
	distributeLoopAngles(graph, pairs)

	for _, pair := range pairs {
		count := len(pair.Relationships)
		middle := float64(count-1) / 2
		steps := float64(count - 1)
		step := defaultDeflectionStep
		if steps*defaultDeflectionStep > maximumTotalDeflection {
			step = maximumTotalDeflection / steps
		}

		for i, r := range pair.Relationships {
			src, tgt := graph.Node(r.SourceID), graph.Node(r.TargetID)
			if src == nil || tgt == nil {
				r.Arrow = nil
				continue
			}
			el := g.style.ForRelationship(r)
			shaftWidth := el.Float("shaft-width", 2)
			if shaftWidth <= 0 {
				shaftWidth = 2
			}
			head := shaftWidth + 6

			var a *graphmodel.Arrow
			switch {
			case pair.IsLoop():
				a = loopArrow(src, r.NaturalAngle, head)
			case float64(i) == middle:
				a = straightArrow(src, tgt, r.NaturalAngle, r.CentreDistance, head)
			default:
				deflection := step * (float64(i) - middle)
				if pair.NodeA != r.SourceID {
					deflection = -deflection
				}
				a = arcArrow(src, tgt, r.NaturalAngle, r.CentreDistance, deflection, head)
			}
			a.ShaftWidth = shaftWidth
			a.HeadWidth = head
			a.HeadHeight = head
			r.Arrow = a

			if a.ShaftLength > r.CaptionLength {
				r.ShortCaption = r.Caption
			} else {
				r.ShortCaption, _ = g.shortenRelationshipCaption(r.Caption, a.ShaftLength,
					el.Float("font-size", 8), el.Float("padding", 3))
			}
		}
	}
}

// computeNonLoopAngles sets the angle from source to target, in degrees
// clockwise from the x axis, and the centre distance.
func computeNonLoopAngles(graph *graphmodel.Graph, pairs []*graphmodel.NodePair) {
	for _, pair := range pairs {
		if pair.IsLoop() {
			continue
		}
		a, b := graph.Node(pair.NodeA), graph.Node(pair.NodeB)
		if a == nil || b == nil {
			continue
		}
		dx, dy := b.X-a.X, b.Y-a.Y
		angle := normDeg(math.Atan2(dy, dx) * 180 / math.Pi)
		centre := math.Hypot(dx, dy)
		for _, r := range pair.Relationships {
			if r.SourceID == pair.NodeA {
				r.NaturalAngle = angle
			} else {
				r.NaturalAngle = normDeg(angle + 180)
			}
			r.CentreDistance = centre
		}
	}
}

// distributeLoopAngles spreads the loops of a node evenly across the largest
// angular gap between its other relationships.
func distributeLoopAngles(graph *graphmodel.Graph, pairs []*graphmodel.NodePair) {
	rels := graph.Relationships()
	for _, pair := range pairs {
		if !pair.IsLoop() {
			continue
		}
		node := pair.NodeA
		var angles []float64
		for _, r := range rels {
			if r.IsLoop() {
				continue
			}
			if r.SourceID == node {
				angles = append(angles, r.NaturalAngle)
			}
			if r.TargetID == node {
				angles = append(angles, normDeg(r.NaturalAngle+180))
			}
		}
		start, end := biggestGap(angles)
		sep := (end - start) / float64(len(pair.Relationships)+1)
		for i, r := range pair.Relationships {
			r.NaturalAngle = normDeg(start + float64(i+1)*sep)
			r.CentreDistance = 0
		}
	}
}

// biggestGap returns the widest empty arc between the given angles. With no
// angles the whole circle is free.
func biggestGap(angles []float64) (float64, float64) {
	if len(angles) == 0 {
		return 0, 360
	}
	sorted := append([]float64(nil), angles...)
	sort.Float64s(sorted)
	start, end := 0.0, 0.0
	for i, a := range sorted {
		next := sorted[(i+1)%len(sorted)]
		if i == len(sorted)-1 {
			next += 360
		}
		if next-a > end-start {
			start, end = a, next
		}
	}
	return start, end
}

func straightArrow(src, tgt *graphmodel.NodeModel, angle, centre, head float64) *graphmodel.Arrow {
	ux, uy := unit(angle)
	start := graphmodel.Point{X: src.X + ux*src.Radius, Y: src.Y + uy*src.Radius}
	end := graphmodel.Point{X: tgt.X - ux*tgt.Radius, Y: tgt.Y - uy*tgt.Radius}
	mid := graphmodel.Point{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
	return &graphmodel.Arrow{
		Kind:        graphmodel.ArrowStraight,
		Start:       start,
		End:         end,
		Control:     mid,
		Mid:         mid,
		Angle:       angle,
		ShaftLength: max(centre-src.Radius-tgt.Radius-head, 0),
	}
}

// arcArrow leaves the source deflection degrees off the centre line and
// enters the target mirrored, as a quadratic curve through the tangent
// intersection.
func arcArrow(src, tgt *graphmodel.NodeModel, angle, centre, deflection, head float64) *graphmodel.Arrow {
	sx, sy := unit(angle + deflection)
	ex, ey := unit(angle + 180 - deflection)
	start := graphmodel.Point{X: src.X + sx*src.Radius, Y: src.Y + sy*src.Radius}
	end := graphmodel.Point{X: tgt.X + ex*tgt.Radius, Y: tgt.Y + ey*tgt.Radius}

	chord := math.Hypot(end.X-start.X, end.Y-start.Y)
	d := clampDeg(deflection)
	h := chord / 2 * math.Tan(d*math.Pi/180)
	ux, uy := unit(angle)
	px, py := -uy, ux
	control := graphmodel.Point{
		X: (start.X+end.X)/2 + px*h,
		Y: (start.Y+end.Y)/2 + py*h,
	}
	mid := quadPoint(start, control, end, 0.5)
	return &graphmodel.Arrow{
		Kind:        graphmodel.ArrowArc,
		Start:       start,
		End:         end,
		Control:     control,
		Mid:         mid,
		Angle:       angle,
		Deflection:  deflection,
		ShaftLength: max(quadLength(start, control, end)-head, 0),
	}
}

// loopArrow draws a circle attached to the node in direction angle.
func loopArrow(n *graphmodel.NodeModel, angle, head float64) *graphmodel.Arrow {
	loopRadius := loopStraightLength / 2
	ux, uy := unit(angle)
	centre := graphmodel.Point{X: n.X + ux*(n.Radius+loopRadius*0.6), Y: n.Y + uy*(n.Radius+loopRadius*0.6)}
	sx, sy := unit(angle - loopSpread/2)
	ex, ey := unit(angle + loopSpread/2)
	return &graphmodel.Arrow{
		Kind:        graphmodel.ArrowLoop,
		Start:       graphmodel.Point{X: n.X + sx*n.Radius, Y: n.Y + sy*n.Radius},
		End:         graphmodel.Point{X: n.X + ex*n.Radius, Y: n.Y + ey*n.Radius},
		Control:     centre,
		Mid:         graphmodel.Point{X: centre.X + ux*loopRadius, Y: centre.Y + uy*loopRadius},
		Angle:       angle,
		Deflection:  loopSpread,
		LoopRadius:  loopRadius,
		ShaftLength: max(2*math.Pi*loopRadius*0.8-head, 0),
	}
}

// QuadPoint evaluates the arrow's curve at t in [0, 1].
func QuadPoint(a *graphmodel.Arrow, t float64) graphmodel.Point {
	return quadPoint(a.Start, a.Control, a.End, t)
}

func quadPoint(p0, p1, p2 graphmodel.Point, t float64) graphmodel.Point {
	u := 1 - t
	return graphmodel.Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

func quadLength(p0, p1, p2 graphmodel.Point) float64 {
	const segments = 16
	length := 0.0
	prev := p0
	for i := 1; i <= segments; i++ {
		p := quadPoint(p0, p1, p2, float64(i)/segments)
		length += math.Hypot(p.X-prev.X, p.Y-prev.Y)
		prev = p
	}
	return length
}

func unit(deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

func normDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func clampDeg(d float64) float64 {
	return math.Max(-80, math.Min(80, d))
}
