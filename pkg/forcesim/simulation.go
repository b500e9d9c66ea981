// Package forcesim is a velocity-Verlet force simulation over graphmodel
// nodes: many-body repulsion, link springs, collision and a weak pull to the
// origin, cooled by a decaying alpha.
//
// The simulation never schedules itself. Callers drive it with Tick or Step,
// usually from a Scheduler callback.
package forcesim

import (
	"math"
	"math/rand/v2"

	"github.com/wesen/neograph/pkg/graphmodel"
)

type link struct {
	source, target int
	distance       float64
	strength       float64
	bias           float64
}

// Simulation holds the bound nodes and links and the cooling state.
type Simulation struct {
	opts        Options
	nodes       []*graphmodel.NodeModel
	index       map[string]int
	rels        []*graphmodel.RelationshipModel
	links       []link
	alpha       float64
	alphaTarget float64
	rng         *rand.Rand
}

// New creates a hot simulation with no nodes.
func New(opts Options) *Simulation {
	opts = opts.withDefaults()
	return &Simulation{
		opts:  opts,
		alpha: DefaultAlpha,
		index: make(map[string]int),
		rng:   rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
}

// Options returns the effective options.
func (s *Simulation) Options() Options { return s.opts }

// UpdateNodes binds the node set. Nodes without a position get one on a
// phyllotaxis spiral.
func (s *Simulation) UpdateNodes(nodes []*graphmodel.NodeModel) {
	s.nodes = append(s.nodes[:0], nodes...)
	s.index = make(map[string]int, len(nodes))
	const initialRadius = 10.0
	initialAngle := math.Pi * (3 - math.Sqrt(5))
	for i, n := range s.nodes {
		s.index[n.ID] = i
		if !n.Positioned {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			n.X, n.Y = r*math.Cos(a), r*math.Sin(a)
			n.Positioned = true
		}
		if n.Fixed {
			n.X, n.Y = n.FX, n.FY
		}
	}
	s.rebuildLinks()
}

// UpdateRelationships binds the relationship set. Relationships whose
// endpoints are not bound nodes are ignored.
func (s *Simulation) UpdateRelationships(rels []*graphmodel.RelationshipModel) {
	s.rels = append(s.rels[:0], rels...)
	s.rebuildLinks()
}

func (s *Simulation) rebuildLinks() {
	s.links = s.links[:0]
	count := make([]int, len(s.nodes))
	for _, r := range s.rels {
		si, ok1 := s.index[r.SourceID]
		ti, ok2 := s.index[r.TargetID]
		if !ok1 || !ok2 {
			continue
		}
		count[si]++
		count[ti]++
		s.links = append(s.links, link{
			source:   si,
			target:   ti,
			distance: s.nodes[si].Radius + s.nodes[ti].Radius + s.opts.LinkGap,
		})
	}
	for i := range s.links {
		l := &s.links[i]
		cs, ct := float64(count[l.source]), float64(count[l.target])
		l.strength = 1 / min(cs, ct)
		l.bias = cs / (cs + ct)
	}
}

// RefreshLinkDistances recomputes rest lengths after node radii changed.
func (s *Simulation) RefreshLinkDistances() {
	for i := range s.links {
		l := &s.links[i]
		l.distance = s.nodes[l.source].Radius + s.nodes[l.target].Radius + s.opts.LinkGap
	}
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Running reports whether alpha is still above AlphaMin.
func (s *Simulation) Running() bool { return s.alpha >= s.opts.AlphaMin }

// Reheat sets alpha, restarting a cooled simulation.
func (s *Simulation) Reheat(alpha float64) { s.alpha = alpha }

// SetAlphaTarget sets the value alpha decays towards. A target above
// AlphaMin keeps the simulation running, as while dragging.
func (s *Simulation) SetAlphaTarget(target float64) { s.alphaTarget = target }

// Stop sets alpha to zero.
func (s *Simulation) Stop() { s.alpha = 0 }

// Tick advances one step.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.opts.AlphaDecay
	alpha := s.alpha

	s.applyCenter(alpha)
	s.applyCharge(alpha)
	s.applyLinks(alpha)
	s.applyCollide()

	keep := 1 - s.opts.VelocityDecay
	for _, n := range s.nodes {
		if n.Fixed {
			n.X, n.Y = n.FX, n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX
		n.Y += n.VY
	}
}

// Step runs TicksPerRender ticks, stopping early once cooled. It reports
// whether the simulation is still running.
func (s *Simulation) Step() bool {
	for range s.opts.TicksPerRender {
		if !s.Running() {
			break
		}
		s.Tick()
	}
	return s.Running()
}

// Precompute runs up to PrecomputeTicks ticks without rendering and returns
// the number run.
func (s *Simulation) Precompute() int {
	ran := 0
	for ran < s.opts.PrecomputeTicks && s.Running() {
		s.Tick()
		ran++
	}
	return ran
}

// Nodes returns the bound nodes.
func (s *Simulation) Nodes() []*graphmodel.NodeModel { return s.nodes }
