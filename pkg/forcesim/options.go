package forcesim

import "math"

// Alpha levels used by callers when restarting the simulation.
const (
	DefaultAlpha        = 1.0
	DefaultAlphaTarget  = 0.0
	DraggingAlpha       = 0.8
	DraggingAlphaTarget = 0.09
)

// Options are the force and cooling parameters.
type Options struct {
	// Charge is the many-body strength per node; negative repels.
	Charge float64
	// Theta is the Barnes–Hut accuracy threshold.
	Theta float64
	// LinkGap is added to the two endpoint radii to get a link's rest length.
	LinkGap float64
	// CollidePadding is added to a node radius to get its collision radius.
	CollidePadding float64
	// CenterStrength pulls every node towards the origin on both axes.
	CenterStrength float64
	// VelocityDecay is the fraction of velocity lost per tick.
	VelocityDecay float64

	AlphaMin   float64
	AlphaDecay float64

	// PrecomputeTicks run before the first frame is drawn.
	PrecomputeTicks int
	// TicksPerRender run per scheduled frame.
	TicksPerRender int

	// Seed drives the jiggle applied to coincident nodes.
	Seed uint64
}

// DefaultOptions returns the browser's force settings.
func DefaultOptions() Options {
	return Options{
		Charge:          -400,
		Theta:           0.9,
		LinkGap:         2 * 45,
		CollidePadding:  25,
		CenterStrength:  0.03,
		VelocityDecay:   0.4,
		AlphaMin:        0.05,
		AlphaDecay:      1 - math.Pow(0.001, 1.0/300),
		PrecomputeTicks: 300,
		TicksPerRender:  10,
		Seed:            1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Theta <= 0 {
		o.Theta = d.Theta
	}
	if o.AlphaDecay <= 0 {
		o.AlphaDecay = d.AlphaDecay
	}
	// Alpha decays towards zero without reaching it.
	if o.AlphaMin <= 0 {
		o.AlphaMin = d.AlphaMin
	}
	if o.TicksPerRender <= 0 {
		o.TicksPerRender = 1
	}
	if o.VelocityDecay < 0 || o.VelocityDecay > 1 {
		o.VelocityDecay = d.VelocityDecay
	}
	return o
}
