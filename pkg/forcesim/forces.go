package forcesim

import "math"

const distanceMin2 = 1.0

// applyCharge adds the many-body force, approximating distant cells by their
// centre of strength.
func (s *Simulation) applyCharge(alpha float64) {
	n := len(s.nodes)
	if n == 0 || s.opts.Charge == 0 {
		return
	}
	xs, ys := make([]float64, n), make([]float64, n)
	strengths := make([]float64, n)
	for i, node := range s.nodes {
		xs[i], ys[i] = node.X, node.Y
		strengths[i] = s.opts.Charge
	}
	root := buildQuadtree(xs, ys)
	root.accumulate(xs, ys, strengths)
	theta2 := s.opts.Theta * s.opts.Theta

	for i, node := range s.nodes {
		s.chargeVisit(root, i, node.X, node.Y, strengths, xs, ys, theta2, alpha)
	}
}

func (s *Simulation) chargeVisit(q *quad, i int, px, py float64, strengths, xs, ys []float64, theta2, alpha float64) {
	if q == nil || q.strength == 0 {
		return
	}
	node := s.nodes[i]
	w := q.x1 - q.x0
	dx, dy := q.cx-px, q.cy-py
	l := dx*dx + dy*dy

	if w*w/theta2 < l {
		// Far enough to treat the cell as one body.
		if l < distanceMin2 {
			l = math.Sqrt(distanceMin2 * l)
		}
		node.VX += dx * q.strength * alpha / l
		node.VY += dy * q.strength * alpha / l
		return
	}
	if !q.leaf {
		for _, c := range q.children {
			s.chargeVisit(c, i, px, py, strengths, xs, ys, theta2, alpha)
		}
		return
	}
	for _, j := range q.points {
		if j == i {
			continue
		}
		dx, dy := xs[j]-px, ys[j]-py
		if dx == 0 {
			dx = s.jiggle()
		}
		if dy == 0 {
			dy = s.jiggle()
		}
		l := dx*dx + dy*dy
		if l < distanceMin2 {
			l = math.Sqrt(distanceMin2 * l)
		}
		f := strengths[j] * alpha / l
		node.VX += dx * f
		node.VY += dy * f
	}
}

// applyLinks pulls linked nodes towards their rest distance. Strength and
// bias come from endpoint degrees so hubs move less.
func (s *Simulation) applyLinks(alpha float64) {
	for _, l := range s.links {
		src, tgt := s.nodes[l.source], s.nodes[l.target]
		dx := tgt.X + tgt.VX - src.X - src.VX
		dy := tgt.Y + tgt.VY - src.Y - src.VY
		if dx == 0 {
			dx = s.jiggle()
		}
		if dy == 0 {
			dy = s.jiggle()
		}
		dist := math.Sqrt(dx*dx + dy*dy)
		k := (dist - l.distance) / dist * alpha * l.strength
		dx, dy = dx*k, dy*k
		tgt.VX -= dx * l.bias
		tgt.VY -= dy * l.bias
		src.VX += dx * (1 - l.bias)
		src.VY += dy * (1 - l.bias)
	}
}

// applyCollide separates overlapping collision circles. Neighbours are found
// through a uniform grid whose cells are as wide as the largest diameter.
func (s *Simulation) applyCollide() {
	n := len(s.nodes)
	if n < 2 {
		return
	}
	radii := make([]float64, n)
	maxR := 0.0
	for i, node := range s.nodes {
		radii[i] = node.Radius + s.opts.CollidePadding
		maxR = max(maxR, radii[i])
	}
	if maxR <= 0 {
		return
	}
	cell := 2 * maxR
	type key struct{ x, y int }
	grid := make(map[key][]int, n)
	keyOf := func(i int) key {
		node := s.nodes[i]
		return key{int(math.Floor((node.X + node.VX) / cell)), int(math.Floor((node.Y + node.VY) / cell))}
	}
	keys := make([]key, n)
	for i := range s.nodes {
		keys[i] = keyOf(i)
		grid[keys[i]] = append(grid[keys[i]], i)
	}

	for i, node := range s.nodes {
		ri := radii[i]
		ri2 := ri * ri
		xi, yi := node.X+node.VX, node.Y+node.VY
		k := keys[i]
		for gx := k.x - 1; gx <= k.x+1; gx++ {
			for gy := k.y - 1; gy <= k.y+1; gy++ {
				for _, j := range grid[key{gx, gy}] {
					if j <= i {
						continue
					}
					other := s.nodes[j]
					rj := radii[j]
					r := ri + rj
					dx := xi - other.X - other.VX
					dy := yi - other.Y - other.VY
					l := dx*dx + dy*dy
					if l >= r*r {
						continue
					}
					if dx == 0 {
						dx = s.jiggle()
						l += dx * dx
					}
					if dy == 0 {
						dy = s.jiggle()
						l += dy * dy
					}
					l = math.Sqrt(l)
					l = (r - l) / l
					dx, dy = dx*l, dy*l
					share := rj * rj / (ri2 + rj*rj)
					node.VX += dx * share
					node.VY += dy * share
					other.VX -= dx * (1 - share)
					other.VY -= dy * (1 - share)
				}
			}
		}
	}
}

// applyCenter pulls nodes towards the origin on each axis.
func (s *Simulation) applyCenter(alpha float64) {
	k := s.opts.CenterStrength * alpha
	if k == 0 {
		return
	}
	for _, node := range s.nodes {
		node.VX -= node.X * k
		node.VY -= node.Y * k
	}
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
