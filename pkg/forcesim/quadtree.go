package forcesim

// quad is a Barnes–Hut cell. Leaves hold the indices of the points inside
// them; coincident points share one leaf.
type quad struct {
	x0, y0, x1, y1 float64
	children       [4]*quad
	points         []int
	leaf           bool

	// Aggregates filled by accumulate.
	strength float64
	cx, cy   float64
}

const maxQuadDepth = 32

func buildQuadtree(xs, ys []float64) *quad {
	if len(xs) == 0 {
		return nil
	}
	x0, y0, x1, y1 := xs[0], ys[0], xs[0], ys[0]
	for i := range xs {
		x0, x1 = min(x0, xs[i]), max(x1, xs[i])
		y0, y1 = min(y0, ys[i]), max(y1, ys[i])
	}
	// Square the extent so cell width is the same on both axes.
	size := max(x1-x0, y1-y0, 1)
	root := &quad{x0: x0, y0: y0, x1: x0 + size, y1: y0 + size}
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	root.split(xs, ys, idx, 0)
	return root
}

func (q *quad) split(xs, ys []float64, idx []int, depth int) {
	if len(idx) <= 1 || depth >= maxQuadDepth || coincident(xs, ys, idx) {
		q.leaf = true
		q.points = idx
		return
	}
	mx, my := (q.x0+q.x1)/2, (q.y0+q.y1)/2
	var parts [4][]int
	for _, i := range idx {
		k := 0
		if xs[i] >= mx {
			k |= 1
		}
		if ys[i] >= my {
			k |= 2
		}
		parts[k] = append(parts[k], i)
	}
	for k, p := range parts {
		if len(p) == 0 {
			continue
		}
		c := &quad{x0: q.x0, y0: q.y0, x1: mx, y1: my}
		if k&1 != 0 {
			c.x0, c.x1 = mx, q.x1
		}
		if k&2 != 0 {
			c.y0, c.y1 = my, q.y1
		}
		c.split(xs, ys, p, depth+1)
		q.children[k] = c
	}
}

func coincident(xs, ys []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if xs[i] != xs[idx[0]] || ys[i] != ys[idx[0]] {
			return false
		}
	}
	return true
}

// accumulate computes the total strength and strength-weighted centre of
// every cell.
func (q *quad) accumulate(xs, ys, strengths []float64) {
	var weight, sx, sy, total float64
	if q.leaf {
		for _, i := range q.points {
			s := strengths[i]
			total += s
			w := abs(s)
			weight += w
			sx += w * xs[i]
			sy += w * ys[i]
		}
	} else {
		for _, c := range q.children {
			if c == nil {
				continue
			}
			c.accumulate(xs, ys, strengths)
			total += c.strength
			w := abs(c.strength)
			weight += w
			sx += w * c.cx
			sy += w * c.cy
		}
	}
	q.strength = total
	if weight > 0 {
		q.cx, q.cy = sx/weight, sy/weight
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
