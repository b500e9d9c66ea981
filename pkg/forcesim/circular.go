package forcesim

import (
	"math"

	"github.com/wesen/neograph/pkg/graphmodel"
)

// NodeSpacing is the arc length between neighbours placed by CircularLayout.
const NodeSpacing = 45.0

// CircleRadius returns the radius that spaces count nodes NodeSpacing apart.
func CircleRadius(count int) float64 {
	return float64(count) * NodeSpacing / (2 * math.Pi)
}

// CircularLayout places nodes that have no position yet on a circle around
// (cx, cy), in slice order, starting at the bottom. Positioned nodes keep
// their coordinates. It returns the number of nodes placed.
func CircularLayout(nodes []*graphmodel.NodeModel, cx, cy, radius float64) int {
	var unplaced []*graphmodel.NodeModel
	for _, n := range nodes {
		if !n.Positioned {
			unplaced = append(unplaced, n)
		}
	}
	for i, n := range unplaced {
		a := 2 * math.Pi * float64(i) / float64(len(unplaced))
		n.X = cx + radius*math.Sin(a)
		n.Y = cy + radius*math.Cos(a)
		n.Positioned = true
	}
	return len(unplaced)
}
