package drawutil

import (
	"math"

	"github.com/wesen/neograph/pkg/cellbuf"
)

// DrawGrid dots the buffer at every spacing world units. originX/originY
// give the cell position of world (0, 0) and cellW/cellH the world size of
// one cell. A spacing that would land dots closer than two cells is
// skipped.
func DrawGrid(buf *cellbuf.Buffer, originX, originY, cellW, cellH, spacing float64, style cellbuf.StyleKey) {
	if spacing <= 0 || cellW <= 0 || cellH <= 0 {
		return
	}
	stepX, stepY := spacing/cellW, spacing/cellH
	if stepX < 2 || stepY < 2 {
		return
	}
	startX := originX - math.Floor(originX/stepX)*stepX
	startY := originY - math.Floor(originY/stepY)*stepY
	for y := startY; y < float64(buf.H); y += stepY {
		for x := startX; x < float64(buf.W); x += stepX {
			buf.Plot(int(x), int(y), '·', style, 0)
		}
	}
}
