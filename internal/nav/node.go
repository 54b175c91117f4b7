package nav

import "math"

// 8-way Moore neighborhood in row-major order, with the octile step cost for
// each offset (√2 for diagonals). Enumeration order is fixed: it is the
// documented tie-break order for direction queries and makes heatmap builds
// deterministic.
var (
	neighborDX   = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	neighborDY   = [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	neighborCost = [8]float32{sqrt2, 1, sqrt2, 1, 1, sqrt2, 1, sqrt2}
)

const sqrt2 = float32(math.Sqrt2)

// Neighbors appends the passable 8-neighbors of c to out and returns the
// extended slice. The cell itself, out-of-bounds cells and blocked cells are
// excluded. Pass a reusable buffer to avoid per-call allocation.
func (g *OccupancyGrid) Neighbors(c Cell, out []Cell) []Cell {
	for i := 0; i < 8; i++ {
		n := Cell{X: c.X + neighborDX[i], Y: c.Y + neighborDY[i]}
		if !g.InBounds(n) || g.blocked[n.Y*g.width+n.X] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// EdgeCost returns the octile movement cost between two 8-adjacent cells:
// 1 for axis-aligned steps, √2 for diagonal steps. Calling it with identical
// or non-adjacent cells is a programming error and returns an AdjacencyError.
func EdgeCost(a, b Cell) (float32, error) {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > 1 || dy > 1 || (dx == 0 && dy == 0) {
		return 0, &AdjacencyError{A: a, B: b}
	}
	if dx+dy == 1 {
		return 1, nil
	}
	return sqrt2, nil
}
