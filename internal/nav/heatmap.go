package nav

import "math"

// Unreachable marks cells that no path connects to the destination. Using an
// explicit +Inf sentinel keeps "never reached" distinguishable from a true
// zero distance at the destination cell itself.
var Unreachable = float32(math.Inf(1))

// Heatmap is a dense field of shortest octile distances from every reachable
// cell to one destination. Immutable once computed.
type Heatmap struct {
	width, height int
	dist          []float32
}

// Width returns the field width in cells.
func (h *Heatmap) Width() int { return h.width }

// Height returns the field height in cells.
func (h *Heatmap) Height() int { return h.height }

// At returns the distance recorded for a cell. Out-of-bounds cells are
// Unreachable.
func (h *Heatmap) At(c Cell) float32 {
	if c.X < 0 || c.X >= h.width || c.Y < 0 || c.Y >= h.height {
		return Unreachable
	}
	return h.dist[c.Y*h.width+c.X]
}

// Reachable reports whether some path connects the cell to the destination.
func (h *Heatmap) Reachable(c Cell) bool {
	return h.At(c) != Unreachable
}

// ReachableCount returns the number of cells with a finite distance.
func (h *Heatmap) ReachableCount() int {
	n := 0
	for _, d := range h.dist {
		if d != Unreachable {
			n++
		}
	}
	return n
}

// MaxDistance returns the largest finite distance in the field, 0 if none.
func (h *Heatmap) MaxDistance() float32 {
	var m float32
	for _, d := range h.dist {
		if d != Unreachable && d > m {
			m = d
		}
	}
	return m
}

// ComputeHeatmap runs the relaxation from dest outward across the grid and
// returns the finished distance field. Every cell reachable from dest ends up
// with its true shortest octile-weighted distance, isolated cells stay
// Unreachable.
//
// The frontier is a dedup FIFO rather than a priority queue, so a cell's
// tentative distance may be lowered and the cell re-expanded several times
// before the field settles (label correcting). Final distances are identical
// to what Dijkstra would produce.
func ComputeHeatmap(grid *OccupancyGrid, dest Cell) (*Heatmap, error) {
	if !grid.InBounds(dest) {
		return nil, &GeometryError{Reason: "destination lies outside the world"}
	}
	if grid.Blocked(dest) {
		return nil, &GeometryError{Reason: "destination lies inside an obstacle"}
	}

	h := &Heatmap{
		width:  grid.width,
		height: grid.height,
		dist:   make([]float32, grid.width*grid.height),
	}
	for i := range h.dist {
		h.dist[i] = Unreachable
	}

	frontier := NewFrontier(len(h.dist))
	destIdx := grid.index(dest)
	h.dist[destIdx] = 0
	frontier.Push(destIdx)

	w := grid.width
	for frontier.Len() > 0 {
		cur := frontier.Pop()
		cx := int(cur) % w
		cy := int(cur) / w
		curDist := h.dist[cur]

		for i := 0; i < 8; i++ {
			nx := cx + neighborDX[i]
			ny := cy + neighborDY[i]
			if nx < 0 || nx >= w || ny < 0 || ny >= grid.height {
				continue
			}
			nidx := int32(ny*w + nx)
			if grid.blocked[nidx] {
				continue
			}
			relaxed := curDist + neighborCost[i]
			if relaxed < h.dist[nidx] {
				h.dist[nidx] = relaxed
				frontier.Push(nidx)
			}
		}
	}
	return h, nil
}
