package world

import (
	"fmt"

	"github.com/dhconnelly/rtreego"

	"crowdnav/internal/nav"
)

// wallEntry wraps a segment's buffered footprint box for the R-tree.
type wallEntry struct {
	seg  nav.Segment
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (w *wallEntry) Bounds() rtreego.Rect { return w.bbox }

// Index is an R-tree over wall footprints. The occupancy grid answers
// per-cell passability, the index answers region questions: which walls
// intersect a viewport, and whether a proposed destination sits inside a
// wall footprint before any grid has been rasterized.
type Index struct {
	tree   *rtreego.Rtree
	buffer int
}

// NewIndex builds the wall index. buffer must match the grid builder's
// footprint buffer so both agree on what a wall occupies.
func NewIndex(segs []nav.Segment, buffer int) (*Index, error) {
	tree := rtreego.NewTree(2, 25, 50)
	for i, s := range segs {
		minX, minY, maxX, maxY := s.Bounds(buffer)
		rect, err := rtreego.NewRect(
			rtreego.Point{float64(minX), float64(minY)},
			[]float64{float64(maxX - minX + 1), float64(maxY - minY + 1)},
		)
		if err != nil {
			return nil, fmt.Errorf("world: index wall %d: %w", i, err)
		}
		tree.Insert(&wallEntry{seg: s, bbox: rect})
	}
	return &Index{tree: tree, buffer: buffer}, nil
}

// WallsIntersecting returns every wall whose buffered footprint touches the
// given cell rectangle (inclusive corners).
func (ix *Index) WallsIntersecting(minX, minY, maxX, maxY int) []nav.Segment {
	if maxX < minX || maxY < minY {
		return nil
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{float64(minX), float64(minY)},
		[]float64{float64(maxX - minX + 1), float64(maxY - minY + 1)},
	)
	if err != nil {
		return nil
	}
	hits := ix.tree.SearchIntersect(rect)
	segs := make([]nav.Segment, 0, len(hits))
	for _, h := range hits {
		segs = append(segs, h.(*wallEntry).seg)
	}
	return segs
}

// Covers reports whether any wall footprint occupies the cell.
func (ix *Index) Covers(c nav.Cell) bool {
	for _, s := range ix.WallsIntersecting(c.X, c.Y, c.X, c.Y) {
		if s.Covers(c, ix.buffer) {
			return true
		}
	}
	return false
}

// Size returns the number of indexed walls.
func (ix *Index) Size() int { return ix.tree.Size() }

// CheckDestinations rejects a layout whose destinations sit inside wall
// footprints, before spending a full grid build on it.
func (ix *Index) CheckDestinations(dests []nav.Cell) error {
	for i, d := range dests {
		if ix.Covers(d) {
			return fmt.Errorf("world: destination %d at (%d,%d) lies inside a wall footprint", i, d.X, d.Y)
		}
	}
	return nil
}
