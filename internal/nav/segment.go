// Package nav implements grid-based crowd navigation via precomputed
// distance fields ("heatmaps").
//
// The expensive work happens once: obstacle segments are rasterized into an
// occupancy grid, and for every named destination a dense field of shortest
// octile distances is computed from the destination outward. After that each
// agent answers "which neighboring cell gets me closer" with a single O(1)
// field lookup per simulation step instead of a per-agent path search.
//
// All structures use flat row-major slices indexed by y*width+x (not
// pointer-linked nodes) to minimize GC pressure and maximize cache locality.
package nav

// Cell is an integer grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Segment is a thick axis-aligned obstacle segment (a wall). Segments must be
// constant in exactly one axis and have odd thickness so that they rasterize
// into a crisp pixel footprint centered on the segment line.
type Segment struct {
	X1, Y1    int
	X2, Y2    int
	Thickness int
}

// NewSegment validates and returns an obstacle segment.
func NewSegment(x1, y1, x2, y2, thickness int) (Segment, error) {
	s := Segment{X1: x1, Y1: y1, X2: x2, Y2: y2, Thickness: thickness}
	if err := s.Validate(); err != nil {
		return Segment{}, err
	}
	return s, nil
}

// Validate rejects degenerate, non-axis-aligned and even-thickness segments.
func (s Segment) Validate() error {
	if s.X1 == s.X2 && s.Y1 == s.Y2 {
		return &GeometryError{Reason: "segment is a point, extend it along one axis"}
	}
	if s.X1 != s.X2 && s.Y1 != s.Y2 {
		return &GeometryError{Reason: "segment must be axis-aligned (endpoints must match in x or y)"}
	}
	if s.Thickness < 1 || s.Thickness%2 == 0 {
		return &GeometryError{Reason: "segment thickness must be a positive odd number"}
	}
	return nil
}

// Vertical reports whether the segment runs parallel to the y axis.
func (s Segment) Vertical() bool {
	return s.X1 == s.X2
}

// halfWidth is the number of cells occupied on each side of the segment line.
// buffer adds a safety margin so an agent's collision radius cannot clip
// through a one-cell gap next to a wall.
func (s Segment) halfWidth(buffer int) int {
	return s.Thickness/2 + buffer
}

// Bounds returns the inclusive cell bounding box of the footprint.
func (s Segment) Bounds(buffer int) (minX, minY, maxX, maxY int) {
	half := s.halfWidth(buffer)
	minX = min(s.X1, s.X2) - half
	maxX = max(s.X1, s.X2) + half
	minY = min(s.Y1, s.Y2) - half
	maxY = max(s.Y1, s.Y2) + half
	return minX, minY, maxX, maxY
}

// Footprint returns every cell the segment occupies, including thickness on
// both sides of the line and the extra buffer ring. Cells may fall outside
// the world, the grid builder clips them.
func (s Segment) Footprint(buffer int) []Cell {
	minX, minY, maxX, maxY := s.Bounds(buffer)
	cells := make([]Cell, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cells = append(cells, Cell{X: x, Y: y})
		}
	}
	return cells
}

// Covers reports whether the cell lies inside the segment footprint.
func (s Segment) Covers(c Cell, buffer int) bool {
	minX, minY, maxX, maxY := s.Bounds(buffer)
	return c.X >= minX && c.X <= maxX && c.Y >= minY && c.Y <= maxY
}
