package nav

// GridConfig controls occupancy grid construction.
type GridConfig struct {
	Width  int // World width in cells
	Height int // World height in cells
	Buffer int // Extra blocked cells around every wall footprint
	Reduce int // Block max-pool window (1 = full resolution)
}

// OccupancyGrid is a boolean passability grid. A true cell is impassable
// (wall footprint or world border). The grid is built once per world
// configuration and is read-only afterward, so concurrent heatmap builds and
// direction queries share it without locking.
type OccupancyGrid struct {
	width, height int
	blocked       []bool
}

// BuildOccupancy rasterizes the obstacle segments and the world border into a
// passability grid. Invalid segments fail the whole build with a
// GeometryError, bad world geometry is a construction-time fatal.
func BuildOccupancy(cfg GridConfig, segments []Segment) (*OccupancyGrid, error) {
	if cfg.Width < 3 || cfg.Height < 3 {
		return nil, &GeometryError{Reason: "grid must be at least 3x3 cells"}
	}
	if cfg.Reduce < 1 {
		cfg.Reduce = 1
	}

	g := &OccupancyGrid{
		width:   cfg.Width,
		height:  cfg.Height,
		blocked: make([]bool, cfg.Width*cfg.Height),
	}

	for _, s := range segments {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		minX, minY, maxX, maxY := s.Bounds(cfg.Buffer)
		// Clip footprint to the world
		minX = max(minX, 0)
		minY = max(minY, 0)
		maxX = min(maxX, cfg.Width-1)
		maxY = min(maxY, cfg.Height-1)
		for y := minY; y <= maxY; y++ {
			row := y * cfg.Width
			for x := minX; x <= maxX; x++ {
				g.blocked[row+x] = true
			}
		}
	}

	if cfg.Reduce > 1 {
		g = g.Reduce(cfg.Reduce)
	}
	g.markBorder()
	return g, nil
}

// markBorder blocks the outermost ring. The world is bounded, agents can
// never leave it.
func (g *OccupancyGrid) markBorder() {
	for x := 0; x < g.width; x++ {
		g.blocked[x] = true
		g.blocked[(g.height-1)*g.width+x] = true
	}
	for y := 0; y < g.height; y++ {
		g.blocked[y*g.width] = true
		g.blocked[y*g.width+g.width-1] = true
	}
}

// Reduce returns a grid downsampled by block-wise max-pooling over k×k
// windows: a reduced cell is blocked if any covered cell is blocked. This
// trades path fidelity for memory and build time on very large worlds.
func (g *OccupancyGrid) Reduce(k int) *OccupancyGrid {
	if k <= 1 {
		return g
	}
	w := (g.width + k - 1) / k
	h := (g.height + k - 1) / k
	out := &OccupancyGrid{width: w, height: h, blocked: make([]bool, w*h)}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.blocked[y*g.width+x] {
				out.blocked[(y/k)*w+x/k] = true
			}
		}
	}
	return out
}

// Width returns the grid width in cells.
func (g *OccupancyGrid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *OccupancyGrid) Height() int { return g.height }

// InBounds reports whether the cell lies inside the grid.
func (g *OccupancyGrid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// Blocked reports whether the cell is impassable. Out-of-bounds cells are
// treated as blocked.
func (g *OccupancyGrid) Blocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[c.Y*g.width+c.X]
}

// BlockedCount returns the number of impassable cells.
func (g *OccupancyGrid) BlockedCount() int {
	n := 0
	for _, b := range g.blocked {
		if b {
			n++
		}
	}
	return n
}

func (g *OccupancyGrid) index(c Cell) int32 {
	return int32(c.Y*g.width + c.X)
}

func (g *OccupancyGrid) cell(idx int32) Cell {
	return Cell{X: int(idx) % g.width, Y: int(idx) / g.width}
}
