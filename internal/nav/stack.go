package nav

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Stack is an ordered sequence of heatmaps, one per destination, all sharing
// the occupancy grid's shape. Layer order matches the destination list, that
// index is the stable identity agents use to select a layer. Once built or
// loaded the stack is immutable and safe to share across any number of
// concurrent direction queries.
type Stack struct {
	width, height int
	layers        []*Heatmap
}

// BuildStats records per-layer diagnostics from a stack build.
type BuildStats struct {
	Layer          int
	Destination    Cell
	Duration       time.Duration
	ReachableCells int
	MaxDistance    float32
}

// Layers returns the number of heatmap layers.
func (s *Stack) Layers() int { return len(s.layers) }

// Width returns the layer width in cells.
func (s *Stack) Width() int { return s.width }

// Height returns the layer height in cells.
func (s *Stack) Height() int { return s.height }

// Layer returns the heatmap for a destination index, nil if out of range.
func (s *Stack) Layer(i int) *Heatmap {
	if i < 0 || i >= len(s.layers) {
		return nil
	}
	return s.layers[i]
}

// BuildStack computes one heatmap per destination. Builds are independent,
// each worker only reads the shared grid and writes its own output layer, so
// they run on a bounded worker pool with no synchronization beyond the final
// join. workers <= 0 selects NumCPU.
func BuildStack(grid *OccupancyGrid, dests []Cell, workers int) (*Stack, []BuildStats, error) {
	if len(dests) == 0 {
		return nil, nil, &GeometryError{Reason: "at least one destination is required"}
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > 16 {
		workers = 16
	}
	if workers > len(dests) {
		workers = len(dests)
	}

	stack := &Stack{
		width:  grid.width,
		height: grid.height,
		layers: make([]*Heatmap, len(dests)),
	}
	stats := make([]BuildStats, len(dests))

	jobs := make(chan int, len(dests))
	for i := range dests {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				hm, err := ComputeHeatmap(grid, dests[i])
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					continue
				}
				stack.layers[i] = hm
				stats[i] = BuildStats{
					Layer:          i,
					Destination:    dests[i],
					Duration:       time.Since(start),
					ReachableCells: hm.ReachableCount(),
					MaxDistance:    hm.MaxDistance(),
				}
				log.Printf("heatmap layer %d/%d at (%d,%d): %d reachable cells in %v",
					i+1, len(dests), dests[i].X, dests[i].Y, stats[i].ReachableCells, stats[i].Duration.Round(time.Millisecond))
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, nil, firstErr
	}
	return stack, stats, nil
}

// NewStack assembles a stack from preloaded layers. All layers must share
// the same shape.
func NewStack(layers []*Heatmap) (*Stack, error) {
	if len(layers) == 0 {
		return nil, &GeometryError{Reason: "stack needs at least one layer"}
	}
	w, h := layers[0].width, layers[0].height
	for _, l := range layers[1:] {
		if l.width != w || l.height != h {
			return nil, &ShapeMismatchError{
				WantWidth: w, GotWidth: l.width,
				WantHeight: h, GotHeight: l.height,
				WantLayers: len(layers), GotLayers: len(layers),
			}
		}
	}
	return &Stack{width: w, height: h, layers: layers}, nil
}
