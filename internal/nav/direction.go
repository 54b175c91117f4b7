package nav

import (
	"log"
	"math/rand"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// DirectionService answers per-step movement queries against a finished
// heatmap stack. The grid and stack are read-only, the only mutable state is
// the fallback RNG and a pair of counters, so the service is safe for
// concurrent use by any number of agents.
type DirectionService struct {
	grid  *OccupancyGrid
	stack *Stack

	rngMu sync.Mutex
	rng   *rand.Rand

	// A trapped agent hits the fallback every tick. Rate-limit the
	// diagnostic so it stays a rare log line, not a flood.
	fallbackLog *rate.Limiter

	queries   atomic.Uint64
	fallbacks atomic.Uint64
}

// NewDirectionService creates a query service over a grid and its heatmap
// stack. The seed drives only the fallback direction, a fixed seed makes
// recovery behavior reproducible in tests.
func NewDirectionService(grid *OccupancyGrid, stack *Stack, seed int64) *DirectionService {
	return &DirectionService{
		grid:        grid,
		stack:       stack,
		rng:         rand.New(rand.NewSource(seed)),
		fallbackLog: rate.NewLimiter(rate.Limit(0.2), 1),
	}
}

// Direction returns the unit-scale step (dx, dy), each in {-1, 0, 1}, toward
// the neighbor of pos with the smallest recorded distance to the destination
// layer. Ties break on neighbor enumeration order, first encountered wins.
//
// When no neighbor carries a finite distance (the agent is walled in, or the
// destination is unreachable from here) the query degrades to a uniformly
// random offset instead of failing: an agent must always receive some
// movement signal.
func (s *DirectionService) Direction(pos Cell, destIndex int) (dx, dy int) {
	s.queries.Add(1)

	layer := s.stack.Layer(destIndex)
	if layer == nil {
		return s.fallback(pos, destIndex, "unknown destination index")
	}

	best := Unreachable
	found := false
	for i := 0; i < 8; i++ {
		n := Cell{X: pos.X + neighborDX[i], Y: pos.Y + neighborDY[i]}
		if s.grid.Blocked(n) {
			continue
		}
		if d := layer.At(n); d < best {
			best = d
			dx = neighborDX[i]
			dy = neighborDY[i]
			found = true
		}
	}
	if !found {
		return s.fallback(pos, destIndex, "no reachable neighbor")
	}
	return dx, dy
}

// fallback returns a uniformly random offset from {-1,0,1}².
func (s *DirectionService) fallback(pos Cell, destIndex int, why string) (int, int) {
	s.fallbacks.Add(1)
	if s.fallbackLog.Allow() {
		log.Printf("direction fallback at (%d,%d) for destination %d: %s", pos.X, pos.Y, destIndex, why)
	}
	s.rngMu.Lock()
	dx := s.rng.Intn(3) - 1
	dy := s.rng.Intn(3) - 1
	s.rngMu.Unlock()
	return dx, dy
}

// Stats returns the total query and fallback counts.
func (s *DirectionService) Stats() (queries, fallbacks uint64) {
	return s.queries.Load(), s.fallbacks.Load()
}

// Grid returns the occupancy grid the service queries against.
func (s *DirectionService) Grid() *OccupancyGrid { return s.grid }

// Stack returns the heatmap stack the service queries against.
func (s *DirectionService) Stack() *Stack { return s.stack }
