// Package sim runs the crowd simulation: agents spawn on passable cells,
// follow heatmap steering toward a weighted-random destination, and retarget
// after a random dwell interval.
package sim

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"crowdnav/internal/nav"
)

// Engine is the crowd simulation engine handling the tick loop.
type Engine struct {
	mu     sync.RWMutex
	agents []*Agent
	nextID int

	directions   *nav.DirectionService
	grid         *nav.OccupancyGrid
	destinations []nav.Cell
	destPicker   distuv.Categorical

	tickRate  int
	maxAgents int
	running   bool
	ticker    *time.Ticker
	stopChan  chan struct{}

	tickCount int64

	// Deterministic RNG: one source drives spawn placement, steering
	// noise, retarget intervals and the destination sampler.
	rng *rand.Rand
}

// Snapshot is an immutable copy of the simulation state for lock-free reads.
type Snapshot struct {
	Tick   int64   `json:"tick"`
	Agents []Agent `json:"agents"`
}

// NewEngine creates a simulation engine. Destination weights must already be
// normalized (see world.Layout.Weights). A zero seed derives one from the clock.
func NewEngine(directions *nav.DirectionService, destinations []nav.Cell, weights []float64, tickRate, maxAgents int, seed int64) (*Engine, error) {
	if len(destinations) == 0 {
		return nil, fmt.Errorf("sim: no destinations")
	}
	if len(weights) != len(destinations) {
		return nil, fmt.Errorf("sim: %d weights for %d destinations", len(weights), len(destinations))
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	src := rand.NewSource(uint64(seed))
	return &Engine{
		agents:       make([]*Agent, 0, maxAgents),
		directions:   directions,
		grid:         directions.Grid(),
		destinations: destinations,
		destPicker:   distuv.NewCategorical(weights, src),
		tickRate:     tickRate,
		maxAgents:    maxAgents,
		stopChan:     make(chan struct{}),
		rng:          rand.New(src),
	}, nil
}

// Start begins the simulation loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.Step()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("simulation started at %d TPS", e.tickRate)
}

// Stop stops the simulation loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("simulation stopped")
}

// Step advances the simulation by one tick. Exposed so tests and offline
// tools can drive the engine without the ticker.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tickCount++
	dt := 1.0 / float64(e.tickRate)

	for _, a := range e.agents {
		a.retargetIn--
		if a.retargetIn <= 0 {
			a.Destination = e.pickDestination()
			a.retargetIn = e.retargetInterval()
		}

		dx, dy := e.directions.Direction(a.Cell(), a.Destination)
		noiseX := (e.rng.Float64()*2 - 1) * SteeringNoise
		noiseY := (e.rng.Float64()*2 - 1) * SteeringNoise
		a.steer(dx, dy, noiseX, noiseY, dt, e.grid)
	}
}

// Spawn adds n agents on random passable cells. Returns the number actually
// spawned, which is lower than n when the agent cap is hit.
func (e *Engine) Spawn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	spawned := 0
	for i := 0; i < n; i++ {
		if len(e.agents) >= e.maxAgents {
			log.Printf("agent limit reached (%d), spawned %d of %d", e.maxAgents, spawned, n)
			break
		}
		cell, ok := e.randomPassableCell()
		if !ok {
			log.Printf("no passable spawn cell found, spawned %d of %d", spawned, n)
			break
		}

		e.nextID++
		e.agents = append(e.agents, &Agent{
			ID:          e.nextID,
			X:           float64(cell.X) + 0.5,
			Y:           float64(cell.Y) + 0.5,
			Destination: e.pickDestination(),
			retargetIn:  e.retargetInterval(),
		})
		spawned++
	}
	return spawned
}

// Snapshot returns a copy of the current simulation state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	agents := make([]Agent, len(e.agents))
	for i, a := range e.agents {
		agents[i] = *a
	}
	return Snapshot{Tick: e.tickCount, Agents: agents}
}

// AgentCount returns the number of live agents.
func (e *Engine) AgentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.agents)
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickCount
}

func (e *Engine) pickDestination() int {
	return int(e.destPicker.Rand())
}

func (e *Engine) retargetInterval() int {
	return RetargetMinTicks + e.rng.Intn(RetargetMaxTicks-RetargetMinTicks)
}

// randomPassableCell samples uniformly over the grid until it hits a
// passable cell. On dense layouts the attempt cap keeps Spawn bounded.
func (e *Engine) randomPassableCell() (nav.Cell, bool) {
	w, h := e.grid.Width(), e.grid.Height()
	for attempt := 0; attempt < 1000; attempt++ {
		c := nav.Cell{X: e.rng.Intn(w), Y: e.rng.Intn(h)}
		if !e.grid.Blocked(c) {
			return c, true
		}
	}
	return nav.Cell{}, false
}
