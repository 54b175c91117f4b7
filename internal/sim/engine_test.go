package sim

import (
	"math"
	"testing"

	"crowdnav/internal/nav"
)

// newSimFixture builds an open 41x41 world with destinations at the given
// cells and an engine seeded for determinism.
func newSimFixture(t *testing.T, dests []nav.Cell, weights []float64, seed int64) *Engine {
	t.Helper()

	grid, err := nav.BuildOccupancy(nav.GridConfig{Width: 41, Height: 41, Buffer: 1, Reduce: 1}, nil)
	if err != nil {
		t.Fatalf("BuildOccupancy: %v", err)
	}
	stack, _, err := nav.BuildStack(grid, dests, 1)
	if err != nil {
		t.Fatalf("BuildStack: %v", err)
	}
	ds := nav.NewDirectionService(grid, stack, seed)

	eng, err := NewEngine(ds, dests, weights, 30, 100, seed)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return eng
}

func TestNewEngineValidation(t *testing.T) {
	grid, err := nav.BuildOccupancy(nav.GridConfig{Width: 11, Height: 11, Buffer: 1, Reduce: 1}, nil)
	if err != nil {
		t.Fatalf("BuildOccupancy: %v", err)
	}
	dest := nav.Cell{X: 5, Y: 5}
	stack, _, err := nav.BuildStack(grid, []nav.Cell{dest}, 1)
	if err != nil {
		t.Fatalf("BuildStack: %v", err)
	}
	ds := nav.NewDirectionService(grid, stack, 1)

	if _, err := NewEngine(ds, nil, nil, 30, 10, 1); err == nil {
		t.Error("expected error for zero destinations")
	}
	if _, err := NewEngine(ds, []nav.Cell{dest}, []float64{0.5, 0.5}, 30, 10, 1); err == nil {
		t.Error("expected error for weight/destination count mismatch")
	}
}

func TestSpawnPlacesAgentsOnPassableCells(t *testing.T) {
	eng := newSimFixture(t, []nav.Cell{{X: 20, Y: 20}}, []float64{1}, 42)

	if got := eng.Spawn(25); got != 25 {
		t.Fatalf("Spawn(25) = %d, want 25", got)
	}

	snap := eng.Snapshot()
	if len(snap.Agents) != 25 {
		t.Fatalf("snapshot has %d agents, want 25", len(snap.Agents))
	}
	for _, a := range snap.Agents {
		c := nav.Cell{X: int(a.X), Y: int(a.Y)}
		if eng.grid.Blocked(c) {
			t.Errorf("agent %d spawned on blocked cell (%d,%d)", a.ID, c.X, c.Y)
		}
	}
}

func TestSpawnRespectsAgentCap(t *testing.T) {
	eng := newSimFixture(t, []nav.Cell{{X: 20, Y: 20}}, []float64{1}, 42)
	eng.maxAgents = 5

	if got := eng.Spawn(10); got != 5 {
		t.Errorf("Spawn(10) with cap 5 = %d, want 5", got)
	}
	if got := eng.Spawn(1); got != 0 {
		t.Errorf("Spawn(1) at cap = %d, want 0", got)
	}
	if got := eng.AgentCount(); got != 5 {
		t.Errorf("AgentCount() = %d, want 5", got)
	}
}

func TestStepMovesAgentTowardDestination(t *testing.T) {
	dest := nav.Cell{X: 35, Y: 20}
	eng := newSimFixture(t, []nav.Cell{dest}, []float64{1}, 7)

	// Place one agent manually so the approach direction is known.
	eng.agents = append(eng.agents, &Agent{
		ID: 1, X: 5.5, Y: 20.5, Destination: 0, retargetIn: 1 << 30,
	})

	for i := 0; i < 300; i++ {
		eng.Step()
	}

	snap := eng.Snapshot()
	a := snap.Agents[0]
	if a.X < 10.5 {
		t.Errorf("agent X = %.2f after 300 ticks, want > 10.5 (moving toward x=35)", a.X)
	}
	if snap.Tick != 300 {
		t.Errorf("Tick = %d, want 300", snap.Tick)
	}
}

func TestAgentsStayOnPassableCells(t *testing.T) {
	eng := newSimFixture(t, []nav.Cell{{X: 3, Y: 3}}, []float64{1}, 99)
	eng.Spawn(20)

	for i := 0; i < 500; i++ {
		eng.Step()
	}

	for _, a := range eng.Snapshot().Agents {
		c := nav.Cell{X: int(a.X), Y: int(a.Y)}
		if eng.grid.Blocked(c) {
			t.Errorf("agent %d on blocked cell (%d,%d) after 500 ticks", a.ID, c.X, c.Y)
		}
	}
}

func TestWeightedDestinationPick(t *testing.T) {
	dests := []nav.Cell{{X: 10, Y: 10}, {X: 30, Y: 30}}
	eng := newSimFixture(t, dests, []float64{1, 0}, 5)
	eng.Spawn(50)

	for _, a := range eng.Snapshot().Agents {
		if a.Destination != 0 {
			t.Fatalf("agent %d assigned zero-weight destination %d", a.ID, a.Destination)
		}
	}
}

func TestEngineDeterministicWithSameSeed(t *testing.T) {
	run := func() Snapshot {
		eng := newSimFixture(t, []nav.Cell{{X: 20, Y: 20}, {X: 8, Y: 30}}, []float64{0.7, 0.3}, 1234)
		eng.Spawn(10)
		for i := 0; i < 200; i++ {
			eng.Step()
		}
		return eng.Snapshot()
	}

	a, b := run(), run()
	if len(a.Agents) != len(b.Agents) {
		t.Fatalf("agent counts differ: %d vs %d", len(a.Agents), len(b.Agents))
	}
	for i := range a.Agents {
		if a.Agents[i] != b.Agents[i] {
			t.Errorf("agent %d diverged: %+v vs %+v", i, a.Agents[i], b.Agents[i])
		}
	}
}

func TestRetargetIntervalBounds(t *testing.T) {
	eng := newSimFixture(t, []nav.Cell{{X: 20, Y: 20}}, []float64{1}, 3)

	for i := 0; i < 1000; i++ {
		got := eng.retargetInterval()
		if got < RetargetMinTicks || got >= RetargetMaxTicks {
			t.Fatalf("retargetInterval() = %d, want in [%d,%d)", got, RetargetMinTicks, RetargetMaxTicks)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	eng := newSimFixture(t, []nav.Cell{{X: 20, Y: 20}}, []float64{1}, 8)
	eng.Spawn(3)

	snap := eng.Snapshot()
	snap.Agents[0].X = -1000

	if eng.agents[0].X < 0 {
		t.Error("mutating snapshot affected engine state")
	}
}

func TestSteerCancelsMovementIntoWalls(t *testing.T) {
	grid, err := nav.BuildOccupancy(nav.GridConfig{Width: 11, Height: 11, Buffer: 1, Reduce: 1}, nil)
	if err != nil {
		t.Fatalf("BuildOccupancy: %v", err)
	}

	// Push hard toward the blocked border ring at x=10.
	a := &Agent{X: 9.5, Y: 5.5, VX: 60}
	for i := 0; i < 100; i++ {
		a.steer(1, 0, 0, 0, 1.0/30, grid)
	}

	if int(a.X) >= 10 {
		t.Errorf("agent entered blocked column: X = %.2f", a.X)
	}
	if a.Speed() > SpeedMultiplier+SteeringNoise+1 {
		t.Errorf("speed %.2f exceeds plausible maximum", a.Speed())
	}
}

func TestSteerBlendsVelocity(t *testing.T) {
	grid, err := nav.BuildOccupancy(nav.GridConfig{Width: 41, Height: 41, Buffer: 1, Reduce: 1}, nil)
	if err != nil {
		t.Fatalf("BuildOccupancy: %v", err)
	}

	a := &Agent{X: 20.5, Y: 20.5}
	a.steer(1, 0, 0, 0, 1.0/30, grid)

	wantVX := SpeedMultiplier * VelocityBlendRate
	if math.Abs(a.VX-wantVX) > 1e-9 {
		t.Errorf("VX after one tick = %v, want %v", a.VX, wantVX)
	}
	if a.VY != 0 {
		t.Errorf("VY = %v, want 0", a.VY)
	}
}
