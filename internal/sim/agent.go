package sim

import (
	"math"

	"crowdnav/internal/nav"
)

// Movement tuning. Velocity chases the steering direction with an
// exponential blend so agents turn smoothly instead of snapping between
// the eight grid directions.
const (
	// VelocityBlendRate is the per-tick fraction of the velocity replaced
	// by the target velocity.
	VelocityBlendRate = 0.015
	// SpeedMultiplier scales the unit steering direction into cells/second.
	SpeedMultiplier = 30.0
	// SteeringNoise is the half-width of the uniform noise added to each
	// target velocity component, in cells/second.
	SteeringNoise = 2.0

	// Retarget bounds, in ticks. Each agent picks a new destination after
	// a uniform random number of ticks in [RetargetMinTicks, RetargetMaxTicks).
	RetargetMinTicks = 9000
	RetargetMaxTicks = 72000
)

// Agent is a single simulated walker heading toward one destination.
type Agent struct {
	ID          int     `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	Destination int     `json:"destination"`

	// Ticks remaining until the agent picks a new destination.
	retargetIn int
}

// Cell returns the grid cell the agent currently occupies.
func (a *Agent) Cell() nav.Cell {
	return nav.Cell{X: int(a.X), Y: int(a.Y)}
}

// steer blends the agent's velocity toward the steering direction and
// integrates position. Movement into a blocked cell is cancelled per axis,
// which lets agents slide along walls instead of sticking to them.
func (a *Agent) steer(dx, dy int, noiseX, noiseY float64, dt float64, grid *nav.OccupancyGrid) {
	targetVX := float64(dx)*SpeedMultiplier + noiseX
	targetVY := float64(dy)*SpeedMultiplier + noiseY

	a.VX += (targetVX - a.VX) * VelocityBlendRate
	a.VY += (targetVY - a.VY) * VelocityBlendRate

	nextX := a.X + a.VX*dt
	nextY := a.Y + a.VY*dt

	if grid.Blocked(nav.Cell{X: int(nextX), Y: int(a.Y)}) {
		nextX = a.X
		a.VX = 0
	}
	if grid.Blocked(nav.Cell{X: int(a.X), Y: int(nextY)}) {
		nextY = a.Y
		a.VY = 0
	}
	// Diagonal corner: each axis alone is passable but the combined move
	// lands in a blocked cell.
	if grid.Blocked(nav.Cell{X: int(nextX), Y: int(nextY)}) {
		nextX, nextY = a.X, a.Y
		a.VX, a.VY = 0, 0
	}

	a.X = nextX
	a.Y = nextY
}

// Speed returns the agent's current speed in cells/second.
func (a *Agent) Speed() float64 {
	return math.Hypot(a.VX, a.VY)
}
