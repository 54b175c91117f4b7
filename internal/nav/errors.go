package nav

import "fmt"

// GeometryError reports malformed obstacle or destination input. It is fatal
// at world-construction time and is never recovered automatically.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return "nav: invalid geometry: " + e.Reason
}

// AdjacencyError reports an edge-cost query between cells that are not
// 8-adjacent. This indicates a bug in the caller, not bad world input.
type AdjacencyError struct {
	A, B Cell
}

func (e *AdjacencyError) Error() string {
	if e.A == e.B {
		return fmt.Sprintf("nav: %v and %v are the same cell", e.A, e.B)
	}
	return fmt.Sprintf("nav: %v and %v are not neighbors", e.A, e.B)
}

// NotFoundError reports a missing heatmap artifact. Callers may recover by
// rebuilding, depending on the configured cache policy.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "nav: heatmap artifact not found: " + e.Path
}

// ShapeMismatchError reports a cached artifact whose dimensions disagree with
// the current grid configuration (stale cache from a different world size).
type ShapeMismatchError struct {
	WantLayers, GotLayers int
	WantWidth, GotWidth   int
	WantHeight, GotHeight int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("nav: artifact shape (%d, %d, %d) does not match expected (%d, %d, %d)",
		e.GotLayers, e.GotWidth, e.GotHeight, e.WantLayers, e.WantWidth, e.WantHeight)
}
