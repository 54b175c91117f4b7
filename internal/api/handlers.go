package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"crowdnav/internal/nav"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

// handleGetDirection answers GET /api/direction?x=..&y=..&dest=..
// The response is always a valid unit step; pockets and unknown destinations
// resolve to the random fallback inside the direction service.
func (h *routerHandlers) handleGetDirection(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	dest, errD := strconv.Atoi(r.URL.Query().Get("dest"))
	if errX != nil || errY != nil || errD != nil {
		writeError(w, "x, y and dest must be integers", http.StatusBadRequest)
		return
	}

	dx, dy := h.nav.Direction(nav.Cell{X: x, Y: y}, dest)
	writeJSON(w, map[string]int{"dx": dx, "dy": dy})
}

func (h *routerHandlers) handleGetWorld(w http.ResponseWriter, r *http.Request) {
	grid := h.nav.Grid()
	writeJSON(w, map[string]interface{}{
		"layout": h.layout,
		"grid": map[string]int{
			"width":   grid.Width(),
			"height":  grid.Height(),
			"blocked": grid.BlockedCount(),
		},
	})
}

// handleGetWalls answers GET /api/walls?minx=..&miny=..&maxx=..&maxy=..
// with the wall segments whose buffered footprint intersects the region.
func (h *routerHandlers) handleGetWalls(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		writeError(w, "wall index not available", http.StatusNotFound)
		return
	}

	minX, err1 := strconv.Atoi(r.URL.Query().Get("minx"))
	minY, err2 := strconv.Atoi(r.URL.Query().Get("miny"))
	maxX, err3 := strconv.Atoi(r.URL.Query().Get("maxx"))
	maxY, err4 := strconv.Atoi(r.URL.Query().Get("maxy"))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		writeError(w, "minx, miny, maxx and maxy must be integers", http.StatusBadRequest)
		return
	}
	if minX > maxX || minY > maxY {
		writeError(w, "region is empty", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"walls": h.index.WallsIntersecting(minX, minY, maxX, maxY),
	})
}

func (h *routerHandlers) handleGetDestinations(w http.ResponseWriter, r *http.Request) {
	weights := h.layout.Weights()
	result := make([]map[string]interface{}, 0, len(h.layout.Destinations))
	for i, d := range h.layout.Destinations {
		result = append(result, map[string]interface{}{
			"index":  i,
			"name":   d.Name,
			"x":      d.X,
			"y":      d.Y,
			"weight": weights[i],
		})
	}
	writeJSON(w, result)
}

func (h *routerHandlers) handleGetAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.sim.Snapshot())
}

func (h *routerHandlers) handleSpawnAgents(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Count <= 0 {
		req.Count = 10 // Default
	}
	if req.Count > h.maxSpawn {
		req.Count = h.maxSpawn // Cap
	}

	spawned := h.sim.Spawn(req.Count)
	if spawned == 0 {
		writeError(w, "Agent limit reached", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"count":   spawned,
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	queries, fallbacks := h.nav.Stats()
	grid := h.nav.Grid()
	stack := h.nav.Stack()

	writeJSON(w, map[string]interface{}{
		"direction": map[string]uint64{
			"queries":   queries,
			"fallbacks": fallbacks,
		},
		"heatmap": map[string]int{
			"layers": stack.Layers(),
			"width":  stack.Width(),
			"height": stack.Height(),
		},
		"grid": map[string]int{
			"width":   grid.Width(),
			"height":  grid.Height(),
			"blocked": grid.BlockedCount(),
		},
		"sim": map[string]interface{}{
			"agents": h.sim.AgentCount(),
			"tick":   h.sim.TickCount(),
		},
	})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
