package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crowdnav/internal/nav"
	"crowdnav/internal/sim"
	"crowdnav/internal/world"
)

// mockNav is a minimal NavInterface for handler tests.
type mockNav struct {
	grid  *nav.OccupancyGrid
	stack *nav.Stack

	lastPos  nav.Cell
	lastDest int
}

func (m *mockNav) Direction(pos nav.Cell, destIndex int) (int, int) {
	m.lastPos, m.lastDest = pos, destIndex
	return 1, -1
}
func (m *mockNav) Stats() (uint64, uint64)  { return 42, 3 }
func (m *mockNav) Grid() *nav.OccupancyGrid { return m.grid }
func (m *mockNav) Stack() *nav.Stack        { return m.stack }

// mockSim is a minimal SimInterface for handler tests.
type mockSim struct {
	agents    int
	maxAgents int
}

func (m *mockSim) Snapshot() sim.Snapshot {
	return sim.Snapshot{Tick: 7, Agents: make([]sim.Agent, m.agents)}
}
func (m *mockSim) Spawn(n int) int {
	room := m.maxAgents - m.agents
	if n > room {
		n = room
	}
	m.agents += n
	return n
}
func (m *mockSim) AgentCount() int  { return m.agents }
func (m *mockSim) TickCount() int64 { return 7 }

func testLayout() *world.Layout {
	return &world.Layout{
		Name:   "test",
		Width:  20,
		Height: 20,
		Walls: []world.WallSpec{
			{X1: 8, Y1: 2, X2: 8, Y2: 10, Thickness: 3},
		},
		Destinations: []world.Destination{
			{Name: "gate", X: 3, Y: 5},
			{Name: "hall", X: 14, Y: 14, Weight: 0.5},
		},
	}
}

func newTestServer(t *testing.T, simulation SimInterface) (*httptest.Server, *mockNav) {
	t.Helper()

	layout := testLayout()
	segments, err := layout.Segments()
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	grid, err := nav.BuildOccupancy(nav.GridConfig{Width: 20, Height: 20, Buffer: 1, Reduce: 1}, segments)
	if err != nil {
		t.Fatalf("BuildOccupancy: %v", err)
	}
	stack, _, err := nav.BuildStack(grid, layout.DestinationCells(), 1)
	if err != nil {
		t.Fatalf("BuildStack: %v", err)
	}
	index, err := world.NewIndex(segments, 1)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	mn := &mockNav{grid: grid, stack: stack}
	router := NewRouter(RouterConfig{
		Nav:    mn,
		Sim:    simulation,
		Layout: layout,
		Index:  index,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 10000, // High limit so tests never throttle
			Burst:             10000,
			CleanupInterval:   time.Minute,
		},
		DisableLogging: true,
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, mn
}

func decodeBody(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestDirectionEndpoint(t *testing.T) {
	ts, mn := newTestServer(t, &mockSim{maxAgents: 10})

	resp, err := http.Get(ts.URL + "/api/direction?x=3&y=9&dest=1")
	if err != nil {
		t.Fatalf("GET /api/direction: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got map[string]int
	decodeBody(t, resp, &got)
	if got["dx"] != 1 || got["dy"] != -1 {
		t.Errorf("direction = (%d,%d), want (1,-1)", got["dx"], got["dy"])
	}
	if mn.lastPos != (nav.Cell{X: 3, Y: 9}) || mn.lastDest != 1 {
		t.Errorf("service called with pos=%v dest=%d", mn.lastPos, mn.lastDest)
	}
}

func TestDirectionEndpointRejectsBadParams(t *testing.T) {
	ts, _ := newTestServer(t, &mockSim{maxAgents: 10})

	for _, query := range []string{
		"",
		"?x=1&y=2",
		"?x=a&y=2&dest=0",
		"?x=1&y=&dest=0",
	} {
		resp, err := http.Get(ts.URL + "/api/direction" + query)
		if err != nil {
			t.Fatalf("GET %q: %v", query, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestWorldEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, &mockSim{maxAgents: 10})

	resp, err := http.Get(ts.URL + "/api/world")
	if err != nil {
		t.Fatalf("GET /api/world: %v", err)
	}

	var got struct {
		Layout world.Layout   `json:"layout"`
		Grid   map[string]int `json:"grid"`
	}
	decodeBody(t, resp, &got)

	if got.Layout.Name != "test" {
		t.Errorf("layout name = %q, want \"test\"", got.Layout.Name)
	}
	if got.Grid["width"] != 20 || got.Grid["height"] != 20 {
		t.Errorf("grid dims = %dx%d, want 20x20", got.Grid["width"], got.Grid["height"])
	}
	if got.Grid["blocked"] == 0 {
		t.Error("blocked count = 0, border ring should be blocked")
	}
}

func TestWallsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, &mockSim{maxAgents: 10})

	resp, err := http.Get(ts.URL + "/api/walls?minx=0&miny=0&maxx=19&maxy=19")
	if err != nil {
		t.Fatalf("GET /api/walls: %v", err)
	}
	var got struct {
		Walls []nav.Segment `json:"walls"`
	}
	decodeBody(t, resp, &got)
	if len(got.Walls) != 1 {
		t.Fatalf("got %d walls for full-world region, want 1", len(got.Walls))
	}

	// Region away from the wall footprint.
	resp, err = http.Get(ts.URL + "/api/walls?minx=15&miny=15&maxx=18&maxy=18")
	if err != nil {
		t.Fatalf("GET /api/walls: %v", err)
	}
	decodeBody(t, resp, &got)
	if len(got.Walls) != 0 {
		t.Errorf("got %d walls for empty region, want 0", len(got.Walls))
	}

	// Malformed and inverted regions.
	for _, query := range []string{"?minx=1&miny=1&maxx=x&maxy=5", "?minx=5&miny=5&maxx=1&maxy=9"} {
		resp, err := http.Get(ts.URL + "/api/walls" + query)
		if err != nil {
			t.Fatalf("GET %q: %v", query, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestDestinationsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, &mockSim{maxAgents: 10})

	resp, err := http.Get(ts.URL + "/api/destinations")
	if err != nil {
		t.Fatalf("GET /api/destinations: %v", err)
	}

	var got []struct {
		Index  int     `json:"index"`
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
	}
	decodeBody(t, resp, &got)

	if len(got) != 2 {
		t.Fatalf("got %d destinations, want 2", len(got))
	}
	if got[0].Name != "gate" || got[1].Name != "hall" {
		t.Errorf("names = %q,%q", got[0].Name, got[1].Name)
	}
	if got[1].Weight != 0.5 {
		t.Errorf("hall weight = %v, want 0.5", got[1].Weight)
	}
	if got[0].Weight != 0.5 {
		t.Errorf("gate weight = %v, want the remaining 0.5", got[0].Weight)
	}
}

func TestSpawnAgentsEndpoint(t *testing.T) {
	ms := &mockSim{maxAgents: 100}
	ts, _ := newTestServer(t, ms)

	body := bytes.NewBufferString(`{"count": 25}`)
	resp, err := http.Post(ts.URL+"/api/agents", "application/json", body)
	if err != nil {
		t.Fatalf("POST /api/agents: %v", err)
	}

	var got struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	decodeBody(t, resp, &got)

	if !got.Success || got.Count != 25 {
		t.Errorf("spawn response = %+v, want success with count 25", got)
	}
	if ms.agents != 25 {
		t.Errorf("sim has %d agents, want 25", ms.agents)
	}
}

func TestSpawnAgentsAtCapReturns503(t *testing.T) {
	ms := &mockSim{agents: 100, maxAgents: 100}
	ts, _ := newTestServer(t, ms)

	resp, err := http.Post(ts.URL+"/api/agents", "application/json", bytes.NewBufferString(`{"count": 5}`))
	if err != nil {
		t.Fatalf("POST /api/agents: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestSpawnAgentsRejectsBadBody(t *testing.T) {
	ts, _ := newTestServer(t, &mockSim{maxAgents: 10})

	resp, err := http.Post(ts.URL+"/api/agents", "application/json", bytes.NewBufferString("not json"))
	if err != nil {
		t.Fatalf("POST /api/agents: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, &mockSim{agents: 12, maxAgents: 100})

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET /api/stats: %v", err)
	}

	var got struct {
		Direction map[string]uint64      `json:"direction"`
		Heatmap   map[string]int         `json:"heatmap"`
		Sim       map[string]interface{} `json:"sim"`
	}
	decodeBody(t, resp, &got)

	if got.Direction["queries"] != 42 || got.Direction["fallbacks"] != 3 {
		t.Errorf("direction stats = %v", got.Direction)
	}
	if got.Heatmap["layers"] != 2 {
		t.Errorf("heatmap layers = %d, want 2", got.Heatmap["layers"])
	}
	if got.Sim["agents"].(float64) != 12 {
		t.Errorf("sim agents = %v, want 12", got.Sim["agents"])
	}
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, &mockSim{maxAgents: 10})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRateLimiterRejectsFloods(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             2,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("burst of 2 should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third immediate request should be rejected")
	}
	// Separate IPs get their own buckets.
	if !rl.Allow("10.0.0.2") {
		t.Error("different IP should be allowed")
	}

	stats := rl.GetStats()
	if stats["rejected"] != 1 {
		t.Errorf("rejected = %d, want 1", stats["rejected"])
	}
}

func TestWebSocketRateLimiter(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("1.2.3.4") || !wrl.Allow("1.2.3.4") {
		t.Fatal("first two connections should be allowed")
	}
	if wrl.Allow("1.2.3.4") {
		t.Error("third connection should be rejected")
	}

	wrl.Release("1.2.3.4")
	if !wrl.Allow("1.2.3.4") {
		t.Error("connection after release should be allowed")
	}
	if got := wrl.GetConnectionCount("1.2.3.4"); got != 2 {
		t.Errorf("connection count = %d, want 2", got)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.168.1.5:1234", nil, "192.168.1.5"},
		{"x-forwarded-for single", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"x-forwarded-for chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.3"}, "198.51.100.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
