package api

import (
	"net/http"

	"crowdnav/internal/nav"
	"crowdnav/internal/sim"
	"crowdnav/internal/world"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NavInterface defines the navigation methods used by the API.
// This interface enables mocking for tests without building full heatmaps.
// Keep this minimal - only include methods the API layer actually calls.
type NavInterface interface {
	// Direction returns the steering step from pos toward the destination layer
	Direction(pos nav.Cell, destIndex int) (dx, dy int)
	// Stats returns cumulative query and fallback counts
	Stats() (queries, fallbacks uint64)
	// Grid returns the occupancy grid the directions are computed on
	Grid() *nav.OccupancyGrid
	// Stack returns the heatmap stack backing the direction queries
	Stack() *nav.Stack
}

// SimInterface defines the simulation methods used by the API.
// This interface enables mocking for tests that don't need a running tick loop.
type SimInterface interface {
	// Snapshot returns the latest immutable agent snapshot
	Snapshot() sim.Snapshot
	// Spawn adds n agents and returns the number actually spawned
	Spawn(n int) int
	// AgentCount returns the number of live agents
	AgentCount() int
	// TickCount returns the number of completed simulation ticks
	TickCount() int64
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Nav:    mockNav,
//	    Sim:    mockSim,
//	    Layout: world.Campus(),
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Nav answers direction queries (required)
	Nav NavInterface

	// Sim is the crowd simulation (required)
	Sim SimInterface

	// Layout is the world description served to clients (required)
	Layout *world.Layout

	// Index answers wall region queries. Optional; without it
	// GET /api/walls returns 404.
	Index *world.Index

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default origins.
	CORSOrigins []string

	// MaxSpawnPerRequest caps POST /api/agents. Zero means the default of 500.
	MaxSpawnPerRequest int

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
// This is used internally to pass handlers to route setup.
type routerHandlers struct {
	nav      NavInterface
	sim      SimInterface
	layout   *world.Layout
	index    *world.Index
	maxSpawn int
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started
//   - No network listeners are opened
//   - No background workers are launched
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	// CORS configuration
	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	maxSpawn := cfg.MaxSpawnPerRequest
	if maxSpawn <= 0 {
		maxSpawn = 500
	}

	h := &routerHandlers{
		nav:      cfg.Nav,
		sim:      cfg.Sim,
		layout:   cfg.Layout,
		index:    cfg.Index,
		maxSpawn: maxSpawn,
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Navigation
		r.Get("/direction", h.handleGetDirection)

		// World description
		r.Get("/world", h.handleGetWorld)
		r.Get("/walls", h.handleGetWalls)
		r.Get("/destinations", h.handleGetDestinations)

		// Simulation
		r.Get("/agents", h.handleGetAgents)
		r.Post("/agents", h.handleSpawnAgents)

		// System
		r.Get("/stats", h.handleGetStats)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
