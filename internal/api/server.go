// Package api exposes the navigation core over HTTP and WebSocket: direction
// queries, world description, agent snapshots and operational stats.
package api

import (
	"log"
	"net/http"
	"time"

	"crowdnav/internal/world"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with a WebSocket hub for live agent updates.
type Server struct {
	nav         NavInterface
	sim         SimInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(navigation NavInterface, simulation SimInterface, layout *world.Layout, index *world.Index) *Server {
	s := &Server{
		nav:   navigation,
		sim:   simulation,
		wsHub: NewWebSocketHub(),
	}

	// Create rate limiter (we track it for cleanup in Stop)
	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	// Build router using the factory
	s.router = NewRouter(RouterConfig{
		Nav:         navigation,
		Sim:         simulation,
		Layout:      layout,
		Index:       index,
		RateLimiter: s.rateLimiter,
	})

	// WebSocket routes need the wsHub instance, so they can't be part of
	// the generic NewRouter factory.
	s.router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.wsHub.HandleWebSocket(w, r)
	})

	return s
}

// Start begins the HTTP server AND starts background workers.
// This is the ONLY method that starts goroutines or opens network listeners.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	// Start background workers NOW, not in constructor
	// This is critical for testability - tests can construct the server
	// and use Router() without these workers running.
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.sim, s.nav)
	s.startMetricsLoop()

	log.Printf("API server starting on %s", addr)

	return http.ListenAndServe(addr, s.router)
}

// startMetricsLoop publishes direction and simulation gauges periodically.
func (s *Server) startMetricsLoop() {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		for range ticker.C {
			queries, fallbacks := s.nav.Stats()
			UpdateDirectionStats(queries, fallbacks)
			UpdateSimStats(s.sim.AgentCount(), s.sim.TickCount())
		}
	}()
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
// Call this before process exit to ensure clean cleanup.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	// Note: WebSocket hub doesn't have a Stop method yet,
	// connections will be closed when the process exits.
}
