package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"pixel-plaza/internal/config"
	"pixel-plaza/internal/logging"
	"pixel-plaza/internal/session"
)

// Server combines the HTTP read API with the websocket hub.
type Server struct {
	engine      *session.Engine
	router      *chi.Mux
	hub         *Hub
	rateLimiter *IPRateLimiter
}

// NewServer creates the API server. Background workers do NOT start until
// Start() is called, so tests can construct a server and use Router() or
// the hub directly without goroutines running.
func NewServer(engine *session.Engine, cfg config.ServerConfig) *Server {
	s := &Server{
		engine:      engine,
		hub:         NewHub(engine, cfg.MaxConnections, cfg.MaxConnectionsPerIP),
		rateLimiter: NewIPRateLimiter(DefaultRateLimitConfig),
	}

	s.router = NewRouter(RouterConfig{
		State:       engine,
		RateLimiter: s.rateLimiter,
	})

	// Websocket endpoints live outside NewRouter because they need the hub.
	s.router.Get("/ws", s.hub.HandleWebSocket)
	s.router.Get("/socket.io/", s.handleSocketIO)

	return s
}

// Start runs the hub loop and serves HTTP. Blocks until the listener fails.
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	logging.Log.Infof("🌐 API server starting on %s", addr)
	return errors.Wrap(http.ListenAndServe(addr, s.router), "http server")
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Stop shuts down background workers.
func (s *Server) Stop() {
	s.hub.Stop()
	s.rateLimiter.Stop()
}

// handleSocketIO keeps the legacy client path working: websocket upgrades
// are accepted, the polling fallback is not supported.
func (s *Server) handleSocketIO(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Upgrade") == "websocket" {
		s.hub.HandleWebSocket(w, r)
		return
	}
	writeError(w, "use websocket", http.StatusNotFound)
}
