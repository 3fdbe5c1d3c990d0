// Package server provides the planet-data HTTP backend and a JSON view of
// the scene.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/state"
)

// Upstream answers ephemeris queries, normally an ephem.Client in Horizons mode.
type Upstream interface {
	Query(ctx context.Context, command string, date time.Time) (string, error)
}

// SnapshotSource provides the scene served at /bodies.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// Server is the HTTP backend.
type Server struct {
	app      *fiber.App
	upstream Upstream
	store    SnapshotSource
	metrics  *metrics.Collector
	log      *logging.Logger
	started  time.Time
}

// New creates a server. store and m may be nil, which disables /bodies,
// /objects and /metrics.
func New(upstream Upstream, store SnapshotSource, m *metrics.Collector, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{
		upstream: upstream,
		store:    store,
		metrics:  m,
		log:      log,
		started:  time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "ls-orrery",
		DisableStartupMessage: true,
	})

	// The planet-data contract is consumed cross-origin by browser clients.
	app.Use(cors.New())

	app.Get("/healthz", s.handleHealth)
	app.Get("/planet-data", s.handlePlanetData)
	if store != nil {
		app.Get("/bodies", s.handleBodies)
		app.Get("/objects", s.handleObjects)
	}
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	s.app = app
	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.With("addr", addr).Info("http server listening")
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
