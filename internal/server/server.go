// Package server exposes a running simulation over HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/internal/simulation"
	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// Server is the schedsim REST API.
type Server struct {
	router    chi.Router
	logger    *zap.Logger
	sim       *simulation.Simulation
	algorithm process.Algorithm
}

// New creates a Server with all routes registered. Processes posted without
// an algorithm are tagged alg.
func New(sim *simulation.Simulation, alg process.Algorithm, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.Named("server"),
		sim:       sim,
		algorithm: alg,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/clock", s.handleClock)
		r.Get("/gantt", s.handleGantt)

		r.Route("/processes", func(r chi.Router) {
			r.Get("/", s.handleListProcesses)
			r.Post("/", s.handleCreateProcess)
			r.Get("/{id}", s.handleGetProcess)
			r.Patch("/{id}", s.handleUpdateProcess)
		})
	})
}
