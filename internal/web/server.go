package web

import (
	"context"
	"net/http"

	"tennis-league/internal/loader"
	"tennis-league/internal/store"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	board     loader.Loader
	store     store.Store
	templates *Templates
	checks    map[string]HealthChecker
}

// NewServer serves standings computed from board. When entries is non-nil the
// result entry pages are mounted as well and write to it.
func NewServer(board loader.Loader, entries store.Store, templates *Templates) *Server {
	return &Server{board: board, store: entries, templates: templates, checks: map[string]HealthChecker{}}
}

// AddHealthCheck makes /healthz report unhealthy while check fails.
func (s *Server) AddHealthCheck(name string, check HealthChecker) {
	s.checks[name] = check
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleStandings)
	r.Get("/standings", s.handleStandingsTable)
	r.Get("/api/standings", s.handleStandingsJSON)

	if s.store != nil {
		r.Get("/matches", s.handleMatches)
		r.Post("/matches", s.handleMatchCreate)
		r.Post("/matches/{matchID}/delete", s.handleMatchDelete)
		r.Post("/players", s.handlePlayerAdd)
		r.Post("/players/{playerID}/remove", s.handlePlayerRemove)
	}

	return r
}

func (s *Server) canEdit() bool {
	return s.store != nil
}

// refresh drops any cached snapshot after the store changed.
func (s *Server) refresh(ctx context.Context) {
	if inv, ok := s.board.(interface{ Invalidate(context.Context) error }); ok {
		_ = inv.Invalidate(ctx)
	}
}
