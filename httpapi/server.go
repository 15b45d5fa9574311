package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sacchen/deborgen/lifecycle"
)

// Server is the coordinator's HTTP surface: a chi router wired against
// one lifecycle.Service. It implements http.Handler so it can be
// passed straight to http.Server or httptest.NewServer.
type Server struct {
	service *lifecycle.Service
	log     *slog.Logger
	router  chi.Router
}

// New builds a Server. token, if non-empty, enables bearer-token auth
// on every endpoint except /health, per spec §4.3.
func New(service *lifecycle.Service, token string, log *slog.Logger) *Server {
	s := &Server{service: service, log: log}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(bearerAuth(token, log))

	r.Get("/health", s.handleHealth)

	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", s.handleCreateJob)
		r.Get("/", s.handleListJobs)
		r.Get("/next", s.handleClaimNextJob)
		r.Get("/{id}", s.handleGetJob)
		r.Post("/{id}/finish", s.handleFinishJob)
		r.Post("/{id}/logs", s.handleAppendLogs)
		r.Get("/{id}/logs", s.handleReadLogs)
	})

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/{node_id}/heartbeat", s.handleHeartbeat)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
