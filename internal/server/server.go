// Package server exposes the room API over JSON HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tabsplit/internal/middleware"
	"tabsplit/internal/service"
)

// Server holds the HTTP handlers for the room API.
type Server struct {
	svc      *service.RoomService
	validate *validator.Validate
}

// New creates a Server around the given RoomService.
func New(svc *service.RoomService) *Server {
	return &Server{
		svc:      svc,
		validate: validator.New(),
	}
}

// Routes builds the router: ops endpoints at the root, the room API under
// /api, with logging, metrics, and CORS applied to everything.
func (s *Server) Routes(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Post("/rooms/join", s.handleJoin)
		api.Route("/rooms/{room}", func(rr chi.Router) {
			rr.Get("/", s.handleGetRoom)
			rr.Get("/split", s.handleSplit)
			rr.Post("/scan", s.handleScan)
			rr.Post("/members", s.handleAddMember)
			rr.Delete("/members/{member}", s.handleRemoveMember)
			rr.Get("/members/{member}/items", s.handleMemberItems)
			rr.Post("/items", s.handleAddItem)
			rr.Post("/items/seed", s.handleSeedItems)
			rr.Patch("/items/{id}", s.handleUpdateItem)
			rr.Delete("/items/{id}", s.handleRemoveItem)
			rr.Post("/items/{id}/assignees/toggle", s.handleToggle)
		})
	})

	return r
}
