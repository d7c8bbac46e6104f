package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/httpserver/handlers"
)

func init() { Register(registerMarkers) }

func registerMarkers(r chi.Router, d deps.Deps) {
	r.Get("/api/markers", handlers.Markers(d))
	r.Post("/api/reload", handlers.Reload(d))
}
