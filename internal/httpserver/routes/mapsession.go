package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/httpserver/handlers"
)

func init() { Register(registerMapSessions) }

func registerMapSessions(r chi.Router, d deps.Deps) {
	r.Route("/api/map/sessions", func(r chi.Router) {
		r.Post("/", handlers.OpenMapSession(d))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetMapSession(d))
			r.Delete("/", handlers.CloseMapSession(d))
			r.Post("/click", handlers.MapClick(d))
			r.Post("/drag", handlers.MapDrag(d))
			r.Post("/confirm", handlers.MapConfirm(d))
			r.Post("/cancel", handlers.MapCancel(d))
			r.Post("/focus", handlers.MapFocus(d))
			r.Post("/locate", handlers.MapLocate(d))
		})
	})
}
