package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/httpserver/handlers"
)

func init() { Register(registerGeocode) }

func registerGeocode(r chi.Router, d deps.Deps) {
	r.Route("/api/geocode", func(r chi.Router) {
		r.Post("/input", handlers.GeocodeInput(d))
		r.Get("/suggestions", handlers.GeocodeSuggestions(d))
		r.Post("/select", handlers.GeocodeSelect(d))
		r.Get("/reverse", handlers.GeocodeReverse(d))
	})
}
