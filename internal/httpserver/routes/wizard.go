package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/httpserver/handlers"
)

func init() { Register(registerWizard) }

func registerWizard(r chi.Router, d deps.Deps) {
	r.Route("/api/wizard", func(r chi.Router) {
		r.Post("/", handlers.StartWizard(d))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetWizard(d))
			r.Delete("/", handlers.DropWizard(d))
			r.Put("/fields", handlers.SetWizardFields(d))
			r.Post("/next", handlers.WizardNext(d))
			r.Post("/back", handlers.WizardBack(d))
			r.Post("/location", handlers.WizardLocation(d))
			r.Post("/images", handlers.WizardAddImage(d))
			r.Delete("/images", handlers.WizardRemoveImage(d))
			r.Post("/submit", handlers.WizardSubmit(d))
		})
	})
}
