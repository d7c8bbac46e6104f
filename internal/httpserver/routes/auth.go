package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/httpserver/handlers"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", handlers.Login(d))
		r.Post("/register", handlers.Register(d))
		r.Post("/logout", handlers.Logout(d))
		r.Get("/session", handlers.Session(d))
	})
}
