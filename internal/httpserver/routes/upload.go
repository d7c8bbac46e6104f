package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/httpserver/handlers"
)

func init() { Register(registerUpload) }

func registerUpload(r chi.Router, d deps.Deps) {
	r.Post("/api/upload", handlers.Upload(d))
	r.Delete("/api/upload", handlers.RemoveUpload(d))
}
