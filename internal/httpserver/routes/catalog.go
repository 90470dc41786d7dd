package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/handlers"
)

func init() { Register(registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	r.Get("/api/interests", handlers.Interests(d))
	r.Get("/api/categories", handlers.Categories(d))
	r.Get("/api/recommendations", handlers.Recommendations(d))
	r.Get("/api/saved", handlers.Saved(d))
	r.Get("/api/items/{id}/open", handlers.OpenItem(d))
	r.Get("/api/progress", handlers.Progress(d))
}
