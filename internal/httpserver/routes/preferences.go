package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/mw"
)

func init() { Register(registerPreferences) }

func registerPreferences(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RatePerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})

	r.Get("/api/preferences", handlers.GetPreferences(d))
	r.With(limit).Put("/api/preferences/categories", handlers.SetCategories(d))
	r.With(limit).Post("/api/bookmarks/{id}/toggle", handlers.ToggleBookmark(d))
}
