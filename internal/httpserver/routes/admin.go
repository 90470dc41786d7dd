package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

// registerAdmin mounts the health checks and operator endpoints. /healthz stays
// open for container liveness checks.
func registerAdmin(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	private := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	private.Get("/readyz", handlers.Readyz(d))

	operator := private.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	operator.Get("/infra", handlers.Infra(d))
	operator.Post("/reload", handlers.Reload(d))
}
