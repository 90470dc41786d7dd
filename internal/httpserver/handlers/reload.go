package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
)

type reloadResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reload triggers a manual reload of the catalog file
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual catalog reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, reloadResponse{
				Triggered: true,
				Message:   "reload triggered",
			})
		default:
			d.Logger.Warn("catalog reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{
				Message: "reload already in progress, please wait",
			})
		}
	}
}
