package handlers

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// mediaTypeParam reads ?type=, defaulting to books.
func mediaTypeParam(r *http.Request) (domain.MediaType, error) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return domain.MediaBook, nil
	}
	return domain.ParseMediaType(raw)
}
