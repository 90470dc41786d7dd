package mw

import (
	"net/http"

	"github.com/goccy/go-json"
)

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func forbidden(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
}
