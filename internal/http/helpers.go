package http

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// respondError writes the standard {"error": "..."} body. The message is the
// client-facing text; log the underlying cause separately.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
