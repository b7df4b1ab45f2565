package inspect

import (
	"encoding/json"
	"net/http"
)

// ── JSON responses ────────────────────────────────────────────────────────────

type envelope map[string]any

// writeJSON sends a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// success sends 200 JSON: {"data": v}
func success(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, envelope{"data": v})
}

// notFound sends 404 JSON: {"message": msg}
func notFound(w http.ResponseWriter, message ...string) {
	writeJSON(w, http.StatusNotFound, envelope{"message": first(message, "Not found.")})
}

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
