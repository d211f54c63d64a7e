package httpapi

import (
	"encoding/json"
	"net/http"
)

// apiError is a structured error response.
type apiError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // best-effort write; the connection may already be closed
		json.NewEncoder(w).Encode(v)
	}
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, apiError{Status: http.StatusInternalServerError, Message: message})
}
