package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/tennis-ledger/internal/docstore"
	"github.com/mauv0809/tennis-ledger/internal/session"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps err to a status code. Storage failures get a generic
// message so the client can offer a retry.
func writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, tennis.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing " + UserHeader + " header"})
	case errors.Is(err, docstore.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, docstore.ErrTimeout):
		log.Error("Store timed out", "action", action, "error", err)
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "Failed to " + action + ": the store timed out"})
	default:
		log.Error("Request failed", "action", action, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to " + action})
	}
}

// decodeJSON reads the request body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warn("Invalid JSON body", "error", err, "url", r.URL.String())
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return false
	}
	return true
}
