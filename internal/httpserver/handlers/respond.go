package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/upstream"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the upstream error taxonomy onto response codes. Anything
// unrecognized is reported as a bad gateway: the backend, not this service,
// failed.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, upstream.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	case errors.Is(err, upstream.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		var status *upstream.StatusError
		if errors.As(err, &status) && status.Code >= 400 && status.Code < 500 {
			writeJSON(w, status.Code, errorResponse{Error: err.Error()})
			return
		}
		log.Error("upstream request failed", logger.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream unavailable"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
