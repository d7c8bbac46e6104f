package handlers

import (
	"net/http"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
)

// Reload triggers an out-of-cycle collection refresh. Non-blocking: when a
// refresh is already queued the request is still acknowledged.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.RefreshTrigger == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "refresh scheduler disabled"})
			return
		}

		select {
		case d.RefreshTrigger <- struct{}{}:
		default:
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh triggered"})
	}
}
