package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready            bool   `json:"ready"`
	CollectionLoaded bool   `json:"collection_loaded"`
	Redis            string `json:"redis"`
}

// Readyz reports readiness: the marker collection has completed its initial
// fetch and Redis answers pings.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loaded := d.Bookmarks.Store().Loaded()

		redisState := "ok"
		if d.RedisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.RedisClient.Ping(ctx).Err(); err != nil {
				redisState = "down"
			}
		} else {
			redisState = "disabled"
		}

		status := http.StatusOK
		if !loaded {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{
			Ready:            loaded,
			CollectionLoaded: loaded,
			Redis:            redisState,
		})
	}
}
