package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Bookmarks  *int   `json:"bookmarks_loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	ServingMode string                     `json:"serving_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := d.Bookmarks.Store()
		count := store.Count()
		lastRefresh := "never"
		if t := store.LastRefresh(); !t.IsZero() {
			lastRefresh = t.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"collection": {
				OK:         store.Loaded(),
				Bookmarks:  &count,
				LastReload: lastRefresh,
			},
			"redis": checkRedis(d),
			"media": checkMedia(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			ServingMode: determineServingMode(components),
			Components:  components,
		})
	}
}

func determineServingMode(components map[string]componentStatus) string {
	if collection, exists := components["collection"]; exists && !collection.OK {
		return "critical" // nothing to plot yet
	}
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded" // every read hits the backend
	}
	return "cached"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "response-cache-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "response-cache-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "response-cache-enabled",
		Error:  "none",
	}
}

func checkMedia(ctx context.Context, d deps.Deps) componentStatus {
	if d.Uploader == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "uploads-unavailable",
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Uploader.HealthCheck(checkCtx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "uploads-unavailable",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}
