package handlers

import (
	"net/http"
	"strconv"

	"github.com/otramalaga/civicmap/internal/geocode"
	"github.com/otramalaga/civicmap/internal/httpserver/deps"
)

type suggestRequest struct {
	Query string `json:"query"`
}

type suggestionsResponse struct {
	Suggestions []geocode.Place `json:"suggestions"`
}

type selectRequest struct {
	Index int `json:"index"`
}

type reverseResponse struct {
	Label string `json:"label"`
	Short string `json:"short"`
}

// GeocodeInput feeds a keystroke into the debounced suggester.
func GeocodeInput(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suggestRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		d.Suggester.Input(req.Query)
		w.WriteHeader(http.StatusAccepted)
	}
}

// GeocodeSuggestions returns the current suggestion list.
func GeocodeSuggestions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: d.Suggester.Suggestions()})
	}
}

// GeocodeSelect picks one suggestion and clears the list.
func GeocodeSelect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		place, ok := d.Suggester.Select(req.Index)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such suggestion"})
			return
		}
		writeJSON(w, http.StatusOK, place)
	}
}

// GeocodeReverse resolves coordinates to a label. Failures degrade to the
// coordinate string; this endpoint never errors on lookup problems.
func GeocodeReverse(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if errLat != nil || errLon != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lat and lon are required"})
			return
		}

		label := d.Geocoder.Reverse(r.Context(), lat, lon)
		writeJSON(w, http.StatusOK, reverseResponse{
			Label: label,
			Short: geocode.ShortLabel(label, 3),
		})
	}
}
