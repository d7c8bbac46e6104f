package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/mapview"
)

type openMapRequest struct {
	Center *mapview.Coordinate `json:"center"`
}

type mapStateResponse struct {
	ID          string              `json:"id"`
	State       string              `json:"state"`
	Viewport    mapview.Viewport    `json:"viewport"`
	Draft       *mapview.Coordinate `json:"draft,omitempty"`
	Confirmed   *mapview.Coordinate `json:"confirmed,omitempty"`
	LoginPrompt bool                `json:"loginPrompt"`
	OpenPopup   int64               `json:"openPopup,omitempty"`
	YouAreHere  *mapview.Coordinate `json:"youAreHere,omitempty"`
}

type coordinateRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type focusRequest struct {
	BookmarkID int64 `json:"bookmarkId"`
}

// OpenMapSession starts a map session, optionally centered on a requested
// coordinate.
func OpenMapSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openMapRequest
		if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
			return
		}
		sess := d.MapSessions.Open(req.Center)
		writeJSON(w, http.StatusCreated, mapState(sess))
	}
}

// GetMapSession reports the full session state.
func GetMapSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mapSession(w, r, d)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, mapState(sess))
	}
}

// CloseMapSession drops a session.
func CloseMapSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.MapSessions.Close(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// MapClick handles a click: placement with a session, login prompt without.
func MapClick(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mapSession(w, r, d)
		if !ok {
			return
		}
		var req coordinateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		loggedIn := d.Sessions.Current() != nil
		sess.Surface.Click(loggedIn, mapview.Coordinate{Lat: req.Lat, Lon: req.Lon})
		writeJSON(w, http.StatusOK, mapState(sess))
	}
}

// MapDrag moves the provisional marker.
func MapDrag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mapSession(w, r, d)
		if !ok {
			return
		}
		var req coordinateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		sess.Surface.Drag(mapview.Coordinate{Lat: req.Lat, Lon: req.Lon})
		writeJSON(w, http.StatusOK, mapState(sess))
	}
}

type confirmResponse struct {
	Coordinate mapview.Coordinate `json:"coordinate"`
	Label      string             `json:"label"`
}

// MapConfirm captures the placement and resolves its address label.
func MapConfirm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mapSession(w, r, d)
		if !ok {
			return
		}
		captured, ok := sess.Surface.Confirm()
		if !ok {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "no placement in progress"})
			return
		}
		writeJSON(w, http.StatusOK, confirmResponse{
			Coordinate: captured,
			Label:      d.Geocoder.Reverse(r.Context(), captured.Lat, captured.Lon),
		})
	}
}

// MapCancel abandons the placement.
func MapCancel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mapSession(w, r, d)
		if !ok {
			return
		}
		sess.Surface.Cancel()
		writeJSON(w, http.StatusOK, mapState(sess))
	}
}

// MapFocus recenters on a bookmark and opens its popup. Unknown ids and an
// unloaded collection leave the camera untouched.
func MapFocus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mapSession(w, r, d)
		if !ok {
			return
		}
		var req focusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		focused := sess.View.Focus(req.BookmarkID)
		writeJSON(w, http.StatusOK, struct {
			Focused bool `json:"focused"`
			mapStateResponse
		}{focused, mapState(sess)})
	}
}

// MapLocate records a geolocation fix.
func MapLocate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mapSession(w, r, d)
		if !ok {
			return
		}
		var req coordinateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		sess.View.Locate(mapview.Coordinate{Lat: req.Lat, Lon: req.Lon})
		writeJSON(w, http.StatusOK, mapState(sess))
	}
}

func mapSession(w http.ResponseWriter, r *http.Request, d deps.Deps) (*mapview.Session, bool) {
	sess, ok := d.MapSessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown map session"})
		return nil, false
	}
	return sess, true
}

func mapState(sess *mapview.Session) mapStateResponse {
	resp := mapStateResponse{
		ID:          sess.ID,
		State:       sess.Surface.State().String(),
		Viewport:    sess.View.Viewport(),
		LoginPrompt: sess.Surface.LoginPromptVisible(),
	}
	if draft, ok := sess.Surface.Draft(); ok {
		resp.Draft = &draft
	}
	if confirmed, ok := sess.Surface.Confirmed(); ok {
		resp.Confirmed = &confirmed
	}
	if id, open := sess.View.OpenPopup(); open {
		resp.OpenPopup = id
	}
	if fix, ok := sess.View.YouAreHere(); ok {
		resp.YouAreHere = &fix
	}
	return resp
}
