package handlers

import (
	"net/http"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/session"
	"github.com/otramalaga/civicmap/internal/upstream"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
}

// Login authenticates against the backend and activates the session.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		user, err := d.Sessions.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		// Never echo the bearer token back to the browser.
		sanitized := *user
		sanitized.Token = ""
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true, User: &sanitized})
	}
}

// Register creates an account without starting a session.
func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upstream.RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := d.Sessions.Register(r.Context(), req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// Logout drops the active session.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Sessions.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

// Session reports whether a user is logged in.
func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := d.Sessions.Current()
		if user == nil {
			writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
			return
		}
		sanitized := *user
		sanitized.Token = ""
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true, User: &sanitized})
	}
}
