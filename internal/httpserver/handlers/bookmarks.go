package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/upstream"
)

// ListBookmarks serves the full collection through the response cache.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookmarks, err := d.Bookmarks.List(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarks)
	}
}

// GetBookmark serves one bookmark, bypassing the cache.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookmarkID(w, r)
		if !ok {
			return
		}
		bookmark, err := d.Bookmarks.Get(r.Context(), d.Sessions.Credentials(), id)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmark)
	}
}

// SearchBookmarks runs a title search against the backend.
func SearchBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("title")
		results, err := d.Bookmarks.Search(r.Context(), d.Sessions.Credentials(), title)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// CreateBookmark proxies a create, invalidating the cache behind it.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := requireSession(w, d)
		if !ok {
			return
		}
		var payload upstream.BookmarkPayload
		if !decodeJSON(w, r, &payload) {
			return
		}
		created, err := d.Bookmarks.Create(r.Context(), creds, &payload)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateBookmark proxies an update.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := requireSession(w, d)
		if !ok {
			return
		}
		id, ok := bookmarkID(w, r)
		if !ok {
			return
		}
		var payload upstream.BookmarkPayload
		if !decodeJSON(w, r, &payload) {
			return
		}
		updated, err := d.Bookmarks.Update(r.Context(), creds, id, &payload)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteBookmark proxies a delete.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := requireSession(w, d)
		if !ok {
			return
		}
		id, ok := bookmarkID(w, r)
		if !ok {
			return
		}
		if err := d.Bookmarks.Delete(r.Context(), creds, id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// BookmarkOwner resolves the public identity behind a bookmark.
func BookmarkOwner(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookmarkID(w, r)
		if !ok {
			return
		}
		bookmark, err := d.Bookmarks.Get(r.Context(), d.Sessions.Credentials(), id)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		owner := d.Bookmarks.Owner(r.Context(), d.Sessions.Credentials(), bookmark.UserID)
		writeJSON(w, http.StatusOK, owner)
	}
}

// Categories serves the cached category vocabulary.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := d.Bookmarks.Categories(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

// Tags serves the cached tag vocabulary.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := d.Bookmarks.Tags(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, tags)
	}
}

func bookmarkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid bookmark id"})
		return 0, false
	}
	return id, true
}

// requireSession gates write endpoints on an active session.
func requireSession(w http.ResponseWriter, d deps.Deps) (*upstream.Credentials, bool) {
	creds := d.Sessions.Credentials()
	if creds == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return nil, false
	}
	return creds, true
}
