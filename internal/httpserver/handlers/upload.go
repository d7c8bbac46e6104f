package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/media"
)

// maxUploadBytes bounds a single multipart upload.
const maxUploadBytes = 32 << 20

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload streams one multipart file into media storage and returns its
// public URL. Closing the connection cancels the transfer mid-flight.
func Upload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireSession(w, d); !ok {
			return
		}
		if d.Uploader == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "media storage disabled"})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "multipart field 'file' is required"})
			return
		}
		defer func() { _ = file.Close() }()

		contentType := header.Header.Get("Content-Type")
		url, err := d.Uploader.Upload(r.Context(), header.Filename, contentType, file, header.Size)
		switch {
		case errors.Is(err, media.ErrUnsupportedType):
			writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: err.Error()})
			return
		case errors.Is(err, context.Canceled):
			// Client went away; nothing sensible to answer.
			return
		case err != nil:
			d.Logger.Error("upload failed", logger.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "media storage unavailable"})
			return
		}

		writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
	}
}

// RemoveUpload deletes a previously uploaded object by its public URL.
func RemoveUpload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireSession(w, d); !ok {
			return
		}
		if d.Uploader == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "media storage disabled"})
			return
		}

		var req uploadResponse
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := d.Uploader.Remove(r.Context(), req.URL); err != nil {
			d.Logger.Warn("upload removal failed", logger.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "media storage unavailable"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
