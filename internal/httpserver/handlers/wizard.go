package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/wizard"
)

type wizardStateResponse struct {
	ID          string             `json:"id"`
	Step        int                `json:"step"`
	StepName    string             `json:"stepName"`
	Fields      wizard.Fields      `json:"fields"`
	Errors      wizard.FieldErrors `json:"errors,omitempty"`
	SubmitError string             `json:"submitError,omitempty"`
}

type wizardSubmitResponse struct {
	wizardStateResponse
	BookmarkID int64              `json:"bookmarkId"`
	MapCenter  *coordinateRequest `json:"mapCenter,omitempty"`
}

// StartWizard opens a wizard form. With ?bookmark=<id> it pre-fills from an
// existing bookmark for editing.
func StartWizard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireSession(w, d); !ok {
			return
		}

		raw := r.URL.Query().Get("bookmark")
		if raw == "" {
			id, form := d.Wizards.Start()
			writeJSON(w, http.StatusCreated, wizardState(id, form))
			return
		}

		bookmarkID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid bookmark id"})
			return
		}
		bookmark, err := d.Bookmarks.Get(r.Context(), d.Sessions.Credentials(), bookmarkID)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		id, form := d.Wizards.StartEdit(bookmark)
		writeJSON(w, http.StatusCreated, wizardState(id, form))
	}
}

// GetWizard reports the form state.
func GetWizard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, form, ok := wizardForm(w, r, d)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, wizardState(id, form))
	}
}

// SetWizardFields replaces the form values without validating them.
func SetWizardFields(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, form, ok := wizardForm(w, r, d)
		if !ok {
			return
		}
		var fields wizard.Fields
		if !decodeJSON(w, r, &fields) {
			return
		}
		form.SetFields(fields)
		writeJSON(w, http.StatusOK, wizardState(id, form))
	}
}

// WizardNext validates the current step and advances when it passes.
func WizardNext(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, form, ok := wizardForm(w, r, d)
		if !ok {
			return
		}
		if _, errs := form.Next(); len(errs) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, wizardState(id, form))
			return
		}
		writeJSON(w, http.StatusOK, wizardState(id, form))
	}
}

// WizardBack steps backwards, always.
func WizardBack(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, form, ok := wizardForm(w, r, d)
		if !ok {
			return
		}
		form.Back()
		writeJSON(w, http.StatusOK, wizardState(id, form))
	}
}

type wizardLocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WizardLocation captures a confirmed coordinate into the form, resolving
// its address label on the way.
func WizardLocation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, form, ok := wizardForm(w, r, d)
		if !ok {
			return
		}
		var req wizardLocationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		label := d.Geocoder.Reverse(r.Context(), req.Lat, req.Lon)
		form.ConfirmLocation(req.Lat, req.Lon, label)
		writeJSON(w, http.StatusOK, wizardState(id, form))
	}
}

type wizardImageRequest struct {
	URL string `json:"url"`
}

// WizardAddImage records an uploaded image URL on the form.
func WizardAddImage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, form, ok := wizardForm(w, r, d)
		if !ok {
			return
		}
		var req wizardImageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		form.AddImage(req.URL)
		writeJSON(w, http.StatusOK, wizardState(id, form))
	}
}

// WizardRemoveImage drops an image URL from the form.
func WizardRemoveImage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, form, ok := wizardForm(w, r, d)
		if !ok {
			return
		}
		var req wizardImageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		form.RemoveImage(req.URL)
		writeJSON(w, http.StatusOK, wizardState(id, form))
	}
}

type wizardSubmitRequest struct {
	// MapSessionID names the map session whose placement fed the form; its
	// surface is released back to idle once the submission lands.
	MapSessionID string `json:"mapSessionId"`
}

// WizardSubmit runs the final create or update. A form that has not cleared
// the review step is rejected without a network call. Failure keeps the form
// as it was; success resets it and reports where to navigate.
func WizardSubmit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := requireSession(w, d)
		if !ok {
			return
		}
		id, form, ok := wizardForm(w, r, d)
		if !ok {
			return
		}
		var req wizardSubmitRequest
		if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
			return
		}

		outcome, err := form.Submit(r.Context(), d.Bookmarks, creds)
		if errors.Is(err, wizard.ErrIncomplete) {
			writeJSON(w, http.StatusUnprocessableEntity, wizardState(id, form))
			return
		}
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		if req.MapSessionID != "" {
			if sess, ok := d.MapSessions.Get(req.MapSessionID); ok {
				sess.Surface.Submitted()
			}
		}

		resp := wizardSubmitResponse{
			wizardStateResponse: wizardState(id, form),
			BookmarkID:          outcome.Bookmark.ID,
		}
		if lat, lon, ok := outcome.MapCenter.Coords(); ok {
			resp.MapCenter = &coordinateRequest{Lat: lat, Lon: lon}
		}
		status := http.StatusCreated
		if outcome.Updated {
			status = http.StatusOK
		}
		writeJSON(w, status, resp)
	}
}

// DropWizard discards an abandoned form.
func DropWizard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Wizards.Drop(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func wizardForm(w http.ResponseWriter, r *http.Request, d deps.Deps) (string, *wizard.Form, bool) {
	id := chi.URLParam(r, "id")
	form, ok := d.Wizards.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown wizard form"})
		return "", nil, false
	}
	return id, form, true
}

func wizardState(id string, form *wizard.Form) wizardStateResponse {
	step := form.Step()
	return wizardStateResponse{
		ID:          id,
		Step:        int(step),
		StepName:    step.String(),
		Fields:      form.Fields(),
		Errors:      form.Errors(),
		SubmitError: form.SubmitError(),
	}
}
