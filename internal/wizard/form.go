package wizard

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/otramalaga/civicmap/internal/bookmarks"
	"github.com/otramalaga/civicmap/internal/domain"
	"github.com/otramalaga/civicmap/internal/upstream"
)

// Step identifies one of the four ordered wizard steps.
type Step int

const (
	// StepDetails collects title, tag and category.
	StepDetails Step = iota + 1
	// StepMedia collects the description and uploaded images.
	StepMedia
	// StepLocation optionally places the bookmark on the map.
	StepLocation
	// StepReview shows the assembled bookmark before submission.
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepMedia:
		return "media"
	case StepLocation:
		return "location"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// Fields mirrors the form inputs as the client submits them. Numeric and
// coordinate fields stay textual until payload assembly.
type Fields struct {
	Title      string `json:"title"`
	TagID      string `json:"tagId"`
	CategoryID string `json:"categoryId"`

	Description string   `json:"description"`
	Video       string   `json:"video"`
	URL         string   `json:"url"`
	ImageURLs   []string `json:"imageUrls"`

	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Address   string `json:"address"`
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// Outcome tells the caller where to navigate after a successful submission.
type Outcome struct {
	Bookmark *domain.Bookmark
	// Updated distinguishes an edit submission from a create.
	Updated bool
	// MapCenter is set when the created bookmark is plottable; nil sends
	// the caller to the default listing instead.
	MapCenter *domain.Location
}

// Form is one client's pass through the wizard. A zero editID means create;
// otherwise submit updates that bookmark.
type Form struct {
	now    func() time.Time
	editID int64

	mu        sync.Mutex
	step      Step
	fields    Fields
	errors    FieldErrors
	submitErr string
}

// NewForm starts an empty creation form on the first step.
func NewForm() *Form {
	return &Form{now: time.Now, step: StepDetails, errors: FieldErrors{}}
}

// NewEditForm starts a form pre-filled from an existing bookmark.
func NewEditForm(b *domain.Bookmark) *Form {
	f := NewForm()
	f.editID = b.ID
	f.fields = Fields{
		Title:       b.Title,
		Description: b.Description,
		Video:       b.Video,
		URL:         b.URL,
		ImageURLs:   append([]string(nil), b.ImageURLs...),
	}
	if lat, lon, ok := b.Location.Coords(); ok {
		f.fields.Latitude = strconv.FormatFloat(lat, 'f', -1, 64)
		f.fields.Longitude = strconv.FormatFloat(lon, 'f', -1, 64)
	}
	return f
}

// Step returns the current step.
func (f *Form) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Fields returns a copy of the current field values.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copyFieldsLocked()
}

// Errors returns the current field errors.
func (f *Form) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(FieldErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// SubmitError returns the message of the last failed submission.
func (f *Form) SubmitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitErr
}

// SetFields replaces the field values. Validation happens on Next, not here.
func (f *Form) SetFields(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

// AddImage appends an uploaded image URL.
func (f *Form) AddImage(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.ImageURLs = append(f.fields.ImageURLs, url)
}

// RemoveImage drops an uploaded image URL.
func (f *Form) RemoveImage(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.fields.ImageURLs[:0]
	for _, u := range f.fields.ImageURLs {
		if u != url {
			kept = append(kept, u)
		}
	}
	f.fields.ImageURLs = kept
}

// ConfirmLocation captures a confirmed map coordinate and clears any
// location errors.
func (f *Form) ConfirmLocation(lat, lon float64, address string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fields.Latitude = strconv.FormatFloat(lat, 'f', -1, 64)
	f.fields.Longitude = strconv.FormatFloat(lon, 'f', -1, 64)
	f.fields.Address = address
	delete(f.errors, "latitude")
	delete(f.errors, "longitude")
}

// Next validates the current step and advances when it passes. On failure
// the step stays and the errors are returned.
func (f *Form) Next() (Step, FieldErrors) {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := validateStep(f.step, f.fields)
	f.errors = errs
	if len(errs) > 0 {
		return f.step, errs
	}
	if f.step < StepReview {
		f.step++
	}
	return f.step, nil
}

// Back moves one step backwards. Never blocked, never below the first step.
func (f *Form) Back() Step {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step > StepDetails {
		f.step--
	}
	return f.step
}

// Payload assembles the wire payload from the current fields. The location
// is included only when both coordinates parse.
func (f *Form) Payload() *upstream.BookmarkPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payloadLocked()
}

func (f *Form) payloadLocked() *upstream.BookmarkPayload {
	tagID, _ := strconv.ParseInt(f.fields.TagID, 10, 64)
	categoryID, _ := strconv.ParseInt(f.fields.CategoryID, 10, 64)

	payload := &upstream.BookmarkPayload{
		Title:           f.fields.Title,
		Description:     f.fields.Description,
		TagID:           tagID,
		CategoryID:      categoryID,
		Video:           f.fields.Video,
		URL:             f.fields.URL,
		PublicationDate: f.now().UTC(),
		ImageURLs:       append([]string(nil), f.fields.ImageURLs...),
	}

	lat, errLat := strconv.ParseFloat(f.fields.Latitude, 64)
	lon, errLon := strconv.ParseFloat(f.fields.Longitude, 64)
	if errLat == nil && errLon == nil {
		payload.Location = domain.NewLocation(lat, lon)
	}
	return payload
}

// ErrIncomplete reports a submission attempted before the form cleared the
// review step and its gated validations.
var ErrIncomplete = errors.New("wizard form incomplete")

// Submit runs the final network call. The form must be on the review step
// with the gated steps still valid; otherwise the field errors are recorded
// and no request is sent. On network failure the form keeps its step and
// values; on success it resets for the next bookmark and reports where to
// navigate.
func (f *Form) Submit(ctx context.Context, svc *bookmarks.Service, creds *upstream.Credentials) (*Outcome, error) {
	f.mu.Lock()
	errs := FieldErrors{}
	for _, gated := range []Step{StepDetails, StepMedia} {
		for field, msg := range validateStep(gated, f.fields) {
			errs[field] = msg
		}
	}
	if f.step != StepReview || len(errs) > 0 {
		f.errors = errs
		f.mu.Unlock()
		return nil, ErrIncomplete
	}
	payload := f.payloadLocked()
	editID := f.editID
	f.mu.Unlock()

	var (
		saved *domain.Bookmark
		err   error
	)
	if editID != 0 {
		saved, err = svc.Update(ctx, creds, editID, payload)
	} else {
		saved, err = svc.Create(ctx, creds, payload)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.submitErr = err.Error()
		return nil, err
	}

	outcome := &Outcome{Bookmark: saved, Updated: editID != 0}
	if saved.Plottable() {
		outcome.MapCenter = saved.Location
	}

	f.step = StepDetails
	f.fields = Fields{}
	f.errors = FieldErrors{}
	f.submitErr = ""
	return outcome, nil
}

func (f *Form) copyFieldsLocked() Fields {
	fields := f.fields
	fields.ImageURLs = append([]string(nil), f.fields.ImageURLs...)
	return fields
}

func validateStep(step Step, fields Fields) FieldErrors {
	errs := FieldErrors{}
	switch step {
	case StepDetails:
		if fields.Title == "" {
			errs["title"] = "El título es obligatorio"
		} else if utf8.RuneCountInString(fields.Title) > domain.TitleMaxLen {
			errs["title"] = "El título no puede superar los 100 caracteres"
		}
		if fields.TagID == "" {
			errs["tagId"] = "Selecciona una etiqueta"
		}
		if fields.CategoryID == "" {
			errs["categoryId"] = "Selecciona una categoría"
		}
	case StepMedia:
		if utf8.RuneCountInString(fields.Description) < domain.DescriptionMinLen {
			errs["description"] = "La descripción debe tener al menos 100 caracteres"
		} else if utf8.RuneCountInString(fields.Description) > domain.DescriptionMaxLen {
			errs["description"] = "La descripción no puede superar los 250 caracteres"
		}
		if len(fields.ImageURLs) == 0 {
			errs["images"] = "Debes subir al menos una imagen"
		}
	case StepLocation, StepReview:
		// No blocking validation.
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
