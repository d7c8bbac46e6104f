package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized covers 401 and 403 responses from the backend.
	ErrUnauthorized = errors.New("upstream: unauthorized")
	// ErrNotFound covers 404 responses.
	ErrNotFound = errors.New("upstream: not found")
)

// StatusError carries any other non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: unexpected status %d: %s", e.Code, e.Body)
}

// statusToError maps an HTTP status code to the client error taxonomy.
// 2xx maps to nil.
func statusToError(code int, body string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{Code: code, Body: body}
	}
}
