package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable indicates the reporting backend is unreachable.
	ErrBackendUnavailable = errors.New("reporting backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrNotFound indicates the backend no longer has the addressed record
	// (e.g. retrying a delete that already succeeded).
	ErrNotFound = errors.New("record not found on backend")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("backend retry attempts exhausted")
)

// APIError is a non-2xx response from the backend. Message carries the
// body's "error" field verbatim when present, so server-side validation
// text reaches the user unchanged.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Is makes 404 responses match ErrNotFound so callers can branch on the
// delete-after-delete case without inspecting status codes.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}
