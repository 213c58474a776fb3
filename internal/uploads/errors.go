package uploads

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is the root of every image validation failure.
	ErrValidation  = errors.New("validation failed")
	ErrInvalidType = fmt.Errorf("%w: unsupported image type", ErrValidation)
	ErrTooLarge    = fmt.Errorf("%w: image too large", ErrValidation)

	ErrMissingFile     = errors.New("multipart field \"file\" is required")
	ErrNoSelection     = errors.New("no file selected")
	ErrRequestTooLarge = errors.New("upload exceeds the request size limit")
)

// ValidationError carries the user-facing message for a rejected image.
// It unwraps to ErrInvalidType or ErrTooLarge, and through them to ErrValidation.
type ValidationError struct {
	Reason  error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// MapHTTPStatus maps upload domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrMissingFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoSelection):
		return http.StatusNotFound
	case errors.Is(err, ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
