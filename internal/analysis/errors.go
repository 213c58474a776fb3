package analysis

import (
	"context"
	"errors"
	"net/http"

	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/internal/uploads"
)

var (
	// ErrUnknownCategory indicates a category with no result path. Callers show nothing.
	ErrUnknownCategory = errors.New("unknown analysis category")
	// ErrTransport covers predictor connection failures and non-2xx responses.
	ErrTransport = errors.New("predictor transport failure")
	// ErrApplication covers malformed predictor bodies and {"success": false} replies.
	ErrApplication = errors.New("predictor application failure")
	ErrInvalidBody = errors.New("invalid analyze request body")
	// ErrReselect is reported when a result is showing or was dismissed and the
	// retained file has to be chosen again before another analysis.
	ErrReselect = errors.New("Please select a file to analyze again")
)

// MapHTTPStatus maps analysis errors, including the session and upload
// errors surfaced by the analyze endpoint, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownCategory):
		return http.StatusNoContent
	case errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, ErrReselect):
		return http.StatusConflict
	case errors.Is(err, uploads.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTransport), errors.Is(err, ErrApplication):
		return http.StatusBadGateway
	}
	if status := sessions.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusInternalServerError
}
