package dashboard

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/medvision/internal/reports"
	"github.com/JaimeStill/medvision/pkg/storage"
)

var (
	ErrNotFound    = errors.New("saved report not found")
	ErrDuplicate   = errors.New("saved report already exists")
	ErrInvalidID   = errors.New("invalid saved report id")
	ErrInvalidBody = errors.New("invalid request body")
)

// MapHTTPStatus maps dashboard errors to HTTP status codes. Blob errors use
// the storage mapping; session and report errors fall through to the reports mapping.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	}
	if status := storage.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return reports.MapHTTPStatus(err)
}
