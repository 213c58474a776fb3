package overlays

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates no current overlay matches the requested session and overlay ID.
var ErrNotFound = errors.New("overlay not found")

// MapHTTPStatus maps overlay errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
