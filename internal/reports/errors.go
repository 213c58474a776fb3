package reports

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/medvision/internal/sessions"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported report format")
	ErrRender            = errors.New("report rendering failed")
	ErrImageTooLarge     = errors.New("image dimensions exceed the pixel limit")
)

// MapHTTPStatus maps report errors, including session errors, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrRender):
		return http.StatusInternalServerError
	}
	return sessions.MapHTTPStatus(err)
}
