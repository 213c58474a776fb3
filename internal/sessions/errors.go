package sessions

import (
	"errors"
	"net/http"
)

// Domain errors for session operations.
var (
	ErrNotFound           = errors.New("session not found")
	ErrInvalidID          = errors.New("invalid session id")
	ErrNoFile             = errors.New("Please select a file first")
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrInvalidTransition  = errors.New("invalid session state transition")
	ErrNoResult           = errors.New("session has no analysis result")
)

// MapHTTPStatus maps session domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAnalysisInProgress),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrNoResult):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
