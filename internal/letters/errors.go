package letters

import (
	"errors"
	"net/http"
)

// Domain errors for letter operations.
var (
	ErrNotFound           = errors.New("letter not found")
	ErrDuplicate          = errors.New("letter already exists")
	ErrInvalidID          = errors.New("invalid letter id")
	ErrStageNotInPipeline = errors.New("stage not in pipeline for classification")
)

// MapHTTPStatus maps letter domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
