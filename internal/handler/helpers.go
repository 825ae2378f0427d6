package handler

import (
	"errors"
	"net/http"

	"giftstock-backend/internal/service"
	"giftstock-backend/internal/store"
)

// httpStatus maps engine errors onto HTTP status codes. Anything outside the
// typed taxonomy is treated as a bad request; persistence failures are the
// caller's cue to retry.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyDecided),
		errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrUnknownTarget):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrIO):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
