package api

import (
	"errors"
	"net/http"

	"github.com/careerforge/pitch-api/internal/dispatch"
	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/reconcile"
	"github.com/careerforge/pitch-api/internal/service/auth"
	"github.com/careerforge/pitch-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found
	case errors.Is(err, store.ErrDraftNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	// Bad request
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrTaskIDEmpty),
		errors.Is(err, domain.ErrEmptyResult),
		errors.Is(err, dispatch.ErrEmptyTaskID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Upstream provider failures
	case errors.Is(err, dispatch.ErrInvalidConfig),
		errors.Is(err, dispatch.ErrProviderRejected),
		errors.Is(err, dispatch.ErrSubmitFailed):
		return http.StatusBadGateway

	// Poll budget exhausted
	case errors.Is(err, reconcile.ErrPollTimeout):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for the error. Raw
// error strings never reach the client.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "You do not own this pitch"

	case errors.Is(err, store.ErrDraftNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return "Pitch not found"

	case errors.Is(err, domain.ErrEmptyResult):
		return "Result cannot be empty"

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrTaskIDEmpty),
		errors.Is(err, dispatch.ErrEmptyTaskID):
		return "Invalid pitch ID"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	case errors.Is(err, dispatch.ErrInvalidConfig),
		errors.Is(err, dispatch.ErrProviderRejected),
		errors.Is(err, dispatch.ErrSubmitFailed):
		return "Generation service is unavailable, please try again"

	case errors.Is(err, reconcile.ErrPollTimeout):
		return "Generation timed out, please try again"

	default:
		return "An unexpected error occurred"
	}
}
