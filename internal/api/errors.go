package api

import (
	"errors"
	"net/http"

	"github.com/techradar-io/radar-api/internal/api/shared"
	"github.com/techradar-io/radar-api/internal/auth"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/service"
)

// errUnauthorized is reported when a protected handler runs without a user.
var errUnauthorized = errors.New("unauthorized")

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, errUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, errUnauthorized):
		return "Authentication required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, service.ErrRadarNotFound):
		return "Radar not found"
	case errors.Is(err, service.ErrBlipNotFound):
		return "Blip not found"
	case errors.Is(err, service.ErrTopicNotFound):
		return "Topic not found"
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, service.ErrNotFound):
		return "Not found"
	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. Validation errors list their
// fields; everything else gets a sanitized message. fallback replaces the
// generic message for unexpected errors when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		shared.RespondWithValidationError(w, r, verr)
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
