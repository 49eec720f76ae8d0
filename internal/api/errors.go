package api

import (
	"errors"
	"net/http"

	"github.com/hearthsidehq/hearthside-api/internal/api/shared"
	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/service"
	"github.com/hearthsidehq/hearthside-api/internal/service/auth"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes. This keeps the service layer free of HTTP concerns and prevents
// internal error types from leaking to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrNotCircleMember),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors. store.ErrNotFound covers every entity-specific
	// not-found sentinel; invisible records arrive here already masked.
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrAlreadyCircleMember),
		errors.Is(err, service.ErrChildAlreadyLinked):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrEmptySearchQuery),
		errors.Is(err, store.ErrInvalidEntity),
		domain.IsValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error. Raw error strings never reach clients.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	case errors.Is(err, service.ErrNotCircleMember):
		return "You are not a member of this circle"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Operation not permitted"

	case errors.Is(err, store.ErrMemberNotFound):
		return "Member not found"

	case errors.Is(err, store.ErrCircleNotFound):
		return "Circle not found"

	case errors.Is(err, store.ErrStoryNotFound):
		return "Story not found"

	case errors.Is(err, store.ErrTimelineNotFound):
		return "Timeline not found"

	case errors.Is(err, store.ErrEventNotFound):
		return "Event not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrAlreadyCircleMember):
		return "Member already belongs to the circle"

	case errors.Is(err, service.ErrChildAlreadyLinked):
		return "Child is already linked"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, service.ErrEmptySearchQuery):
		return "Search query cannot be empty"

	case errors.Is(err, domain.ErrOwnerRemoval):
		return "The circle owner cannot be removed"

	case domain.IsValidationError(err), errors.Is(err, store.ErrInvalidEntity):
		// Domain validation messages carry no sensitive detail and help
		// the caller fix the request.
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError maps a service-layer error to its HTTP response:
// sanitized message to the client, redacted detail to the logs.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
