package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/api/shared"
	"github.com/hearthsidehq/hearthside-api/internal/domain"
)

// memberIDFromContext extracts the authenticated member's UUID from the
// request context, where the auth middleware placed it.
func memberIDFromContext(r *http.Request) (uuid.UUID, bool) {
	memberID, ok := r.Context().Value(shared.MemberIDContextKey).(uuid.UUID)
	if !ok || memberID == uuid.Nil {
		return uuid.Nil, false
	}
	return memberID, true
}

// pathUUID extracts and parses a UUID path parameter.
func pathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}

	return id, nil
}

// requireMemberAndPathUUID extracts the acting member's ID and a UUID
// path parameter, writing the error response itself when either is
// missing. The boolean reports whether the handler should continue.
func requireMemberAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (uuid.UUID, uuid.UUID, bool) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := pathUUID(r, paramName)
	if err != nil {
		HandleServiceError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, pathID, true
}
