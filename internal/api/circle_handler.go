package api

import (
	"net/http"

	"github.com/hearthsidehq/hearthside-api/internal/api/shared"
	"github.com/hearthsidehq/hearthside-api/internal/service"
)

// CircleHandler handles family circle requests.
type CircleHandler struct {
	circleService service.CircleService
}

// NewCircleHandler creates a new CircleHandler.
func NewCircleHandler(circleService service.CircleService) *CircleHandler {
	return &CircleHandler{circleService: circleService}
}

// Create handles POST /api/circles.
func (h *CircleHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateCircleRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	circle, err := h.circleService.Create(r.Context(), actorID, req.Name)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, circle)
}

// List handles GET /api/circles, returning circles the caller belongs to.
func (h *CircleHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	circles, err := h.circleService.ListMine(r.Context(), actorID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, circles)
}

// AddMember handles POST /api/circles/{id}/members.
func (h *CircleHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actorID, circleID, ok := requireMemberAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddCircleMemberRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	circle, err := h.circleService.AddMember(r.Context(), actorID, circleID, req.Email)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, circle)
}

// RemoveMember handles DELETE /api/circles/{circleID}/members/{memberID}.
func (h *CircleHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, circleID, ok := requireMemberAndPathUUID(w, r, "circleID")
	if !ok {
		return
	}

	memberID, err := pathUUID(r, "memberID")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	circle, err := h.circleService.RemoveMember(r.Context(), actorID, circleID, memberID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, circle)
}
