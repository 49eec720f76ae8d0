package api

import (
	"net/http"

	"github.com/hearthsidehq/hearthside-api/internal/api/shared"
	"github.com/hearthsidehq/hearthside-api/internal/service"
)

// TimelineHandler handles timeline and event requests.
type TimelineHandler struct {
	timelineService service.TimelineService
}

// NewTimelineHandler creates a new TimelineHandler.
func NewTimelineHandler(timelineService service.TimelineService) *TimelineHandler {
	return &TimelineHandler{timelineService: timelineService}
}

// Create handles POST /api/timelines.
func (h *TimelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTimelineRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	timeline, err := h.timelineService.Create(r.Context(), actorID, req.Title, req.Description)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, timeline)
}

// List handles GET /api/timelines, returning the caller's own timelines.
func (h *TimelineHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	timelines, err := h.timelineService.ListMine(r.Context(), actorID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, timelines)
}

// Get handles GET /api/timelines/{id}.
func (h *TimelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, timelineID, ok := requireMemberAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.timelineService.GetByID(r.Context(), actorID, timelineID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TimelineDetailResponse{
		Timeline: detail.Timeline,
		Events:   detail.Events,
	})
}

// AddEvent handles POST /api/timelines/{id}/events.
func (h *TimelineHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	actorID, timelineID, ok := requireMemberAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddEventRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	event, err := h.timelineService.AddEvent(
		r.Context(), actorID, timelineID, req.Name, req.Date, req.Description)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, event)
}

// RemoveEvent handles DELETE /api/timelines/{timelineID}/events/{eventID}.
func (h *TimelineHandler) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	actorID, timelineID, ok := requireMemberAndPathUUID(w, r, "timelineID")
	if !ok {
		return
	}

	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.timelineService.RemoveEvent(r.Context(), actorID, timelineID, eventID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
