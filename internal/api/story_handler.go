package api

import (
	"net/http"

	"github.com/hearthsidehq/hearthside-api/internal/api/shared"
	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/service"
)

// StoryHandler handles story requests.
type StoryHandler struct {
	storyService service.StoryService
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(storyService service.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

// Create handles POST /api/stories.
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	req, ok := decodeStoryRequest(w, r)
	if !ok {
		return
	}

	story, err := h.storyService.Create(r.Context(), actorID, storyInputFromRequest(req))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, story)
}

// List handles GET /api/stories, returning the caller's own stories.
func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	stories, err := h.storyService.ListMine(r.Context(), actorID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stories)
}

// Feed handles GET /api/stories/feed, returning every story visible to
// the caller, their own included.
func (h *StoryHandler) Feed(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	stories, err := h.storyService.ListVisible(r.Context(), actorID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stories)
}

// Get handles GET /api/stories/{id}.
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, storyID, ok := requireMemberAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.storyService.GetByID(r.Context(), actorID, storyID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StoryDetailResponse{
		Story:      detail.Story,
		AuthorName: detail.AuthorName,
	})
}

// Update handles PUT /api/stories/{id}.
func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, storyID, ok := requireMemberAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	req, ok := decodeStoryRequest(w, r)
	if !ok {
		return
	}

	story, err := h.storyService.Update(r.Context(), actorID, storyID, storyInputFromRequest(req))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, story)
}

// Delete handles DELETE /api/stories/{id}.
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, storyID, ok := requireMemberAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.storyService.Delete(r.Context(), actorID, storyID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Share handles PUT /api/stories/{id}/share.
func (h *StoryHandler) Share(w http.ResponseWriter, r *http.Request) {
	actorID, storyID, ok := requireMemberAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ShareStoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	story, err := h.storyService.Share(r.Context(), actorID, storyID, req.CircleID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, story)
}

func decodeStoryRequest(w http.ResponseWriter, r *http.Request) (StoryRequest, bool) {
	var req StoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return req, false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return req, false
	}
	return req, true
}

func storyInputFromRequest(req StoryRequest) service.StoryInput {
	return service.StoryInput{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		MediaURL:  req.MediaURL,
		MediaType: domain.MediaType(req.MediaType),
	}
}
