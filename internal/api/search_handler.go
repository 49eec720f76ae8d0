package api

import (
	"net/http"

	"github.com/hearthsidehq/hearthside-api/internal/api/shared"
	"github.com/hearthsidehq/hearthside-api/internal/service"
)

// SearchHandler handles cross-entity search requests.
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /api/search?q=term, fanning the query out across
// stories, timelines, and events visible to the caller.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	results, err := h.searchService.Search(r.Context(), actorID, r.URL.Query().Get("q"))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, results)
}
