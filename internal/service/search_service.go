package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// SearchResults aggregates one search across all entity kinds. All three
// slices are non-nil; an empty result set is an empty slice, never null.
type SearchResults struct {
	Stories   []*domain.Story    `json:"stories"`
	Timelines []*domain.Timeline `json:"timelines"`
	Events    []*domain.Event    `json:"events"`
}

// SearchService runs a keyword search across stories, timelines, and
// events in a single call.
type SearchService interface {
	// Search matches the query case-insensitively against story titles,
	// content, and tags; timeline titles and descriptions; and event
	// names and descriptions. Story results are scoped to what the actor
	// can see; timeline and event results cover only the actor's own
	// timelines. Returns ErrEmptySearchQuery when the query is blank.
	//
	// The result is all-or-nothing: if any sub-search fails, the whole
	// search fails with that error and no partial results.
	Search(ctx context.Context, actorID uuid.UUID, query string) (*SearchResults, error)
}

// searchServiceImpl implements the SearchService interface.
type searchServiceImpl struct {
	storyStore    store.StoryStore
	timelineStore store.TimelineStore
	eventStore    store.EventStore
	resolver      MembershipResolver
	logger        *slog.Logger
}

var _ SearchService = (*searchServiceImpl)(nil)

// NewSearchService creates a new SearchService.
func NewSearchService(
	storyStore store.StoryStore,
	timelineStore store.TimelineStore,
	eventStore store.EventStore,
	resolver MembershipResolver,
	logger *slog.Logger,
) SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchServiceImpl{
		storyStore:    storyStore,
		timelineStore: timelineStore,
		eventStore:    eventStore,
		resolver:      resolver,
		logger:        logger.With("component", "search_service"),
	}
}

// Search fans out to the three entity searches concurrently and joins
// the results. Membership is resolved once, before the fan-out, so every
// sub-search filters against the same snapshot. The event scope is
// derived from the actor's timelines, resolved up front for the same
// reason.
func (s *searchServiceImpl) Search(
	ctx context.Context,
	actorID uuid.UUID,
	query string,
) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchQuery
	}

	membership, err := s.resolver.ResolveMembership(ctx, actorID)
	if err != nil {
		return nil, err
	}

	timelines, err := s.timelineStore.FindByOwner(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to resolve timelines for search",
			"error", err,
			"actor_id", actorID)
		return nil, fmt.Errorf("failed to resolve timelines: %w", err)
	}
	timelineIDs := make([]uuid.UUID, 0, len(timelines))
	for _, t := range timelines {
		timelineIDs = append(timelineIDs, t.ID)
	}

	results := &SearchResults{}

	// Each goroutine writes only its own slot; the first failure cancels
	// the group's context and surfaces alone.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stories, err := s.storyStore.Search(gctx, query, actorID, membership.CircleIDs())
		if err != nil {
			return fmt.Errorf("story search failed: %w", err)
		}
		results.Stories = stories
		return nil
	})

	g.Go(func() error {
		found, err := s.timelineStore.Search(gctx, query, actorID)
		if err != nil {
			return fmt.Errorf("timeline search failed: %w", err)
		}
		results.Timelines = found
		return nil
	})

	g.Go(func() error {
		events, err := s.eventStore.Search(gctx, query, timelineIDs)
		if err != nil {
			return fmt.Errorf("event search failed: %w", err)
		}
		results.Events = events
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("search fan-out failed",
			"error", err,
			"actor_id", actorID)
		return nil, err
	}

	if results.Stories == nil {
		results.Stories = []*domain.Story{}
	}
	if results.Timelines == nil {
		results.Timelines = []*domain.Timeline{}
	}
	if results.Events == nil {
		results.Events = []*domain.Event{}
	}

	s.logger.Debug("search completed",
		"actor_id", actorID,
		"story_count", len(results.Stories),
		"timeline_count", len(results.Timelines),
		"event_count", len(results.Events))

	return results, nil
}
