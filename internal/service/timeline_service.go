package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// TimelineDetail is the read model for a single timeline: the timeline
// plus its events resolved in list order. Event references whose row no
// longer exists are skipped, so Events may be shorter than the
// timeline's event ID list.
type TimelineDetail struct {
	Timeline *domain.Timeline `json:"timeline"`
	Events   []*domain.Event  `json:"events"`
}

// TimelineService provides timeline and event operations. Timelines are
// strictly owner-private; any access by a non-owner is reported as not
// found, never as forbidden.
type TimelineService interface {
	// Create creates a new timeline owned by the actor.
	Create(ctx context.Context, actorID uuid.UUID, title, description string) (*domain.Timeline, error)

	// ListMine returns the actor's timelines, newest first.
	ListMine(ctx context.Context, actorID uuid.UUID) ([]*domain.Timeline, error)

	// GetByID retrieves one timeline with its resolved events.
	// Non-owners get store.ErrTimelineNotFound.
	GetByID(ctx context.Context, actorID, timelineID uuid.UUID) (*TimelineDetail, error)

	// AddEvent creates an event and appends it to the timeline's event
	// list. Both writes run in one transaction.
	AddEvent(ctx context.Context, actorID, timelineID uuid.UUID, name string, date time.Time, description string) (*domain.Event, error)

	// RemoveEvent deletes an event from the timeline: the event row is
	// removed first, then its list entry. A missing event returns
	// store.ErrEventNotFound.
	RemoveEvent(ctx context.Context, actorID, timelineID, eventID uuid.UUID) error
}

// timelineServiceImpl implements the TimelineService interface.
type timelineServiceImpl struct {
	timelineStore store.TimelineStore
	eventStore    store.EventStore
	db            *sql.DB
	logger        *slog.Logger
}

var _ TimelineService = (*timelineServiceImpl)(nil)

// NewTimelineService creates a new TimelineService.
func NewTimelineService(
	timelineStore store.TimelineStore,
	eventStore store.EventStore,
	db *sql.DB,
	logger *slog.Logger,
) TimelineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &timelineServiceImpl{
		timelineStore: timelineStore,
		eventStore:    eventStore,
		db:            db,
		logger:        logger.With("component", "timeline_service"),
	}
}

// Create creates a new timeline owned by the actor.
func (s *timelineServiceImpl) Create(
	ctx context.Context,
	actorID uuid.UUID,
	title, description string,
) (*domain.Timeline, error) {
	timeline, err := domain.NewTimeline(actorID, title, description)
	if err != nil {
		s.logger.Debug("timeline creation failed validation",
			"error", err,
			"owner_id", actorID)
		return nil, fmt.Errorf("failed to create timeline: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.timelineStore.WithTx(tx).Create(ctx, timeline)
	})
	if err != nil {
		s.logger.Error("failed to save timeline",
			"error", err,
			"owner_id", actorID)
		return nil, fmt.Errorf("failed to save timeline: %w", err)
	}

	s.logger.Info("timeline created",
		"timeline_id", timeline.ID,
		"owner_id", actorID)

	return timeline, nil
}

// ListMine returns the actor's timelines, newest first.
func (s *timelineServiceImpl) ListMine(
	ctx context.Context,
	actorID uuid.UUID,
) ([]*domain.Timeline, error) {
	timelines, err := s.timelineStore.FindByOwner(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to list timelines",
			"error", err,
			"owner_id", actorID)
		return nil, fmt.Errorf("failed to list timelines: %w", err)
	}
	return timelines, nil
}

// GetByID retrieves a timeline the actor owns, with its events resolved
// in list order. Dangling event references are skipped.
func (s *timelineServiceImpl) GetByID(
	ctx context.Context,
	actorID, timelineID uuid.UUID,
) (*TimelineDetail, error) {
	timeline, err := s.loadOwned(ctx, actorID, timelineID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventStore.FindByTimeline(ctx, timelineID)
	if err != nil {
		s.logger.Error("failed to resolve timeline events",
			"error", err,
			"timeline_id", timelineID)
		return nil, fmt.Errorf("failed to resolve timeline events: %w", err)
	}

	return &TimelineDetail{Timeline: timeline, Events: events}, nil
}

// AddEvent creates an event and appends it to the timeline's event list
// within one transaction.
func (s *timelineServiceImpl) AddEvent(
	ctx context.Context,
	actorID, timelineID uuid.UUID,
	name string,
	date time.Time,
	description string,
) (*domain.Event, error) {
	timeline, err := s.loadOwned(ctx, actorID, timelineID)
	if err != nil {
		return nil, err
	}

	event, err := domain.NewEvent(timelineID, name, date, description)
	if err != nil {
		s.logger.Debug("event creation failed validation",
			"error", err,
			"timeline_id", timelineID)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.eventStore.WithTx(tx).Create(ctx, event); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}

		timeline.AppendEvent(event.ID)
		if err := s.timelineStore.WithTx(tx).Update(ctx, timeline); err != nil {
			return fmt.Errorf("failed to append event to timeline: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to add event",
			"error", err,
			"timeline_id", timelineID,
			"event_id", event.ID)
		return nil, err
	}

	s.logger.Info("event added to timeline",
		"timeline_id", timelineID,
		"event_id", event.ID)

	return event, nil
}

// RemoveEvent deletes an event and its list entry: the event row is
// removed first, then the reference. The two writes share a transaction;
// a reader between them would simply skip the dangling reference.
func (s *timelineServiceImpl) RemoveEvent(
	ctx context.Context,
	actorID, timelineID, eventID uuid.UUID,
) error {
	timeline, err := s.loadOwned(ctx, actorID, timelineID)
	if err != nil {
		return err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txEvents := s.eventStore.WithTx(tx)

		event, err := txEvents.GetByID(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to retrieve event: %w", err)
		}
		if event.TimelineID != timelineID {
			return store.ErrEventNotFound
		}

		if err := txEvents.Delete(ctx, eventID); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}

		timeline.DetachEvent(eventID)
		if err := s.timelineStore.WithTx(tx).Update(ctx, timeline); err != nil {
			return fmt.Errorf("failed to detach event from timeline: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("remove event rejected",
				"error", err,
				"timeline_id", timelineID,
				"event_id", eventID)
		} else {
			s.logger.Error("failed to remove event",
				"error", err,
				"timeline_id", timelineID,
				"event_id", eventID)
		}
		return err
	}

	s.logger.Info("event removed from timeline",
		"timeline_id", timelineID,
		"event_id", eventID)

	return nil
}

// loadOwned loads a timeline and applies the ownership gate: timelines
// owned by someone else are reported as not found.
func (s *timelineServiceImpl) loadOwned(
	ctx context.Context,
	actorID, timelineID uuid.UUID,
) (*domain.Timeline, error) {
	timeline, err := s.timelineStore.GetByID(ctx, timelineID)
	if err != nil {
		if !errors.Is(err, store.ErrTimelineNotFound) {
			s.logger.Error("failed to retrieve timeline",
				"error", err,
				"timeline_id", timelineID)
		}
		return nil, fmt.Errorf("failed to retrieve timeline: %w", err)
	}

	if timeline.OwnerID != actorID {
		s.logger.Debug("timeline hidden from actor",
			"timeline_id", timelineID,
			"actor_id", actorID)
		return nil, store.ErrTimelineNotFound
	}

	return timeline, nil
}
