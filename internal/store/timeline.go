package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
)

// TimelineStore defines the interface for timeline data persistence.
type TimelineStore interface {
	// Create saves a new timeline.
	Create(ctx context.Context, timeline *domain.Timeline) error

	// GetByID retrieves a timeline with its event ID list in list order.
	// Returns ErrTimelineNotFound if the timeline does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Timeline, error)

	// Update replaces a timeline's mutable state, including its event list.
	// Returns ErrTimelineNotFound if the timeline does not exist.
	Update(ctx context.Context, timeline *domain.Timeline) error

	// Delete removes a timeline and its event list entries.
	// Returns ErrTimelineNotFound if the timeline does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByOwner returns all timelines owned by the given member,
	// newest first. Timelines are owner-only; there is no shared variant.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Timeline, error)

	// Search returns the owner's timelines matching the query over title
	// and description. Case-insensitive substring match, newest first.
	Search(ctx context.Context, query string, ownerID uuid.UUID) ([]*domain.Timeline, error)

	// WithTx returns a TimelineStore that runs against the given transaction.
	WithTx(tx *sql.Tx) TimelineStore
}
