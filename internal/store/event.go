package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
)

// EventStore defines the interface for event data persistence.
//
// Events live only inside timelines; queries scoped by timeline IDs are
// fed exclusively from the caller's own resolved timeline set, never
// from arbitrary outside IDs.
type EventStore interface {
	// Create saves a new event.
	Create(ctx context.Context, event *domain.Event) error

	// GetByID retrieves an event.
	// Returns ErrEventNotFound if the event does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)

	// Delete removes an event row.
	// Returns ErrEventNotFound if the event does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByTimeline returns a timeline's events in list order, resolved
	// through the timeline's event list. References whose event row no
	// longer exists are skipped rather than reported as an error.
	FindByTimeline(ctx context.Context, timelineID uuid.UUID) ([]*domain.Event, error)

	// Search returns the events matching the query over name and
	// description, restricted to the given timelines. Case-insensitive
	// substring match, newest first. An empty timeline set yields no rows.
	Search(ctx context.Context, query string, timelineIDs []uuid.UUID) ([]*domain.Event, error)

	// WithTx returns an EventStore that runs against the given transaction.
	WithTx(tx *sql.Tx) EventStore
}
