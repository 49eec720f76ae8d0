package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/platform/logger"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// PostgresEventStore implements the store.EventStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEventStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEventStore creates a new PostgreSQL implementation of the
// EventStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger is used.
func NewPostgresEventStore(db store.DBTX, logger *slog.Logger) *PostgresEventStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEventStore{
		db:     db,
		logger: logger.With(slog.String("component", "event_store")),
	}
}

// Ensure PostgresEventStore implements store.EventStore interface
var _ store.EventStore = (*PostgresEventStore)(nil)

// WithTx implements store.EventStore.WithTx
func (s *PostgresEventStore) WithTx(tx *sql.Tx) store.EventStore {
	return &PostgresEventStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.EventStore.Create
func (s *PostgresEventStore) Create(ctx context.Context, event *domain.Event) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("event validation failed during create",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return err
	}

	query := `
		INSERT INTO events (id, timeline_id, name, event_date, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.TimelineID,
		event.Name,
		event.Date,
		event.Description,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: timeline %s not found", store.ErrInvalidEntity, event.TimelineID)
		}
		log.Error("failed to create event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return err
	}

	log.Info("event created successfully",
		slog.String("event_id", event.ID.String()),
		slog.String("timeline_id", event.TimelineID.String()))
	return nil
}

// GetByID implements store.EventStore.GetByID
// Returns store.ErrEventNotFound if the event does not exist.
func (s *PostgresEventStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, timeline_id, name, event_date, description, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var event domain.Event
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.TimelineID,
		&event.Name,
		&event.Date,
		&event.Description,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("event not found", slog.String("event_id", id.String()))
			return nil, store.ErrEventNotFound
		}
		log.Error("failed to get event by ID",
			slog.String("error", err.Error()),
			slog.String("event_id", id.String()))
		return nil, err
	}

	return &event, nil
}

// Delete implements store.EventStore.Delete
// Returns store.ErrEventNotFound if the event does not exist.
func (s *PostgresEventStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete event",
			slog.String("error", err.Error()),
			slog.String("event_id", id.String()))
		return err
	}
	if err := CheckRowsAffected(result, store.ErrEventNotFound); err != nil {
		return err
	}

	log.Info("event deleted successfully", slog.String("event_id", id.String()))
	return nil
}

// FindByTimeline implements store.EventStore.FindByTimeline
// The inner join against timeline_events resolves the timeline's list in
// order and naturally drops references whose event row is gone.
func (s *PostgresEventStore) FindByTimeline(ctx context.Context, timelineID uuid.UUID) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.timeline_id, e.name, e.event_date, e.description, e.created_at, e.updated_at
		FROM timeline_events te
		JOIN events e ON e.id = te.event_id
		WHERE te.timeline_id = $1
		ORDER BY te.position
	`
	return s.queryEvents(ctx, query, timelineID)
}

// Search implements store.EventStore.Search
// Restricted to the given timelines; an empty set matches nothing.
func (s *PostgresEventStore) Search(ctx context.Context, query string, timelineIDs []uuid.UUID) ([]*domain.Event, error) {
	pattern := likePattern(query)

	ids := timelineIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}

	sqlQuery := `
		SELECT id, timeline_id, name, event_date, description, created_at, updated_at
		FROM events
		WHERE timeline_id = ANY($1)
		  AND (name ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC
	`
	return s.queryEvents(ctx, sqlQuery, ids, pattern)
}

// queryEvents runs a multi-row event query.
func (s *PostgresEventStore) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("event query failed", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	events := []*domain.Event{}
	for rows.Next() {
		var event domain.Event
		err := rows.Scan(
			&event.ID,
			&event.TimelineID,
			&event.Name,
			&event.Date,
			&event.Description,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
