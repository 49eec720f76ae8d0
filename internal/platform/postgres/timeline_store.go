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

// PostgresTimelineStore implements the store.TimelineStore interface
// using a PostgreSQL database as the storage backend.
//
// The event list lives in timeline_events. Entries deliberately carry no
// foreign key to events: an event row can be deleted before its list
// entry, and readers skip references that no longer resolve.
type PostgresTimelineStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTimelineStore creates a new PostgreSQL implementation of the
// TimelineStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger is used.
func NewPostgresTimelineStore(db store.DBTX, logger *slog.Logger) *PostgresTimelineStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTimelineStore{
		db:     db,
		logger: logger.With(slog.String("component", "timeline_store")),
	}
}

// Ensure PostgresTimelineStore implements store.TimelineStore interface
var _ store.TimelineStore = (*PostgresTimelineStore)(nil)

// WithTx implements store.TimelineStore.WithTx
func (s *PostgresTimelineStore) WithTx(tx *sql.Tx) store.TimelineStore {
	return &PostgresTimelineStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TimelineStore.Create
func (s *PostgresTimelineStore) Create(ctx context.Context, timeline *domain.Timeline) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := timeline.Validate(); err != nil {
		log.Warn("timeline validation failed during create",
			slog.String("error", err.Error()),
			slog.String("timeline_id", timeline.ID.String()))
		return err
	}

	query := `
		INSERT INTO timelines (id, owner_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		timeline.ID,
		timeline.OwnerID,
		timeline.Title,
		timeline.Description,
		timeline.CreatedAt,
		timeline.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner %s not found", store.ErrInvalidEntity, timeline.OwnerID)
		}
		log.Error("failed to create timeline",
			slog.String("error", err.Error()),
			slog.String("timeline_id", timeline.ID.String()))
		return err
	}

	if err := s.insertEventList(ctx, timeline); err != nil {
		return err
	}

	log.Info("timeline created successfully",
		slog.String("timeline_id", timeline.ID.String()),
		slog.String("owner_id", timeline.OwnerID.String()))
	return nil
}

// GetByID implements store.TimelineStore.GetByID
// Returns store.ErrTimelineNotFound if the timeline does not exist.
func (s *PostgresTimelineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Timeline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, description, created_at, updated_at
		FROM timelines
		WHERE id = $1
	`

	var timeline domain.Timeline
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&timeline.ID,
		&timeline.OwnerID,
		&timeline.Title,
		&timeline.Description,
		&timeline.CreatedAt,
		&timeline.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("timeline not found", slog.String("timeline_id", id.String()))
			return nil, store.ErrTimelineNotFound
		}
		log.Error("failed to get timeline by ID",
			slog.String("error", err.Error()),
			slog.String("timeline_id", id.String()))
		return nil, err
	}

	if err := s.loadEventList(ctx, &timeline); err != nil {
		return nil, err
	}

	return &timeline, nil
}

// Update implements store.TimelineStore.Update
// Returns store.ErrTimelineNotFound if the timeline does not exist.
func (s *PostgresTimelineStore) Update(ctx context.Context, timeline *domain.Timeline) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := timeline.Validate(); err != nil {
		log.Warn("timeline validation failed during update",
			slog.String("error", err.Error()),
			slog.String("timeline_id", timeline.ID.String()))
		return err
	}

	query := `
		UPDATE timelines
		SET title = $2, description = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		timeline.ID,
		timeline.Title,
		timeline.Description,
		timeline.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update timeline",
			slog.String("error", err.Error()),
			slog.String("timeline_id", timeline.ID.String()))
		return err
	}
	if err := CheckRowsAffected(result, store.ErrTimelineNotFound); err != nil {
		return err
	}

	deleteQuery := `DELETE FROM timeline_events WHERE timeline_id = $1`
	if _, err := s.db.ExecContext(ctx, deleteQuery, timeline.ID); err != nil {
		return fmt.Errorf("failed to clear timeline event list: %w", err)
	}
	if err := s.insertEventList(ctx, timeline); err != nil {
		return err
	}

	log.Info("timeline updated successfully",
		slog.String("timeline_id", timeline.ID.String()),
		slog.Int("event_count", len(timeline.EventIDs)))
	return nil
}

// Delete implements store.TimelineStore.Delete
// Returns store.ErrTimelineNotFound if the timeline does not exist.
func (s *PostgresTimelineStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM timelines WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete timeline",
			slog.String("error", err.Error()),
			slog.String("timeline_id", id.String()))
		return err
	}
	if err := CheckRowsAffected(result, store.ErrTimelineNotFound); err != nil {
		return err
	}

	log.Info("timeline deleted successfully", slog.String("timeline_id", id.String()))
	return nil
}

// FindByOwner implements store.TimelineStore.FindByOwner
func (s *PostgresTimelineStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Timeline, error) {
	query := `
		SELECT id, owner_id, title, description, created_at, updated_at
		FROM timelines
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	return s.queryTimelines(ctx, query, ownerID)
}

// Search implements store.TimelineStore.Search
// Only the owner's timelines are ever searched; there is no shared scope.
func (s *PostgresTimelineStore) Search(ctx context.Context, query string, ownerID uuid.UUID) ([]*domain.Timeline, error) {
	pattern := likePattern(query)

	sqlQuery := `
		SELECT id, owner_id, title, description, created_at, updated_at
		FROM timelines
		WHERE owner_id = $1
		  AND (title ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC
	`
	return s.queryTimelines(ctx, sqlQuery, ownerID, pattern)
}

// queryTimelines runs a multi-row timeline query and hydrates event lists.
func (s *PostgresTimelineStore) queryTimelines(ctx context.Context, query string, args ...any) ([]*domain.Timeline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("timeline query failed", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	timelines := []*domain.Timeline{}
	for rows.Next() {
		var timeline domain.Timeline
		err := rows.Scan(
			&timeline.ID,
			&timeline.OwnerID,
			&timeline.Title,
			&timeline.Description,
			&timeline.CreatedAt,
			&timeline.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline: %w", err)
		}
		timelines = append(timelines, &timeline)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timelines: %w", err)
	}

	for _, timeline := range timelines {
		if err := s.loadEventList(ctx, timeline); err != nil {
			return nil, err
		}
	}

	return timelines, nil
}

// insertEventList writes a timeline's event reference list.
func (s *PostgresTimelineStore) insertEventList(ctx context.Context, timeline *domain.Timeline) error {
	query := `INSERT INTO timeline_events (timeline_id, event_id, position) VALUES ($1, $2, $3)`
	for i, eventID := range timeline.EventIDs {
		if _, err := s.db.ExecContext(ctx, query, timeline.ID, eventID, i); err != nil {
			return fmt.Errorf("failed to insert timeline event reference: %w", err)
		}
	}
	return nil
}

// loadEventList hydrates a timeline's event ID list in list order.
func (s *PostgresTimelineStore) loadEventList(ctx context.Context, timeline *domain.Timeline) error {
	query := `
		SELECT event_id
		FROM timeline_events
		WHERE timeline_id = $1
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, timeline.ID)
	if err != nil {
		return fmt.Errorf("failed to load timeline event list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	timeline.EventIDs = []uuid.UUID{}
	for rows.Next() {
		var eventID uuid.UUID
		if err := rows.Scan(&eventID); err != nil {
			return fmt.Errorf("failed to scan timeline event reference: %w", err)
		}
		timeline.EventIDs = append(timeline.EventIDs, eventID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate timeline event references: %w", err)
	}

	return nil
}
