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

// PostgresCircleStore implements the store.CircleStore interface
// using a PostgreSQL database as the storage backend.
//
// The member set lives in circle_members with a composite primary key,
// so duplicate membership is impossible at the storage level too.
type PostgresCircleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCircleStore creates a new PostgreSQL implementation of the
// CircleStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger is used.
func NewPostgresCircleStore(db store.DBTX, logger *slog.Logger) *PostgresCircleStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCircleStore{
		db:     db,
		logger: logger.With(slog.String("component", "circle_store")),
	}
}

// Ensure PostgresCircleStore implements store.CircleStore interface
var _ store.CircleStore = (*PostgresCircleStore)(nil)

// WithTx implements store.CircleStore.WithTx
func (s *PostgresCircleStore) WithTx(tx *sql.Tx) store.CircleStore {
	return &PostgresCircleStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CircleStore.Create
// It writes the circle row and its member set. Callers run it inside a
// transaction so both writes land together.
func (s *PostgresCircleStore) Create(ctx context.Context, circle *domain.Circle) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := circle.Validate(); err != nil {
		log.Warn("circle validation failed during create",
			slog.String("error", err.Error()),
			slog.String("circle_id", circle.ID.String()))
		return err
	}

	query := `
		INSERT INTO circles (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		circle.ID,
		circle.Name,
		circle.OwnerID,
		circle.CreatedAt,
		circle.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner %s not found", store.ErrInvalidEntity, circle.OwnerID)
		}
		log.Error("failed to create circle",
			slog.String("error", err.Error()),
			slog.String("circle_id", circle.ID.String()))
		return err
	}

	if err := s.insertMembers(ctx, circle); err != nil {
		return err
	}

	log.Info("circle created successfully",
		slog.String("circle_id", circle.ID.String()),
		slog.String("owner_id", circle.OwnerID.String()))
	return nil
}

// GetByID implements store.CircleStore.GetByID
// Returns store.ErrCircleNotFound if the circle does not exist. The
// loaded circle is re-validated so an owner missing from the member set
// surfaces as a consistency failure instead of silently propagating.
func (s *PostgresCircleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Circle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM circles
		WHERE id = $1
	`

	var circle domain.Circle
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&circle.ID,
		&circle.Name,
		&circle.OwnerID,
		&circle.CreatedAt,
		&circle.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("circle not found", slog.String("circle_id", id.String()))
			return nil, store.ErrCircleNotFound
		}
		log.Error("failed to get circle by ID",
			slog.String("error", err.Error()),
			slog.String("circle_id", id.String()))
		return nil, err
	}

	if err := s.loadMembers(ctx, &circle); err != nil {
		return nil, err
	}

	if err := circle.Validate(); err != nil {
		log.Error("circle failed consistency check on load",
			slog.String("error", err.Error()),
			slog.String("circle_id", circle.ID.String()))
		return nil, fmt.Errorf("%w: circle %s: %v", store.ErrInvalidEntity, circle.ID, err)
	}

	return &circle, nil
}

// Update implements store.CircleStore.Update
// It replaces the circle row and member set. Callers run the surrounding
// read-modify-write inside a transaction.
// Returns store.ErrCircleNotFound if the circle does not exist.
func (s *PostgresCircleStore) Update(ctx context.Context, circle *domain.Circle) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := circle.Validate(); err != nil {
		log.Warn("circle validation failed during update",
			slog.String("error", err.Error()),
			slog.String("circle_id", circle.ID.String()))
		return err
	}

	query := `
		UPDATE circles
		SET name = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, circle.ID, circle.Name, circle.UpdatedAt)
	if err != nil {
		log.Error("failed to update circle",
			slog.String("error", err.Error()),
			slog.String("circle_id", circle.ID.String()))
		return err
	}
	if err := CheckRowsAffected(result, store.ErrCircleNotFound); err != nil {
		return err
	}

	deleteQuery := `DELETE FROM circle_members WHERE circle_id = $1`
	if _, err := s.db.ExecContext(ctx, deleteQuery, circle.ID); err != nil {
		log.Error("failed to clear circle members",
			slog.String("error", err.Error()),
			slog.String("circle_id", circle.ID.String()))
		return err
	}

	if err := s.insertMembers(ctx, circle); err != nil {
		return err
	}

	log.Info("circle updated successfully",
		slog.String("circle_id", circle.ID.String()),
		slog.Int("member_count", len(circle.MemberIDs)))
	return nil
}

// FindByMember implements store.CircleStore.FindByMember
func (s *PostgresCircleStore) FindByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Circle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.name, c.owner_id, c.created_at, c.updated_at
		FROM circles c
		JOIN circle_members cm ON cm.circle_id = c.id
		WHERE cm.member_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, memberID)
	if err != nil {
		log.Error("failed to find circles by member",
			slog.String("error", err.Error()),
			slog.String("member_id", memberID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	circles := []*domain.Circle{}
	for rows.Next() {
		var circle domain.Circle
		err := rows.Scan(
			&circle.ID,
			&circle.Name,
			&circle.OwnerID,
			&circle.CreatedAt,
			&circle.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan circle: %w", err)
		}
		circles = append(circles, &circle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate circles: %w", err)
	}

	for _, circle := range circles {
		if err := s.loadMembers(ctx, circle); err != nil {
			return nil, err
		}
	}

	return circles, nil
}

// insertMembers writes the circle's member set.
func (s *PostgresCircleStore) insertMembers(ctx context.Context, circle *domain.Circle) error {
	query := `
		INSERT INTO circle_members (circle_id, member_id, position)
		VALUES ($1, $2, $3)
	`
	for i, memberID := range circle.MemberIDs {
		if _, err := s.db.ExecContext(ctx, query, circle.ID, memberID, i); err != nil {
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: member %s not found", store.ErrInvalidEntity, memberID)
			}
			return fmt.Errorf("failed to insert circle member: %w", err)
		}
	}
	return nil
}

// loadMembers hydrates a circle's member set in insertion order.
func (s *PostgresCircleStore) loadMembers(ctx context.Context, circle *domain.Circle) error {
	query := `
		SELECT member_id
		FROM circle_members
		WHERE circle_id = $1
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, circle.ID)
	if err != nil {
		return fmt.Errorf("failed to load circle members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	circle.MemberIDs = []uuid.UUID{}
	for rows.Next() {
		var memberID uuid.UUID
		if err := rows.Scan(&memberID); err != nil {
			return fmt.Errorf("failed to scan circle member: %w", err)
		}
		circle.MemberIDs = append(circle.MemberIDs, memberID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate circle members: %w", err)
	}

	return nil
}
