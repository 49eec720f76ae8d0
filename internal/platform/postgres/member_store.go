package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/platform/logger"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// PostgresMemberStore implements the store.MemberStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMemberStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMemberStore creates a new PostgreSQL implementation of the
// MemberStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger is used.
func NewPostgresMemberStore(db store.DBTX, logger *slog.Logger) *PostgresMemberStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMemberStore{
		db:     db,
		logger: logger.With(slog.String("component", "member_store")),
	}
}

// Ensure PostgresMemberStore implements store.MemberStore interface
var _ store.MemberStore = (*PostgresMemberStore)(nil)

// WithTx implements store.MemberStore.WithTx
func (s *PostgresMemberStore) WithTx(tx *sql.Tx) store.MemberStore {
	return &PostgresMemberStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.MemberStore.Create
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresMemberStore) Create(ctx context.Context, member *domain.Member) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := member.Validate(); err != nil {
		log.Warn("member validation failed during create",
			slog.String("error", err.Error()),
			slog.String("member_id", member.ID.String()))
		return err
	}

	query := `
		INSERT INTO members (id, name, email, role, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		member.ID,
		member.Name,
		member.Email,
		member.Role,
		member.HashedPassword,
		member.CreatedAt,
		member.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during member creation",
				slog.String("member_id", member.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create member",
			slog.String("error", err.Error()),
			slog.String("member_id", member.ID.String()))
		return err
	}

	log.Info("member created successfully",
		slog.String("member_id", member.ID.String()),
		slog.String("role", string(member.Role)))
	return nil
}

// GetByID implements store.MemberStore.GetByID
// Returns store.ErrMemberNotFound if the member does not exist.
func (s *PostgresMemberStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, email, role, hashed_password, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	member, err := s.scanMember(ctx, s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("member not found", slog.String("member_id", id.String()))
			return nil, store.ErrMemberNotFound
		}
		log.Error("failed to get member by ID",
			slog.String("error", err.Error()),
			slog.String("member_id", id.String()))
		return nil, err
	}

	return member, nil
}

// GetByEmail implements store.MemberStore.GetByEmail
// The lookup is case-insensitive.
// Returns store.ErrMemberNotFound if no member has the email.
func (s *PostgresMemberStore) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, email, role, hashed_password, created_at, updated_at
		FROM members
		WHERE lower(email) = lower($1)
	`

	member, err := s.scanMember(ctx, s.db.QueryRowContext(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("member not found by email")
			return nil, store.ErrMemberNotFound
		}
		log.Error("failed to get member by email",
			slog.String("error", err.Error()))
		return nil, err
	}

	return member, nil
}

// AddChild implements store.MemberStore.AddChild
// Returns store.ErrDuplicate if the link already exists and
// store.ErrMemberNotFound if either member is missing.
func (s *PostgresMemberStore) AddChild(ctx context.Context, parentID, childID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO member_children (parent_id, child_id)
		VALUES ($1, $2)
	`
	_, err := s.db.ExecContext(ctx, query, parentID, childID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: child already linked", store.ErrDuplicate)
		}
		if IsForeignKeyViolation(err) {
			return store.ErrMemberNotFound
		}

		log.Error("failed to link child member",
			slog.String("error", err.Error()),
			slog.String("parent_id", parentID.String()),
			slog.String("child_id", childID.String()))
		return err
	}

	log.Info("child member linked",
		slog.String("parent_id", parentID.String()),
		slog.String("child_id", childID.String()))
	return nil
}

// scanMember reads a member row and hydrates the child links.
func (s *PostgresMemberStore) scanMember(ctx context.Context, row *sql.Row) (*domain.Member, error) {
	var member domain.Member
	var role string

	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Email,
		&role,
		&member.HashedPassword,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	member.Role = domain.Role(role)

	childQuery := `
		SELECT child_id
		FROM member_children
		WHERE parent_id = $1
		ORDER BY linked_at
	`
	rows, err := s.db.QueryContext(ctx, childQuery, member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load child links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var childID uuid.UUID
		if err := rows.Scan(&childID); err != nil {
			return nil, fmt.Errorf("failed to scan child link: %w", err)
		}
		member.ChildIDs = append(member.ChildIDs, childID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate child links: %w", err)
	}

	return &member, nil
}
