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

// PostgresStoryStore implements the store.StoryStore interface
// using a PostgreSQL database as the storage backend.
//
// Tags live in story_tags and the shared-circle set in story_shares;
// the composite primary key on story_shares makes a circle appear at
// most once per story at the storage level.
type PostgresStoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStoryStore creates a new PostgreSQL implementation of the
// StoryStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger is used.
func NewPostgresStoryStore(db store.DBTX, logger *slog.Logger) *PostgresStoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "story_store")),
	}
}

// Ensure PostgresStoryStore implements store.StoryStore interface
var _ store.StoryStore = (*PostgresStoryStore)(nil)

// WithTx implements store.StoryStore.WithTx
func (s *PostgresStoryStore) WithTx(tx *sql.Tx) store.StoryStore {
	return &PostgresStoryStore{
		db:     tx,
		logger: s.logger,
	}
}

const storyColumns = `id, author_id, title, content, media_url, media_type, created_at, updated_at`

// Create implements store.StoryStore.Create
func (s *PostgresStoryStore) Create(ctx context.Context, story *domain.Story) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := story.Validate(); err != nil {
		log.Warn("story validation failed during create",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID.String()))
		return err
	}

	query := `
		INSERT INTO stories (id, author_id, title, content, media_url, media_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		story.ID,
		story.AuthorID,
		story.Title,
		story.Content,
		story.MediaURL,
		story.MediaType,
		story.CreatedAt,
		story.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: author %s not found", store.ErrInvalidEntity, story.AuthorID)
		}
		log.Error("failed to create story",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID.String()))
		return err
	}

	if err := s.insertTags(ctx, story); err != nil {
		return err
	}
	if err := s.insertShares(ctx, story); err != nil {
		return err
	}

	log.Info("story created successfully",
		slog.String("story_id", story.ID.String()),
		slog.String("author_id", story.AuthorID.String()))
	return nil
}

// GetByID implements store.StoryStore.GetByID
// Returns store.ErrStoryNotFound if the story does not exist.
func (s *PostgresStoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`

	var story domain.Story
	var mediaType string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&story.ID,
		&story.AuthorID,
		&story.Title,
		&story.Content,
		&story.MediaURL,
		&mediaType,
		&story.CreatedAt,
		&story.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("story not found", slog.String("story_id", id.String()))
			return nil, store.ErrStoryNotFound
		}
		log.Error("failed to get story by ID",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()))
		return nil, err
	}
	story.MediaType = domain.MediaType(mediaType)

	if err := s.hydrate(ctx, &story); err != nil {
		return nil, err
	}

	return &story, nil
}

// Update implements store.StoryStore.Update
// Returns store.ErrStoryNotFound if the story does not exist.
func (s *PostgresStoryStore) Update(ctx context.Context, story *domain.Story) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := story.Validate(); err != nil {
		log.Warn("story validation failed during update",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID.String()))
		return err
	}

	query := `
		UPDATE stories
		SET title = $2, content = $3, media_url = $4, media_type = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		story.ID,
		story.Title,
		story.Content,
		story.MediaURL,
		story.MediaType,
		story.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update story",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID.String()))
		return err
	}
	if err := CheckRowsAffected(result, store.ErrStoryNotFound); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM story_tags WHERE story_id = $1`, story.ID); err != nil {
		return fmt.Errorf("failed to clear story tags: %w", err)
	}
	if err := s.insertTags(ctx, story); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM story_shares WHERE story_id = $1`, story.ID); err != nil {
		return fmt.Errorf("failed to clear story shares: %w", err)
	}
	if err := s.insertShares(ctx, story); err != nil {
		return err
	}

	log.Info("story updated successfully",
		slog.String("story_id", story.ID.String()))
	return nil
}

// Delete implements store.StoryStore.Delete
// Tag and share rows go with the story via cascade.
// Returns store.ErrStoryNotFound if the story does not exist.
func (s *PostgresStoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete story",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()))
		return err
	}
	if err := CheckRowsAffected(result, store.ErrStoryNotFound); err != nil {
		return err
	}

	log.Info("story deleted successfully", slog.String("story_id", id.String()))
	return nil
}

// FindByAuthor implements store.StoryStore.FindByAuthor
func (s *PostgresStoryStore) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE author_id = $1
		ORDER BY created_at DESC
	`
	return s.queryStories(ctx, query, authorID)
}

// FindVisible implements store.StoryStore.FindVisible
// A story is visible when the actor authored it or it is shared with at
// least one of the actor's circles.
func (s *PostgresStoryStore) FindVisible(ctx context.Context, actorID uuid.UUID, circleIDs []uuid.UUID) ([]*domain.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories s
		WHERE s.author_id = $1
		   OR EXISTS (
			SELECT 1 FROM story_shares ss
			WHERE ss.story_id = s.id AND ss.circle_id = ANY($2)
		   )
		ORDER BY s.created_at DESC
	`
	return s.queryStories(ctx, query, actorID, uuidSlice(circleIDs))
}

// Search implements store.StoryStore.Search
// The visibility scope is part of the query itself so unauthorized rows
// never leave the database.
func (s *PostgresStoryStore) Search(ctx context.Context, query string, actorID uuid.UUID, circleIDs []uuid.UUID) ([]*domain.Story, error) {
	pattern := likePattern(query)

	sqlQuery := `
		SELECT ` + storyColumns + `
		FROM stories s
		WHERE (s.author_id = $1
		   OR EXISTS (
			SELECT 1 FROM story_shares ss
			WHERE ss.story_id = s.id AND ss.circle_id = ANY($2)
		   ))
		  AND (s.title ILIKE $3
		   OR s.content ILIKE $3
		   OR EXISTS (
			SELECT 1 FROM story_tags st
			WHERE st.story_id = s.id AND st.tag ILIKE $3
		   ))
		ORDER BY s.created_at DESC
	`
	return s.queryStories(ctx, sqlQuery, actorID, uuidSlice(circleIDs), pattern)
}

// AuthorName implements store.StoryStore.AuthorName
func (s *PostgresStoryStore) AuthorName(ctx context.Context, storyID uuid.UUID) (string, error) {
	query := `
		SELECT m.name
		FROM stories s
		JOIN members m ON m.id = s.author_id
		WHERE s.id = $1
	`
	var name string
	if err := s.db.QueryRowContext(ctx, query, storyID).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrStoryNotFound
		}
		return "", err
	}
	return name, nil
}

// queryStories runs a multi-row story query and hydrates tags and shares.
func (s *PostgresStoryStore) queryStories(ctx context.Context, query string, args ...any) ([]*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("story query failed", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stories := []*domain.Story{}
	for rows.Next() {
		var story domain.Story
		var mediaType string
		err := rows.Scan(
			&story.ID,
			&story.AuthorID,
			&story.Title,
			&story.Content,
			&story.MediaURL,
			&mediaType,
			&story.CreatedAt,
			&story.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		story.MediaType = domain.MediaType(mediaType)
		stories = append(stories, &story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stories: %w", err)
	}

	for _, story := range stories {
		if err := s.hydrate(ctx, story); err != nil {
			return nil, err
		}
	}

	return stories, nil
}

// hydrate loads a story's tags and shared-circle set.
func (s *PostgresStoryStore) hydrate(ctx context.Context, story *domain.Story) error {
	tagRows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM story_tags WHERE story_id = $1 ORDER BY position`, story.ID)
	if err != nil {
		return fmt.Errorf("failed to load story tags: %w", err)
	}
	defer func() { _ = tagRows.Close() }()

	story.Tags = []string{}
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return fmt.Errorf("failed to scan story tag: %w", err)
		}
		story.Tags = append(story.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate story tags: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx,
		`SELECT circle_id FROM story_shares WHERE story_id = $1 ORDER BY shared_at`, story.ID)
	if err != nil {
		return fmt.Errorf("failed to load story shares: %w", err)
	}
	defer func() { _ = shareRows.Close() }()

	story.SharedWith = []uuid.UUID{}
	for shareRows.Next() {
		var circleID uuid.UUID
		if err := shareRows.Scan(&circleID); err != nil {
			return fmt.Errorf("failed to scan story share: %w", err)
		}
		story.SharedWith = append(story.SharedWith, circleID)
	}
	if err := shareRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate story shares: %w", err)
	}

	return nil
}

// insertTags writes a story's tag list.
func (s *PostgresStoryStore) insertTags(ctx context.Context, story *domain.Story) error {
	query := `INSERT INTO story_tags (story_id, tag, position) VALUES ($1, $2, $3)`
	for i, tag := range story.Tags {
		if _, err := s.db.ExecContext(ctx, query, story.ID, tag, i); err != nil {
			return fmt.Errorf("failed to insert story tag: %w", err)
		}
	}
	return nil
}

// insertShares writes a story's shared-circle set.
func (s *PostgresStoryStore) insertShares(ctx context.Context, story *domain.Story) error {
	query := `INSERT INTO story_shares (story_id, circle_id) VALUES ($1, $2)`
	for _, circleID := range story.SharedWith {
		if _, err := s.db.ExecContext(ctx, query, story.ID, circleID); err != nil {
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: circle %s not found", store.ErrInvalidEntity, circleID)
			}
			return fmt.Errorf("failed to insert story share: %w", err)
		}
	}
	return nil
}

// uuidSlice normalizes a possibly-nil ID slice for array parameters.
// ANY over an empty array matches nothing, which is the correct scope
// for an actor with no circle memberships.
func uuidSlice(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
