package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
)

// StoryStore defines the interface for story data persistence.
//
// Visibility-scoped queries take the actor's resolved circle membership
// as a parameter; the scope is applied in the store's own query, never
// trusted from an outer caller's filter.
type StoryStore interface {
	// Create saves a new story, including its shared-circle set.
	Create(ctx context.Context, story *domain.Story) error

	// GetByID retrieves a story with its shared-circle set.
	// Returns ErrStoryNotFound if the story does not exist. Visibility
	// checks are the caller's concern; this is a raw lookup.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error)

	// Update replaces a story's mutable state, including the shared set.
	// Returns ErrStoryNotFound if the story does not exist.
	Update(ctx context.Context, story *domain.Story) error

	// Delete removes a story and its share entries.
	// Returns ErrStoryNotFound if the story does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByAuthor returns all stories authored by the given member,
	// newest first.
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Story, error)

	// FindVisible returns all stories visible to the actor: authored by
	// them, or shared with at least one of the given circles. Newest first.
	FindVisible(ctx context.Context, actorID uuid.UUID, circleIDs []uuid.UUID) ([]*domain.Story, error)

	// Search returns the stories matching the query over title, content,
	// and tags, restricted to the same visibility scope as FindVisible.
	// Matching is a case-insensitive substring match; results are ordered
	// newest first.
	Search(ctx context.Context, query string, actorID uuid.UUID, circleIDs []uuid.UUID) ([]*domain.Story, error)

	// AuthorName returns the display name of a story's author.
	// Read models attach it through this explicit join call.
	AuthorName(ctx context.Context, storyID uuid.UUID) (string, error)

	// WithTx returns a StoryStore that runs against the given transaction.
	WithTx(tx *sql.Tx) StoryStore
}
