package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// StoryDetail is the read model for a single story: the story itself plus
// the author's display name, resolved through an explicit store join.
type StoryDetail struct {
	Story      *domain.Story `json:"story"`
	AuthorName string        `json:"author_name"`
}

// StoryInput carries the caller-supplied fields for creating or updating
// a story.
type StoryInput struct {
	Title     string
	Content   string
	Tags      []string
	MediaURL  string
	MediaType domain.MediaType
}

// StoryService provides story operations. Reads are visibility-gated:
// a story is readable by its author or by members of any circle it is
// shared with, and stories the actor cannot see are reported as not
// found rather than forbidden, so their existence is not revealed.
type StoryService interface {
	// Create creates a new story authored by the actor.
	Create(ctx context.Context, actorID uuid.UUID, input StoryInput) (*domain.Story, error)

	// ListMine returns the stories authored by the actor, newest first.
	ListMine(ctx context.Context, actorID uuid.UUID) ([]*domain.Story, error)

	// ListVisible returns every story the actor can see: their own plus
	// stories shared with any circle they belong to, newest first.
	ListVisible(ctx context.Context, actorID uuid.UUID) ([]*domain.Story, error)

	// GetByID retrieves one story with its author's name. Stories the
	// actor cannot see return store.ErrStoryNotFound.
	GetByID(ctx context.Context, actorID, storyID uuid.UUID) (*StoryDetail, error)

	// Update replaces a story's content fields. Author only: a story the
	// actor cannot see returns store.ErrStoryNotFound, a visible story
	// authored by someone else returns ErrNotOwned.
	Update(ctx context.Context, actorID, storyID uuid.UUID, input StoryInput) (*domain.Story, error)

	// Delete removes a story. Same gating as Update.
	Delete(ctx context.Context, actorID, storyID uuid.UUID) error

	// Share shares a story with a circle. The actor must be the story's
	// author and a member of the target circle; a circle that does not
	// exist returns store.ErrCircleNotFound. Re-sharing with a circle
	// the story is already shared with returns the story unchanged.
	Share(ctx context.Context, actorID, storyID, circleID uuid.UUID) (*domain.Story, error)
}

// storyServiceImpl implements the StoryService interface.
type storyServiceImpl struct {
	storyStore  store.StoryStore
	circleStore store.CircleStore
	resolver    MembershipResolver
	db          *sql.DB
	logger      *slog.Logger
}

var _ StoryService = (*storyServiceImpl)(nil)

// NewStoryService creates a new StoryService.
func NewStoryService(
	storyStore store.StoryStore,
	circleStore store.CircleStore,
	resolver MembershipResolver,
	db *sql.DB,
	logger *slog.Logger,
) StoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &storyServiceImpl{
		storyStore:  storyStore,
		circleStore: circleStore,
		resolver:    resolver,
		db:          db,
		logger:      logger.With("component", "story_service"),
	}
}

// Create creates a new story authored by the actor.
func (s *storyServiceImpl) Create(
	ctx context.Context,
	actorID uuid.UUID,
	input StoryInput,
) (*domain.Story, error) {
	story, err := domain.NewStory(
		actorID,
		input.Title,
		input.Content,
		input.Tags,
		input.MediaURL,
		input.MediaType,
	)
	if err != nil {
		s.logger.Debug("story creation failed validation",
			"error", err,
			"author_id", actorID)
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.storyStore.WithTx(tx).Create(ctx, story)
	})
	if err != nil {
		s.logger.Error("failed to save story",
			"error", err,
			"author_id", actorID)
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	s.logger.Info("story created",
		"story_id", story.ID,
		"author_id", actorID)

	return story, nil
}

// ListMine returns the stories authored by the actor, newest first.
func (s *storyServiceImpl) ListMine(
	ctx context.Context,
	actorID uuid.UUID,
) ([]*domain.Story, error) {
	stories, err := s.storyStore.FindByAuthor(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to list stories",
			"error", err,
			"author_id", actorID)
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// ListVisible returns every story visible to the actor.
func (s *storyServiceImpl) ListVisible(
	ctx context.Context,
	actorID uuid.UUID,
) ([]*domain.Story, error) {
	membership, err := s.resolver.ResolveMembership(ctx, actorID)
	if err != nil {
		return nil, err
	}

	stories, err := s.storyStore.FindVisible(ctx, actorID, membership.CircleIDs())
	if err != nil {
		s.logger.Error("failed to list visible stories",
			"error", err,
			"actor_id", actorID)
		return nil, fmt.Errorf("failed to list visible stories: %w", err)
	}
	return stories, nil
}

// GetByID retrieves a story the actor can see, with the author's name.
func (s *storyServiceImpl) GetByID(
	ctx context.Context,
	actorID, storyID uuid.UUID,
) (*StoryDetail, error) {
	story, err := s.loadVisible(ctx, actorID, storyID)
	if err != nil {
		return nil, err
	}

	authorName, err := s.storyStore.AuthorName(ctx, story.ID)
	if err != nil {
		s.logger.Error("failed to resolve story author name",
			"error", err,
			"story_id", storyID)
		return nil, fmt.Errorf("failed to resolve author name: %w", err)
	}

	return &StoryDetail{Story: story, AuthorName: authorName}, nil
}

// Update replaces a story's content fields. Author only.
func (s *storyServiceImpl) Update(
	ctx context.Context,
	actorID, storyID uuid.UUID,
	input StoryInput,
) (*domain.Story, error) {
	story, err := s.loadVisible(ctx, actorID, storyID)
	if err != nil {
		return nil, err
	}

	if story.AuthorID != actorID {
		s.logger.Debug("story update rejected: not the author",
			"story_id", storyID,
			"actor_id", actorID)
		return nil, ErrNotOwned
	}

	if err := story.SetContent(input.Title, input.Content, input.Tags, input.MediaURL, input.MediaType); err != nil {
		s.logger.Debug("story update failed validation",
			"error", err,
			"story_id", storyID)
		return nil, fmt.Errorf("failed to update story: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.storyStore.WithTx(tx).Update(ctx, story)
	})
	if err != nil {
		s.logger.Error("failed to save story update",
			"error", err,
			"story_id", storyID)
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	s.logger.Info("story updated",
		"story_id", storyID,
		"actor_id", actorID)

	return story, nil
}

// Delete removes a story. Author only.
func (s *storyServiceImpl) Delete(ctx context.Context, actorID, storyID uuid.UUID) error {
	story, err := s.loadVisible(ctx, actorID, storyID)
	if err != nil {
		return err
	}

	if story.AuthorID != actorID {
		s.logger.Debug("story delete rejected: not the author",
			"story_id", storyID,
			"actor_id", actorID)
		return ErrNotOwned
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.storyStore.WithTx(tx).Delete(ctx, storyID)
	})
	if err != nil {
		s.logger.Error("failed to delete story",
			"error", err,
			"story_id", storyID)
		return fmt.Errorf("failed to delete story: %w", err)
	}

	s.logger.Info("story deleted",
		"story_id", storyID,
		"actor_id", actorID)

	return nil
}

// Share shares a story with a circle. The actor must author the story
// and belong to the target circle; re-sharing is an idempotent success.
func (s *storyServiceImpl) Share(
	ctx context.Context,
	actorID, storyID, circleID uuid.UUID,
) (*domain.Story, error) {
	membership, err := s.resolver.ResolveMembership(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var story *domain.Story

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStories := s.storyStore.WithTx(tx)

		var err error
		story, err = txStories.GetByID(ctx, storyID)
		if err != nil {
			return fmt.Errorf("failed to retrieve story: %w", err)
		}

		if story.AuthorID != actorID {
			// Mask invisible stories as not found; visible non-authored
			// stories are a plain authorization failure.
			if !membership.CanReadStory(story) {
				return store.ErrStoryNotFound
			}
			return ErrNotOwned
		}

		// A circle that does not exist is not found; only a real circle
		// the actor sits outside of is an authorization failure.
		circle, err := s.circleStore.WithTx(tx).GetByID(ctx, circleID)
		if err != nil {
			return fmt.Errorf("failed to retrieve circle: %w", err)
		}
		if !circle.HasMember(actorID) {
			return ErrNotCircleMember
		}

		if story.IsSharedWith(circleID) {
			// Idempotent re-share: no write, return unchanged.
			return nil
		}

		story.Share(circleID)
		if err := txStories.Update(ctx, story); err != nil {
			return fmt.Errorf("failed to save story share: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound),
			errors.Is(err, ErrNotOwned),
			errors.Is(err, ErrNotCircleMember):
			s.logger.Debug("story share rejected",
				"error", err,
				"story_id", storyID,
				"circle_id", circleID,
				"actor_id", actorID)
		default:
			s.logger.Error("failed to share story",
				"error", err,
				"story_id", storyID,
				"circle_id", circleID,
				"actor_id", actorID)
		}
		return nil, err
	}

	s.logger.Info("story shared with circle",
		"story_id", storyID,
		"circle_id", circleID,
		"actor_id", actorID)

	return story, nil
}

// loadVisible loads a story and applies the visibility gate: stories the
// actor cannot see are reported as not found.
func (s *storyServiceImpl) loadVisible(
	ctx context.Context,
	actorID, storyID uuid.UUID,
) (*domain.Story, error) {
	story, err := s.storyStore.GetByID(ctx, storyID)
	if err != nil {
		if !errors.Is(err, store.ErrStoryNotFound) {
			s.logger.Error("failed to retrieve story",
				"error", err,
				"story_id", storyID)
		}
		return nil, fmt.Errorf("failed to retrieve story: %w", err)
	}

	// Authors skip membership resolution; one store query saved on the
	// common path.
	if story.AuthorID == actorID {
		return story, nil
	}

	membership, err := s.resolver.ResolveMembership(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !membership.CanReadStory(story) {
		s.logger.Debug("story hidden from actor",
			"story_id", storyID,
			"actor_id", actorID)
		return nil, store.ErrStoryNotFound
	}

	return story, nil
}
