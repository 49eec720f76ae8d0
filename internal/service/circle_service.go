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

// CircleService provides circle management operations. All mutations are
// owner-gated: only the circle's owner may change its member set.
type CircleService interface {
	// Create creates a new circle owned by the actor. The owner is
	// enrolled as the first member.
	Create(ctx context.Context, actorID uuid.UUID, name string) (*domain.Circle, error)

	// AddMember adds a member, looked up by email, to the circle.
	// Returns store.ErrCircleNotFound / store.ErrMemberNotFound when
	// either side is missing, ErrNotOwned when the actor is not the
	// circle's owner, and ErrAlreadyCircleMember on duplicates.
	AddMember(ctx context.Context, actorID, circleID uuid.UUID, memberEmail string) (*domain.Circle, error)

	// RemoveMember removes a member from the circle. Owner-gated like
	// AddMember. Removing the owner returns domain.ErrOwnerRemoval;
	// removing a member who is not in the circle succeeds unchanged.
	RemoveMember(ctx context.Context, actorID, circleID, memberID uuid.UUID) (*domain.Circle, error)

	// ListMine returns all circles the actor belongs to, newest first.
	ListMine(ctx context.Context, actorID uuid.UUID) ([]*domain.Circle, error)
}

// circleServiceImpl implements the CircleService interface.
type circleServiceImpl struct {
	circleStore store.CircleStore
	memberStore store.MemberStore
	db          *sql.DB
	logger      *slog.Logger
}

var _ CircleService = (*circleServiceImpl)(nil)

// NewCircleService creates a new CircleService.
func NewCircleService(
	circleStore store.CircleStore,
	memberStore store.MemberStore,
	db *sql.DB,
	logger *slog.Logger,
) CircleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &circleServiceImpl{
		circleStore: circleStore,
		memberStore: memberStore,
		db:          db,
		logger:      logger.With("component", "circle_service"),
	}
}

// Create creates a new circle with the actor as owner and first member.
func (s *circleServiceImpl) Create(
	ctx context.Context,
	actorID uuid.UUID,
	name string,
) (*domain.Circle, error) {
	circle, err := domain.NewCircle(name, actorID)
	if err != nil {
		s.logger.Debug("circle creation failed validation",
			"error", err,
			"owner_id", actorID)
		return nil, fmt.Errorf("failed to create circle: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.circleStore.WithTx(tx).Create(ctx, circle)
	})
	if err != nil {
		s.logger.Error("failed to save circle",
			"error", err,
			"owner_id", actorID)
		return nil, fmt.Errorf("failed to save circle: %w", err)
	}

	s.logger.Info("circle created",
		"circle_id", circle.ID,
		"owner_id", actorID)

	return circle, nil
}

// AddMember adds a member to the circle by email. The read-modify-write
// runs inside a transaction so the duplicate and owner checks observe a
// consistent member set.
func (s *circleServiceImpl) AddMember(
	ctx context.Context,
	actorID, circleID uuid.UUID,
	memberEmail string,
) (*domain.Circle, error) {
	var circle *domain.Circle

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCircles := s.circleStore.WithTx(tx)
		txMembers := s.memberStore.WithTx(tx)

		var err error
		circle, err = txCircles.GetByID(ctx, circleID)
		if err != nil {
			return fmt.Errorf("failed to retrieve circle: %w", err)
		}

		if circle.OwnerID != actorID {
			return ErrNotOwned
		}

		member, err := txMembers.GetByEmail(ctx, memberEmail)
		if err != nil {
			return fmt.Errorf("failed to retrieve member: %w", err)
		}

		if err := circle.AddMember(member.ID); err != nil {
			if errors.Is(err, domain.ErrDuplicateMember) {
				return ErrAlreadyCircleMember
			}
			return fmt.Errorf("failed to add member: %w", err)
		}

		if err := txCircles.Update(ctx, circle); err != nil {
			return fmt.Errorf("failed to save circle: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logAddMemberFailure(err, actorID, circleID, memberEmail)
		return nil, err
	}

	s.logger.Info("member added to circle",
		"circle_id", circleID,
		"actor_id", actorID)

	return circle, nil
}

func (s *circleServiceImpl) logAddMemberFailure(
	err error,
	actorID, circleID uuid.UUID,
	memberEmail string,
) {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, ErrNotOwned),
		errors.Is(err, ErrAlreadyCircleMember):
		s.logger.Debug("add member rejected",
			"error", err,
			"circle_id", circleID,
			"actor_id", actorID)
	default:
		s.logger.Error("failed to add member to circle",
			"error", err,
			"circle_id", circleID,
			"actor_id", actorID,
			"member_email", memberEmail)
	}
}

// RemoveMember removes a member from the circle. Removal of a member who
// is not in the circle is an idempotent success; removal of the owner is
// always rejected.
func (s *circleServiceImpl) RemoveMember(
	ctx context.Context,
	actorID, circleID, memberID uuid.UUID,
) (*domain.Circle, error) {
	var circle *domain.Circle

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCircles := s.circleStore.WithTx(tx)

		var err error
		circle, err = txCircles.GetByID(ctx, circleID)
		if err != nil {
			return fmt.Errorf("failed to retrieve circle: %w", err)
		}

		if circle.OwnerID != actorID {
			return ErrNotOwned
		}

		// Owner-removal is rejected even before checking presence.
		if err := circle.RemoveMember(memberID); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}

		if err := txCircles.Update(ctx, circle); err != nil {
			return fmt.Errorf("failed to save circle: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound),
			errors.Is(err, ErrNotOwned),
			errors.Is(err, domain.ErrOwnerRemoval):
			s.logger.Debug("remove member rejected",
				"error", err,
				"circle_id", circleID,
				"actor_id", actorID,
				"member_id", memberID)
		default:
			s.logger.Error("failed to remove member from circle",
				"error", err,
				"circle_id", circleID,
				"actor_id", actorID,
				"member_id", memberID)
		}
		return nil, err
	}

	s.logger.Info("member removed from circle",
		"circle_id", circleID,
		"actor_id", actorID,
		"member_id", memberID)

	return circle, nil
}

// ListMine returns the circles the actor belongs to, newest first.
func (s *circleServiceImpl) ListMine(
	ctx context.Context,
	actorID uuid.UUID,
) ([]*domain.Circle, error) {
	circles, err := s.circleStore.FindByMember(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to list circles",
			"error", err,
			"actor_id", actorID)
		return nil, fmt.Errorf("failed to list circles: %w", err)
	}
	return circles, nil
}
