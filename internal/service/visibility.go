package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// Membership is a member's resolved circle membership: the set of circle
// IDs the member currently belongs to. It is resolved from storage once
// per request and then treated as an immutable snapshot, so every
// visibility decision made while serving that request observes the same
// membership state. It is never cached across requests.
type Membership struct {
	actorID   uuid.UUID
	circleIDs []uuid.UUID
	circleSet map[uuid.UUID]struct{}
}

// ActorID returns the member the membership was resolved for.
func (m *Membership) ActorID() uuid.UUID {
	return m.actorID
}

// CircleIDs returns the IDs of the circles the member belongs to.
// The returned slice is non-nil even when the member has no circles.
func (m *Membership) CircleIDs() []uuid.UUID {
	return m.circleIDs
}

// Contains reports whether the member belongs to the given circle.
func (m *Membership) Contains(circleID uuid.UUID) bool {
	_, ok := m.circleSet[circleID]
	return ok
}

// CanReadStory reports whether the member may read the given story:
// they authored it, or it is shared with at least one circle they
// belong to.
func (m *Membership) CanReadStory(story *domain.Story) bool {
	if story.AuthorID == m.actorID {
		return true
	}
	for _, circleID := range story.SharedWith {
		if m.Contains(circleID) {
			return true
		}
	}
	return false
}

// CanReadTimeline reports whether the member may read the given
// timeline. Timelines are strictly owner-private; circle membership
// plays no part.
func (m *Membership) CanReadTimeline(timeline *domain.Timeline) bool {
	return timeline.OwnerID == m.actorID
}

// CanReadEvent reports whether the member may read an event, which
// follows from ownership of the event's timeline.
func (m *Membership) CanReadEvent(event *domain.Event, timeline *domain.Timeline) bool {
	return event.TimelineID == timeline.ID && m.CanReadTimeline(timeline)
}

// MembershipResolver resolves a member's circle membership from storage.
type MembershipResolver interface {
	// ResolveMembership loads the actor's current circle membership as a
	// consistent snapshot. Call it once per request and pass the snapshot
	// down; never resolve twice within one request.
	ResolveMembership(ctx context.Context, actorID uuid.UUID) (*Membership, error)
}

// membershipResolverImpl implements MembershipResolver over a CircleStore.
type membershipResolverImpl struct {
	circleStore store.CircleStore
	logger      *slog.Logger
}

var _ MembershipResolver = (*membershipResolverImpl)(nil)

// NewMembershipResolver creates a MembershipResolver backed by the given
// circle store.
func NewMembershipResolver(circleStore store.CircleStore, logger *slog.Logger) MembershipResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &membershipResolverImpl{
		circleStore: circleStore,
		logger:      logger.With("component", "membership_resolver"),
	}
}

// ResolveMembership loads the circles the actor belongs to in a single
// store query and builds the snapshot used for all visibility decisions
// in the request.
func (r *membershipResolverImpl) ResolveMembership(
	ctx context.Context,
	actorID uuid.UUID,
) (*Membership, error) {
	circles, err := r.circleStore.FindByMember(ctx, actorID)
	if err != nil {
		r.logger.Error("failed to resolve circle membership",
			"error", err,
			"actor_id", actorID)
		return nil, fmt.Errorf("failed to resolve circle membership: %w", err)
	}

	circleIDs := make([]uuid.UUID, 0, len(circles))
	circleSet := make(map[uuid.UUID]struct{}, len(circles))
	for _, circle := range circles {
		circleIDs = append(circleIDs, circle.ID)
		circleSet[circle.ID] = struct{}{}
	}

	r.logger.Debug("resolved circle membership",
		"actor_id", actorID,
		"circle_count", len(circleIDs))

	return &Membership{
		actorID:   actorID,
		circleIDs: circleIDs,
		circleSet: circleSet,
	}, nil
}

// NewMembershipSnapshot builds a Membership directly from a known circle
// set. Used by tests and by callers that already hold the actor's circles.
func NewMembershipSnapshot(actorID uuid.UUID, circleIDs []uuid.UUID) *Membership {
	circleSet := make(map[uuid.UUID]struct{}, len(circleIDs))
	ids := make([]uuid.UUID, 0, len(circleIDs))
	for _, id := range circleIDs {
		if _, dup := circleSet[id]; dup {
			continue
		}
		circleSet[id] = struct{}{}
		ids = append(ids, id)
	}
	return &Membership{
		actorID:   actorID,
		circleIDs: ids,
		circleSet: circleSet,
	}
}
