package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
)

func TestMembershipCanReadStory(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	reader := uuid.New()
	stranger := uuid.New()
	sharedCircle := uuid.New()
	otherCircle := uuid.New()

	story := mustNewStory(t, author, "Nonna's Kitchen", "Sunday sauce from scratch")
	story.Share(sharedCircle)

	tests := []struct {
		name       string
		membership *Membership
		want       bool
	}{
		{
			name:       "author always reads own story",
			membership: NewMembershipSnapshot(author, nil),
			want:       true,
		},
		{
			name:       "member of a shared circle reads the story",
			membership: NewMembershipSnapshot(reader, []uuid.UUID{sharedCircle}),
			want:       true,
		},
		{
			name:       "member of an unrelated circle cannot read",
			membership: NewMembershipSnapshot(stranger, []uuid.UUID{otherCircle}),
			want:       false,
		},
		{
			name:       "member with no circles cannot read",
			membership: NewMembershipSnapshot(stranger, nil),
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.membership.CanReadStory(story))
		})
	}
}

func TestMembershipCanReadTimeline(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	other := uuid.New()
	circle := uuid.New()

	timeline, err := domain.NewTimeline(owner, "First Year", "")
	require.NoError(t, err)

	// Circle membership plays no part in timeline visibility.
	assert.True(t, NewMembershipSnapshot(owner, nil).CanReadTimeline(timeline))
	assert.False(t, NewMembershipSnapshot(other, []uuid.UUID{circle}).CanReadTimeline(timeline))
}

func TestMembershipCanReadEvent(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	timeline, err := domain.NewTimeline(owner, "First Year", "")
	require.NoError(t, err)
	otherTimeline, err := domain.NewTimeline(owner, "Second Year", "")
	require.NoError(t, err)

	event, err := domain.NewEvent(timeline.ID, "First steps", time.Now(), "Across the living room")
	require.NoError(t, err)

	membership := NewMembershipSnapshot(owner, nil)
	assert.True(t, membership.CanReadEvent(event, timeline))
	// An event is only readable through its own timeline.
	assert.False(t, membership.CanReadEvent(event, otherTimeline))
}

func TestResolveMembership(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	other := uuid.New()

	circles := newFakeCircleStore()
	mine := mustNewCircle(t, "Family", actor)
	joined := mustNewCircle(t, "Cousins", other, actor)
	theirs := mustNewCircle(t, "Private", other)
	require.NoError(t, circles.Create(context.Background(), mine))
	require.NoError(t, circles.Create(context.Background(), joined))
	require.NoError(t, circles.Create(context.Background(), theirs))

	resolver := NewMembershipResolver(circles, nil)

	membership, err := resolver.ResolveMembership(context.Background(), actor)
	require.NoError(t, err)

	assert.Equal(t, actor, membership.ActorID())
	assert.ElementsMatch(t, []uuid.UUID{mine.ID, joined.ID}, membership.CircleIDs())
	assert.True(t, membership.Contains(mine.ID))
	assert.True(t, membership.Contains(joined.ID))
	assert.False(t, membership.Contains(theirs.ID))
}

func TestResolveMembershipEmpty(t *testing.T) {
	t.Parallel()

	resolver := NewMembershipResolver(newFakeCircleStore(), nil)

	membership, err := resolver.ResolveMembership(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, membership.CircleIDs())
	assert.Empty(t, membership.CircleIDs())
}

func TestResolveMembershipStoreFailure(t *testing.T) {
	t.Parallel()

	circles := newFakeCircleStore()
	circles.findErr = errors.New("connection reset")

	resolver := NewMembershipResolver(circles, nil)

	_, err := resolver.ResolveMembership(context.Background(), uuid.New())
	assert.Error(t, err)
}
