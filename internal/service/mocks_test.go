package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// --- no-op sql driver -------------------------------------------------
//
// Services run their mutations through store.RunInTransaction, which
// needs a *sql.DB to begin transactions on. The fakes below keep all
// state in memory, so the transaction itself only has to begin, commit,
// and roll back without touching a real database.

type noopDriver struct{}

func (noopDriver) Open(name string) (driver.Conn, error) { return &noopConn{}, nil }

type noopConn struct{}

func (*noopConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("statements not supported")
}
func (*noopConn) Close() error              { return nil }
func (*noopConn) Begin() (driver.Tx, error) { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var registerNoopDriver sync.Once

func newFakeDB(t *testing.T) *sql.DB {
	t.Helper()
	registerNoopDriver.Do(func() {
		sql.Register("service-noop", noopDriver{})
	})
	db, err := sql.Open("service-noop", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// --- fake member store ------------------------------------------------

type fakeMemberStore struct {
	members map[uuid.UUID]*domain.Member
}

var _ store.MemberStore = (*fakeMemberStore)(nil)

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: make(map[uuid.UUID]*domain.Member)}
}

func (f *fakeMemberStore) Create(ctx context.Context, member *domain.Member) error {
	for _, existing := range f.members {
		if existing.Email == member.Email {
			return store.ErrEmailExists
		}
	}
	f.members[member.ID] = member
	return nil
}

func (f *fakeMemberStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, store.ErrMemberNotFound
	}
	return member, nil
}

func (f *fakeMemberStore) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	email = strings.ToLower(email)
	for _, member := range f.members {
		if member.Email == email {
			return member, nil
		}
	}
	return nil, store.ErrMemberNotFound
}

func (f *fakeMemberStore) AddChild(ctx context.Context, parentID, childID uuid.UUID) error {
	parent, ok := f.members[parentID]
	if !ok {
		return store.ErrMemberNotFound
	}
	if parent.HasChild(childID) {
		return store.ErrDuplicate
	}
	parent.ChildIDs = append(parent.ChildIDs, childID)
	return nil
}

func (f *fakeMemberStore) WithTx(tx *sql.Tx) store.MemberStore { return f }

// --- fake circle store ------------------------------------------------

type fakeCircleStore struct {
	circles map[uuid.UUID]*domain.Circle
	findErr error
}

var _ store.CircleStore = (*fakeCircleStore)(nil)

func newFakeCircleStore() *fakeCircleStore {
	return &fakeCircleStore{circles: make(map[uuid.UUID]*domain.Circle)}
}

func (f *fakeCircleStore) Create(ctx context.Context, circle *domain.Circle) error {
	f.circles[circle.ID] = circle
	return nil
}

func (f *fakeCircleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Circle, error) {
	circle, ok := f.circles[id]
	if !ok {
		return nil, store.ErrCircleNotFound
	}
	return circle, nil
}

func (f *fakeCircleStore) Update(ctx context.Context, circle *domain.Circle) error {
	if _, ok := f.circles[circle.ID]; !ok {
		return store.ErrCircleNotFound
	}
	f.circles[circle.ID] = circle
	return nil
}

func (f *fakeCircleStore) FindByMember(
	ctx context.Context,
	memberID uuid.UUID,
) ([]*domain.Circle, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := []*domain.Circle{}
	for _, circle := range f.circles {
		if circle.HasMember(memberID) {
			out = append(out, circle)
		}
	}
	return out, nil
}

func (f *fakeCircleStore) WithTx(tx *sql.Tx) store.CircleStore { return f }

// --- fake story store -------------------------------------------------

type fakeStoryStore struct {
	stories       map[uuid.UUID]*domain.Story
	namesByAuthor map[uuid.UUID]string
	searchErr     error
}

var _ store.StoryStore = (*fakeStoryStore)(nil)

func newFakeStoryStore() *fakeStoryStore {
	return &fakeStoryStore{
		stories:       make(map[uuid.UUID]*domain.Story),
		namesByAuthor: make(map[uuid.UUID]string),
	}
}

func (f *fakeStoryStore) Create(ctx context.Context, story *domain.Story) error {
	f.stories[story.ID] = story
	return nil
}

func (f *fakeStoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	story, ok := f.stories[id]
	if !ok {
		return nil, store.ErrStoryNotFound
	}
	return story, nil
}

func (f *fakeStoryStore) Update(ctx context.Context, story *domain.Story) error {
	if _, ok := f.stories[story.ID]; !ok {
		return store.ErrStoryNotFound
	}
	f.stories[story.ID] = story
	return nil
}

func (f *fakeStoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.stories[id]; !ok {
		return store.ErrStoryNotFound
	}
	delete(f.stories, id)
	return nil
}

func (f *fakeStoryStore) FindByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
) ([]*domain.Story, error) {
	out := []*domain.Story{}
	for _, story := range f.stories {
		if story.AuthorID == authorID {
			out = append(out, story)
		}
	}
	return out, nil
}

func (f *fakeStoryStore) visible(story *domain.Story, actorID uuid.UUID, circleIDs []uuid.UUID) bool {
	if story.AuthorID == actorID {
		return true
	}
	for _, shared := range story.SharedWith {
		for _, circleID := range circleIDs {
			if shared == circleID {
				return true
			}
		}
	}
	return false
}

func (f *fakeStoryStore) FindVisible(
	ctx context.Context,
	actorID uuid.UUID,
	circleIDs []uuid.UUID,
) ([]*domain.Story, error) {
	out := []*domain.Story{}
	for _, story := range f.stories {
		if f.visible(story, actorID, circleIDs) {
			out = append(out, story)
		}
	}
	return out, nil
}

func (f *fakeStoryStore) Search(
	ctx context.Context,
	query string,
	actorID uuid.UUID,
	circleIDs []uuid.UUID,
) ([]*domain.Story, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := []*domain.Story{}
	for _, story := range f.stories {
		if !f.visible(story, actorID, circleIDs) {
			continue
		}
		matched := containsFold(story.Title, query) || containsFold(story.Content, query)
		for _, tag := range story.Tags {
			matched = matched || containsFold(tag, query)
		}
		if matched {
			out = append(out, story)
		}
	}
	return out, nil
}

func (f *fakeStoryStore) AuthorName(ctx context.Context, storyID uuid.UUID) (string, error) {
	story, ok := f.stories[storyID]
	if !ok {
		return "", store.ErrStoryNotFound
	}
	return f.namesByAuthor[story.AuthorID], nil
}

func (f *fakeStoryStore) WithTx(tx *sql.Tx) store.StoryStore { return f }

// --- fake timeline store ----------------------------------------------

type fakeTimelineStore struct {
	timelines map[uuid.UUID]*domain.Timeline
	searchErr error
}

var _ store.TimelineStore = (*fakeTimelineStore)(nil)

func newFakeTimelineStore() *fakeTimelineStore {
	return &fakeTimelineStore{timelines: make(map[uuid.UUID]*domain.Timeline)}
}

func (f *fakeTimelineStore) Create(ctx context.Context, timeline *domain.Timeline) error {
	f.timelines[timeline.ID] = timeline
	return nil
}

func (f *fakeTimelineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Timeline, error) {
	timeline, ok := f.timelines[id]
	if !ok {
		return nil, store.ErrTimelineNotFound
	}
	return timeline, nil
}

func (f *fakeTimelineStore) Update(ctx context.Context, timeline *domain.Timeline) error {
	if _, ok := f.timelines[timeline.ID]; !ok {
		return store.ErrTimelineNotFound
	}
	f.timelines[timeline.ID] = timeline
	return nil
}

func (f *fakeTimelineStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.timelines[id]; !ok {
		return store.ErrTimelineNotFound
	}
	delete(f.timelines, id)
	return nil
}

func (f *fakeTimelineStore) FindByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Timeline, error) {
	out := []*domain.Timeline{}
	for _, timeline := range f.timelines {
		if timeline.OwnerID == ownerID {
			out = append(out, timeline)
		}
	}
	return out, nil
}

func (f *fakeTimelineStore) Search(
	ctx context.Context,
	query string,
	ownerID uuid.UUID,
) ([]*domain.Timeline, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := []*domain.Timeline{}
	for _, timeline := range f.timelines {
		if timeline.OwnerID != ownerID {
			continue
		}
		if containsFold(timeline.Title, query) || containsFold(timeline.Description, query) {
			out = append(out, timeline)
		}
	}
	return out, nil
}

func (f *fakeTimelineStore) WithTx(tx *sql.Tx) store.TimelineStore { return f }

// --- fake event store -------------------------------------------------

// fakeEventStore resolves list-ordered reads through the timeline store,
// mirroring the real store's join: references to deleted events are
// silently skipped.
type fakeEventStore struct {
	events    map[uuid.UUID]*domain.Event
	timelines *fakeTimelineStore
	searchErr error
}

var _ store.EventStore = (*fakeEventStore)(nil)

func newFakeEventStore(timelines *fakeTimelineStore) *fakeEventStore {
	return &fakeEventStore{
		events:    make(map[uuid.UUID]*domain.Event),
		timelines: timelines,
	}
}

func (f *fakeEventStore) Create(ctx context.Context, event *domain.Event) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, store.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.events[id]; !ok {
		return store.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventStore) FindByTimeline(
	ctx context.Context,
	timelineID uuid.UUID,
) ([]*domain.Event, error) {
	timeline, ok := f.timelines.timelines[timelineID]
	if !ok {
		return []*domain.Event{}, nil
	}
	out := []*domain.Event{}
	for _, eventID := range timeline.EventIDs {
		if event, ok := f.events[eventID]; ok {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeEventStore) Search(
	ctx context.Context,
	query string,
	timelineIDs []uuid.UUID,
) ([]*domain.Event, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	scope := make(map[uuid.UUID]struct{}, len(timelineIDs))
	for _, id := range timelineIDs {
		scope[id] = struct{}{}
	}
	out := []*domain.Event{}
	for _, event := range f.events {
		if _, ok := scope[event.TimelineID]; !ok {
			continue
		}
		if containsFold(event.Name, query) || containsFold(event.Description, query) {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeEventStore) WithTx(tx *sql.Tx) store.EventStore { return f }

// --- fixture helpers --------------------------------------------------

func mustNewMember(t *testing.T, name, email string, role domain.Role) *domain.Member {
	t.Helper()
	member, err := domain.NewMember(name, email, "password123", role)
	require.NoError(t, err)
	member.HashedPassword = "hashed:" + member.Password
	member.Password = ""
	return member
}

func mustNewCircle(t *testing.T, name string, ownerID uuid.UUID, memberIDs ...uuid.UUID) *domain.Circle {
	t.Helper()
	circle, err := domain.NewCircle(name, ownerID)
	require.NoError(t, err)
	for _, id := range memberIDs {
		require.NoError(t, circle.AddMember(id))
	}
	return circle
}

func mustNewStory(t *testing.T, authorID uuid.UUID, title, content string, tags ...string) *domain.Story {
	t.Helper()
	story, err := domain.NewStory(authorID, title, content, tags, "", domain.MediaTypeText)
	require.NoError(t, err)
	return story
}
