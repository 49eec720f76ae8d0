package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hearthsidehq/hearthside-api/internal/api/shared"
	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/service"
	"github.com/hearthsidehq/hearthside-api/internal/service/auth"
)

// Stub services with injectable behavior per method. Handlers only route
// and translate, so the stubs record what they were called with and
// return whatever the test configures.

type stubMemberService struct {
	registerFn   func(ctx context.Context, name, email, password string, role domain.Role) (*domain.Member, error)
	loginFn      func(ctx context.Context, email, password string) (*domain.Member, error)
	getProfileFn func(ctx context.Context, memberID uuid.UUID) (*domain.Member, error)
	addChildFn   func(ctx context.Context, parentID uuid.UUID, childEmail string) (*domain.Member, error)
}

var _ service.MemberService = (*stubMemberService)(nil)

func (s *stubMemberService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Member, error) {
	return s.registerFn(ctx, name, email, password, role)
}

func (s *stubMemberService) Login(ctx context.Context, email, password string) (*domain.Member, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubMemberService) GetProfile(ctx context.Context, memberID uuid.UUID) (*domain.Member, error) {
	return s.getProfileFn(ctx, memberID)
}

func (s *stubMemberService) AddChild(ctx context.Context, parentID uuid.UUID, childEmail string) (*domain.Member, error) {
	return s.addChildFn(ctx, parentID, childEmail)
}

type stubJWTService struct {
	token      string
	refresh    string
	claims     *auth.Claims
	generateErr error
	validErr   error
}

var _ auth.JWTService = (*stubJWTService)(nil)

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return s.token, s.generateErr
}

func (s *stubJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return s.claims, s.validErr
}

func (s *stubJWTService) GenerateRefreshToken(context.Context, uuid.UUID) (string, error) {
	return s.refresh, s.generateErr
}

func (s *stubJWTService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return s.claims, s.validErr
}

type stubCircleService struct {
	createFn       func(ctx context.Context, actorID uuid.UUID, name string) (*domain.Circle, error)
	addMemberFn    func(ctx context.Context, actorID, circleID uuid.UUID, memberEmail string) (*domain.Circle, error)
	removeMemberFn func(ctx context.Context, actorID, circleID, memberID uuid.UUID) (*domain.Circle, error)
	listMineFn     func(ctx context.Context, actorID uuid.UUID) ([]*domain.Circle, error)
}

var _ service.CircleService = (*stubCircleService)(nil)

func (s *stubCircleService) Create(ctx context.Context, actorID uuid.UUID, name string) (*domain.Circle, error) {
	return s.createFn(ctx, actorID, name)
}

func (s *stubCircleService) AddMember(ctx context.Context, actorID, circleID uuid.UUID, memberEmail string) (*domain.Circle, error) {
	return s.addMemberFn(ctx, actorID, circleID, memberEmail)
}

func (s *stubCircleService) RemoveMember(ctx context.Context, actorID, circleID, memberID uuid.UUID) (*domain.Circle, error) {
	return s.removeMemberFn(ctx, actorID, circleID, memberID)
}

func (s *stubCircleService) ListMine(ctx context.Context, actorID uuid.UUID) ([]*domain.Circle, error) {
	return s.listMineFn(ctx, actorID)
}

type stubStoryService struct {
	createFn   func(ctx context.Context, actorID uuid.UUID, input service.StoryInput) (*domain.Story, error)
	listMineFn    func(ctx context.Context, actorID uuid.UUID) ([]*domain.Story, error)
	listVisibleFn func(ctx context.Context, actorID uuid.UUID) ([]*domain.Story, error)
	getByIDFn     func(ctx context.Context, actorID, storyID uuid.UUID) (*service.StoryDetail, error)
	updateFn   func(ctx context.Context, actorID, storyID uuid.UUID, input service.StoryInput) (*domain.Story, error)
	deleteFn   func(ctx context.Context, actorID, storyID uuid.UUID) error
	shareFn    func(ctx context.Context, actorID, storyID, circleID uuid.UUID) (*domain.Story, error)
}

var _ service.StoryService = (*stubStoryService)(nil)

func (s *stubStoryService) Create(ctx context.Context, actorID uuid.UUID, input service.StoryInput) (*domain.Story, error) {
	return s.createFn(ctx, actorID, input)
}

func (s *stubStoryService) ListMine(ctx context.Context, actorID uuid.UUID) ([]*domain.Story, error) {
	return s.listMineFn(ctx, actorID)
}

func (s *stubStoryService) ListVisible(ctx context.Context, actorID uuid.UUID) ([]*domain.Story, error) {
	return s.listVisibleFn(ctx, actorID)
}

func (s *stubStoryService) GetByID(ctx context.Context, actorID, storyID uuid.UUID) (*service.StoryDetail, error) {
	return s.getByIDFn(ctx, actorID, storyID)
}

func (s *stubStoryService) Update(ctx context.Context, actorID, storyID uuid.UUID, input service.StoryInput) (*domain.Story, error) {
	return s.updateFn(ctx, actorID, storyID, input)
}

func (s *stubStoryService) Delete(ctx context.Context, actorID, storyID uuid.UUID) error {
	return s.deleteFn(ctx, actorID, storyID)
}

func (s *stubStoryService) Share(ctx context.Context, actorID, storyID, circleID uuid.UUID) (*domain.Story, error) {
	return s.shareFn(ctx, actorID, storyID, circleID)
}

type stubTimelineService struct {
	createFn      func(ctx context.Context, actorID uuid.UUID, title, description string) (*domain.Timeline, error)
	listMineFn    func(ctx context.Context, actorID uuid.UUID) ([]*domain.Timeline, error)
	getByIDFn     func(ctx context.Context, actorID, timelineID uuid.UUID) (*service.TimelineDetail, error)
	addEventFn    func(ctx context.Context, actorID, timelineID uuid.UUID, name string, date time.Time, description string) (*domain.Event, error)
	removeEventFn func(ctx context.Context, actorID, timelineID, eventID uuid.UUID) error
}

var _ service.TimelineService = (*stubTimelineService)(nil)

func (s *stubTimelineService) Create(ctx context.Context, actorID uuid.UUID, title, description string) (*domain.Timeline, error) {
	return s.createFn(ctx, actorID, title, description)
}

func (s *stubTimelineService) ListMine(ctx context.Context, actorID uuid.UUID) ([]*domain.Timeline, error) {
	return s.listMineFn(ctx, actorID)
}

func (s *stubTimelineService) GetByID(ctx context.Context, actorID, timelineID uuid.UUID) (*service.TimelineDetail, error) {
	return s.getByIDFn(ctx, actorID, timelineID)
}

func (s *stubTimelineService) AddEvent(ctx context.Context, actorID, timelineID uuid.UUID, name string, date time.Time, description string) (*domain.Event, error) {
	return s.addEventFn(ctx, actorID, timelineID, name, date, description)
}

func (s *stubTimelineService) RemoveEvent(ctx context.Context, actorID, timelineID, eventID uuid.UUID) error {
	return s.removeEventFn(ctx, actorID, timelineID, eventID)
}

type stubSearchService struct {
	searchFn func(ctx context.Context, actorID uuid.UUID, query string) (*service.SearchResults, error)
}

var _ service.SearchService = (*stubSearchService)(nil)

func (s *stubSearchService) Search(ctx context.Context, actorID uuid.UUID, query string) (*service.SearchResults, error) {
	return s.searchFn(ctx, actorID, query)
}

// jsonRequest builds a request with a JSON body. A non-nil actorID is
// attached to the context the way the auth middleware would.
func jsonRequest(t *testing.T, method, target string, body any, actorID uuid.UUID) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actorID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.MemberIDContextKey, actorID)
		req = req.WithContext(ctx)
	}
	return req
}

// withPathParams attaches chi route parameters to a request, standing in
// for the router's own URL matching.
func withPathParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}
