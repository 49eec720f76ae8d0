package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the member registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=parent grandparent kid chronicler"`
}

// LoginRequest defines the payload for the member login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// MemberID is the unique identifier for the authenticated member
	MemberID uuid.UUID `json:"member_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AddChildRequest defines the payload for linking a child member.
type AddChildRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateCircleRequest defines the payload for circle creation.
type CreateCircleRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// AddCircleMemberRequest defines the payload for adding a circle member.
type AddCircleMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// StoryRequest defines the payload for story creation and update.
type StoryRequest struct {
	Title     string   `json:"title"      validate:"required,max=200"`
	Content   string   `json:"content"    validate:"required"`
	Tags      []string `json:"tags"       validate:"omitempty,dive,max=50"`
	MediaURL  string   `json:"media_url"  validate:"omitempty,max=2048"`
	MediaType string   `json:"media_type" validate:"omitempty,oneof=text photo audio video"`
}

// ShareStoryRequest defines the payload for sharing a story with a circle.
type ShareStoryRequest struct {
	CircleID uuid.UUID `json:"circle_id" validate:"required"`
}

// StoryDetailResponse is the response for a single story read, carrying
// the author's display name alongside the story.
type StoryDetailResponse struct {
	*domain.Story
	AuthorName string `json:"author_name"`
}

// CreateTimelineRequest defines the payload for timeline creation.
type CreateTimelineRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// AddEventRequest defines the payload for adding an event to a timeline.
type AddEventRequest struct {
	Name        string    `json:"name"        validate:"required,max=200"`
	Date        time.Time `json:"date"        validate:"required"`
	Description string    `json:"description" validate:"required,max=5000"`
}

// TimelineDetailResponse is the response for a single timeline read,
// with its events resolved in list order.
type TimelineDetailResponse struct {
	*domain.Timeline
	Events []*domain.Event `json:"events"`
}
