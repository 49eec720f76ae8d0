package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaType identifies the kind of media attached to a story.
type MediaType string

// Possible media types.
const (
	MediaTypeText  MediaType = "text"
	MediaTypePhoto MediaType = "photo"
	MediaTypeAudio MediaType = "audio"
	MediaTypeVideo MediaType = "video"
)

// Common validation errors for Story
var (
	ErrEmptyStoryID       = errors.New("story ID cannot be empty")
	ErrEmptyStoryAuthorID = errors.New("story author ID cannot be empty")
	ErrEmptyStoryTitle    = errors.New("story title cannot be empty")
	ErrEmptyStoryContent  = errors.New("story content cannot be empty")
	ErrInvalidMediaType   = errors.New("invalid story media type")
	ErrDuplicateShare     = errors.New("story is already shared with the circle")
)

// Story is a narrative record authored by a single member. It is visible
// to its author and to members of any circle in SharedWith. MediaURL is an
// opaque reference supplied by the media collaborator; the domain never
// interprets it.
type Story struct {
	ID         uuid.UUID   `json:"id"`
	AuthorID   uuid.UUID   `json:"author_id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Tags       []string    `json:"tags"`
	MediaURL   string      `json:"media_url,omitempty"`
	MediaType  MediaType   `json:"media_type"`
	SharedWith []uuid.UUID `json:"shared_with"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewStory creates a new Story authored by authorID. An empty media type
// defaults to MediaTypeText. The story starts unshared.
func NewStory(authorID uuid.UUID, title, content string, tags []string, mediaURL string, mediaType MediaType) (*Story, error) {
	if mediaType == "" {
		mediaType = MediaTypeText
	}

	story := &Story{
		ID:         uuid.New(),
		AuthorID:   authorID,
		Title:      strings.TrimSpace(title),
		Content:    content,
		Tags:       normalizeTags(tags),
		MediaURL:   mediaURL,
		MediaType:  mediaType,
		SharedWith: []uuid.UUID{},
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := story.Validate(); err != nil {
		return nil, err
	}

	return story, nil
}

// Validate checks if the Story has valid data.
// Returns an error if any field fails validation.
func (s *Story) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyStoryID
	}

	if s.AuthorID == uuid.Nil {
		return ErrEmptyStoryAuthorID
	}

	if s.Title == "" {
		return ErrEmptyStoryTitle
	}

	if strings.TrimSpace(s.Content) == "" {
		return ErrEmptyStoryContent
	}

	switch s.MediaType {
	case MediaTypeText, MediaTypePhoto, MediaTypeAudio, MediaTypeVideo:
	default:
		return ErrInvalidMediaType
	}

	seen := make(map[uuid.UUID]struct{}, len(s.SharedWith))
	for _, id := range s.SharedWith {
		if _, dup := seen[id]; dup {
			return ErrDuplicateShare
		}
		seen[id] = struct{}{}
	}

	return nil
}

// SetContent replaces the story's content fields, leaving authorship and
// the shared set untouched. An empty media type defaults to MediaTypeText.
func (s *Story) SetContent(title, content string, tags []string, mediaURL string, mediaType MediaType) error {
	if mediaType == "" {
		mediaType = MediaTypeText
	}

	s.Title = strings.TrimSpace(title)
	s.Content = content
	s.Tags = normalizeTags(tags)
	s.MediaURL = mediaURL
	s.MediaType = mediaType
	s.UpdatedAt = time.Now().UTC()

	return s.Validate()
}

// IsSharedWith reports whether the story is shared with the given circle.
func (s *Story) IsSharedWith(circleID uuid.UUID) bool {
	for _, id := range s.SharedWith {
		if id == circleID {
			return true
		}
	}
	return false
}

// Share adds the circle to the story's shared set. Sharing with a circle
// the story is already shared with is a no-op; a circle appears at most
// once in SharedWith.
func (s *Story) Share(circleID uuid.UUID) {
	if s.IsSharedWith(circleID) {
		return
	}

	s.SharedWith = append(s.SharedWith, circleID)
	s.UpdatedAt = time.Now().UTC()
}

// normalizeTags trims whitespace and drops empty tags.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
