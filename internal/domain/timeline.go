package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Timeline
var (
	ErrEmptyTimelineID      = errors.New("timeline ID cannot be empty")
	ErrEmptyTimelineOwnerID = errors.New("timeline owner ID cannot be empty")
	ErrEmptyTimelineTitle   = errors.New("timeline title cannot be empty")
)

// Timeline is an owner-private, creation-ordered collection of events.
// Timelines have no sharing mechanism: only the owner can ever read one.
type Timeline struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	EventIDs    []uuid.UUID `json:"event_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewTimeline creates a new Timeline owned by ownerID.
func NewTimeline(ownerID uuid.UUID, title, description string) (*Timeline, error) {
	timeline := &Timeline{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(title),
		Description: description,
		EventIDs:    []uuid.UUID{},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := timeline.Validate(); err != nil {
		return nil, err
	}

	return timeline, nil
}

// Validate checks if the Timeline has valid data.
func (t *Timeline) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTimelineID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTimelineOwnerID
	}

	if t.Title == "" {
		return ErrEmptyTimelineTitle
	}

	return nil
}

// AppendEvent records an event at the end of the timeline's list.
func (t *Timeline) AppendEvent(eventID uuid.UUID) {
	t.EventIDs = append(t.EventIDs, eventID)
	t.UpdatedAt = time.Now().UTC()
}

// DetachEvent removes an event reference from the timeline's list.
// Detaching an event that is not in the list is a no-op.
func (t *Timeline) DetachEvent(eventID uuid.UUID) {
	for i, id := range t.EventIDs {
		if id == eventID {
			t.EventIDs = append(t.EventIDs[:i], t.EventIDs[i+1:]...)
			t.UpdatedAt = time.Now().UTC()
			return
		}
	}
}
