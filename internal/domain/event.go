package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Event
var (
	ErrEmptyEventID          = errors.New("event ID cannot be empty")
	ErrEmptyEventTimelineID  = errors.New("event timeline ID cannot be empty")
	ErrEmptyEventName        = errors.New("event name cannot be empty")
	ErrEmptyEventDescription = errors.New("event description cannot be empty")
	ErrZeroEventDate         = errors.New("event date cannot be zero")
)

// Event is a dated entry that exists only inside a Timeline. The parent
// timeline reference is immutable after creation.
type Event struct {
	ID          uuid.UUID `json:"id"`
	TimelineID  uuid.UUID `json:"timeline_id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent creates a new Event under the given timeline.
func NewEvent(timelineID uuid.UUID, name string, date time.Time, description string) (*Event, error) {
	event := &Event{
		ID:          uuid.New(),
		TimelineID:  timelineID,
		Name:        strings.TrimSpace(name),
		Date:        date,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the Event has valid data.
func (e *Event) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyEventID
	}

	if e.TimelineID == uuid.Nil {
		return ErrEmptyEventTimelineID
	}

	if e.Name == "" {
		return ErrEmptyEventName
	}

	if e.Date.IsZero() {
		return ErrZeroEventDate
	}

	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyEventDescription
	}

	return nil
}
