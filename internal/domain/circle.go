package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Circle
var (
	ErrEmptyCircleID      = errors.New("circle ID cannot be empty")
	ErrEmptyCircleName    = errors.New("circle name cannot be empty")
	ErrEmptyCircleOwnerID = errors.New("circle owner ID cannot be empty")
	ErrOwnerNotMember     = errors.New("circle owner must be a member of the circle")
	ErrDuplicateMember    = errors.New("member already belongs to the circle")
	ErrOwnerRemoval       = errors.New("circle owner cannot be removed")
)

// Circle is a named group of members that stories can be shared with.
// The owner is fixed at creation and is always a member; mutations that
// would break that invariant are rejected.
type Circle struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	MemberIDs []uuid.UUID `json:"member_ids"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewCircle creates a new Circle owned by ownerID. The owner is enrolled
// as the first member.
func NewCircle(name string, ownerID uuid.UUID) (*Circle, error) {
	circle := &Circle{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		OwnerID:   ownerID,
		MemberIDs: []uuid.UUID{ownerID},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := circle.Validate(); err != nil {
		return nil, err
	}

	return circle, nil
}

// Validate checks the Circle's invariants: non-empty name, an owner that
// appears in the member set, and no duplicate members. Stores run this on
// every load as a consistency check, not just on writes.
func (c *Circle) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCircleID
	}

	if c.Name == "" {
		return ErrEmptyCircleName
	}

	if c.OwnerID == uuid.Nil {
		return ErrEmptyCircleOwnerID
	}

	seen := make(map[uuid.UUID]struct{}, len(c.MemberIDs))
	for _, id := range c.MemberIDs {
		if _, dup := seen[id]; dup {
			return ErrDuplicateMember
		}
		seen[id] = struct{}{}
	}

	if _, ok := seen[c.OwnerID]; !ok {
		return ErrOwnerNotMember
	}

	return nil
}

// HasMember reports whether the given member belongs to the circle.
func (c *Circle) HasMember(memberID uuid.UUID) bool {
	for _, id := range c.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// AddMember appends a member to the circle.
// Returns ErrDuplicateMember if the member already belongs to it.
func (c *Circle) AddMember(memberID uuid.UUID) error {
	if c.HasMember(memberID) {
		return ErrDuplicateMember
	}

	c.MemberIDs = append(c.MemberIDs, memberID)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveMember removes a member from the circle. Removing the owner is
// always rejected. Removing a member that is not in the circle is a no-op.
func (c *Circle) RemoveMember(memberID uuid.UUID) error {
	if memberID == c.OwnerID {
		return ErrOwnerRemoval
	}

	for i, id := range c.MemberIDs {
		if id == memberID {
			c.MemberIDs = append(c.MemberIDs[:i], c.MemberIDs[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}

	return nil
}
