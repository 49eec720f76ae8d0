package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewCircle(t *testing.T) {
	ownerID := uuid.New()

	circle, err := NewCircle("Zanetti Family", ownerID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if circle.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, circle.OwnerID)
	}

	if !circle.HasMember(ownerID) {
		t.Error("Expected owner to be enrolled as the first member")
	}

	if len(circle.MemberIDs) != 1 {
		t.Errorf("Expected 1 member, got %d", len(circle.MemberIDs))
	}

	if _, err = NewCircle("   ", ownerID); !errors.Is(err, ErrEmptyCircleName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyCircleName, err)
	}

	if _, err = NewCircle("Zanetti Family", uuid.Nil); !errors.Is(err, ErrEmptyCircleOwnerID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyCircleOwnerID, err)
	}
}

func TestCircleAddMember(t *testing.T) {
	ownerID := uuid.New()
	memberID := uuid.New()

	circle, err := NewCircle("Zanetti Family", ownerID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := circle.AddMember(memberID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !circle.HasMember(memberID) {
		t.Error("Expected member to be in the circle after AddMember")
	}

	if err := circle.AddMember(memberID); !errors.Is(err, ErrDuplicateMember) {
		t.Errorf("Expected error %v, got %v", ErrDuplicateMember, err)
	}

	if len(circle.MemberIDs) != 2 {
		t.Errorf("Expected 2 members after duplicate add, got %d", len(circle.MemberIDs))
	}
}

func TestCircleRemoveMember(t *testing.T) {
	ownerID := uuid.New()
	memberID := uuid.New()

	circle, err := NewCircle("Zanetti Family", ownerID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := circle.AddMember(memberID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Owner can never be removed, even by themselves.
	if err := circle.RemoveMember(ownerID); !errors.Is(err, ErrOwnerRemoval) {
		t.Errorf("Expected error %v, got %v", ErrOwnerRemoval, err)
	}

	if err := circle.RemoveMember(memberID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if circle.HasMember(memberID) {
		t.Error("Expected member to be gone after RemoveMember")
	}

	// Removing an absent member is a no-op.
	if err := circle.RemoveMember(memberID); err != nil {
		t.Errorf("Expected no error removing absent member, got %v", err)
	}
	if len(circle.MemberIDs) != 1 {
		t.Errorf("Expected 1 member, got %d", len(circle.MemberIDs))
	}

	// The owner invariant holds after every mutation.
	if err := circle.Validate(); err != nil {
		t.Errorf("Expected valid circle after mutations, got %v", err)
	}
}

func TestCircleValidateOwnerInvariant(t *testing.T) {
	ownerID := uuid.New()
	circle := Circle{
		ID:        uuid.New(),
		Name:      "Zanetti Family",
		OwnerID:   ownerID,
		MemberIDs: []uuid.UUID{uuid.New()},
	}

	if err := circle.Validate(); !errors.Is(err, ErrOwnerNotMember) {
		t.Errorf("Expected error %v, got %v", ErrOwnerNotMember, err)
	}

	dup := uuid.New()
	circle.MemberIDs = []uuid.UUID{ownerID, dup, dup}
	if err := circle.Validate(); !errors.Is(err, ErrDuplicateMember) {
		t.Errorf("Expected error %v, got %v", ErrDuplicateMember, err)
	}
}
