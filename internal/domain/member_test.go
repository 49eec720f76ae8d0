package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewMember(t *testing.T) {
	member, err := NewMember("Maria Zanetti", "Maria@Example.COM", "longenoughpassword", RoleGrandparent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if member.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if member.Email != "maria@example.com" {
		t.Errorf("Expected lowercased email, got %s", member.Email)
	}

	if member.Role != RoleGrandparent {
		t.Errorf("Expected role %s, got %s", RoleGrandparent, member.Role)
	}

	if member.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Empty role defaults to kid
	member, err = NewMember("Luca", "luca@example.com", "longenoughpassword", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if member.Role != RoleKid {
		t.Errorf("Expected default role %s, got %s", RoleKid, member.Role)
	}

	// Invalid inputs
	if _, err = NewMember("", "maria@example.com", "longenoughpassword", RoleParent); !errors.Is(err, ErrEmptyMemberName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyMemberName, err)
	}

	if _, err = NewMember("Maria", "notanemail", "longenoughpassword", RoleParent); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	if _, err = NewMember("Maria", "maria@example.com", "short", RoleParent); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}

	if _, err = NewMember("Maria", "maria@example.com", "longenoughpassword", "admin"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Expected error %v, got %v", ErrInvalidRole, err)
	}
}

func TestMemberValidateStoredMember(t *testing.T) {
	// Members loaded from storage carry only the hash.
	member := Member{
		ID:             uuid.New(),
		Name:           "Maria",
		Email:          "maria@example.com",
		Role:           RoleParent,
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}

	if err := member.Validate(); err != nil {
		t.Errorf("Expected valid stored member, got %v", err)
	}

	member.HashedPassword = ""
	if err := member.Validate(); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}

func TestMemberHasChild(t *testing.T) {
	childID := uuid.New()
	member := Member{
		ID:             uuid.New(),
		Name:           "Maria",
		Email:          "maria@example.com",
		Role:           RoleParent,
		HashedPassword: "hash",
		ChildIDs:       []uuid.UUID{childID},
	}

	if !member.HasChild(childID) {
		t.Error("Expected HasChild to report linked child")
	}

	if member.HasChild(uuid.New()) {
		t.Error("Expected HasChild to be false for unknown member")
	}
}
