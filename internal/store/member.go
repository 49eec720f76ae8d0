package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
)

// MemberStore defines the interface for member data persistence.
type MemberStore interface {
	// Create saves a new member to the store. The member must already
	// carry its password hash; plaintext passwords never reach the store.
	// Returns ErrEmailExists if the email is already taken (emails are
	// compared case-insensitively).
	Create(ctx context.Context, member *domain.Member) error

	// GetByID retrieves a member by their unique ID.
	// Returns ErrMemberNotFound if the member does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)

	// GetByEmail retrieves a member by their email address, matched
	// case-insensitively. Returns ErrMemberNotFound if no member exists.
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)

	// AddChild links a child member to a parent member.
	// Returns ErrDuplicate if the link already exists.
	AddChild(ctx context.Context, parentID, childID uuid.UUID) error

	// WithTx returns a MemberStore that runs against the given transaction.
	WithTx(tx *sql.Tx) MemberStore
}
