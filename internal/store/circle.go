package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hearthsidehq/hearthside-api/internal/domain"
)

// CircleStore defines the interface for circle data persistence.
// The member set is part of the circle record; loads return it fully
// populated and re-validated (owner always in the member set).
type CircleStore interface {
	// Create saves a new circle, including its initial member set.
	Create(ctx context.Context, circle *domain.Circle) error

	// GetByID retrieves a circle with its member set.
	// Returns ErrCircleNotFound if the circle does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Circle, error)

	// Update replaces a circle's mutable state, including the member set.
	// The read-modify-write that produced the circle should run inside a
	// transaction (WithTx + RunInTransaction) so membership guards observe
	// a consistent snapshot.
	// Returns ErrCircleNotFound if the circle does not exist.
	Update(ctx context.Context, circle *domain.Circle) error

	// FindByMember returns all circles the given member belongs to,
	// newest first. This is the membership-resolution primitive; it is
	// queried once per request and never cached across requests.
	FindByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Circle, error)

	// WithTx returns a CircleStore that runs against the given transaction.
	WithTx(tx *sql.Tx) CircleStore
}
