package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. Callers that must not leak the existence of a record
	// return this for present-but-invisible records as well; the two
	// cases are indistinguishable by design.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a member with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrMemberNotFound indicates that the requested member does not exist in the store.
	ErrMemberNotFound = fmt.Errorf("%w: member", ErrNotFound)

	// ErrCircleNotFound indicates that the requested circle does not exist in the store.
	ErrCircleNotFound = fmt.Errorf("%w: circle", ErrNotFound)

	// ErrStoryNotFound indicates that the requested story does not exist in the store.
	ErrStoryNotFound = fmt.Errorf("%w: story", ErrNotFound)

	// ErrTimelineNotFound indicates that the requested timeline does not exist in the store.
	ErrTimelineNotFound = fmt.Errorf("%w: timeline", ErrNotFound)

	// ErrEventNotFound indicates that the requested event does not exist in the store.
	ErrEventNotFound = fmt.Errorf("%w: event", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a member with the given email already
	// exists. Email uniqueness is case-insensitive.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
