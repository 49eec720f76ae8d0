// Package service provides application-level services for members, circles,
// stories, timelines, and cross-entity search.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent conditions that callers check with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped with fmt.Errorf("%w") for context
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different member than
	// the one making the request. API layer maps this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another member")

	// ErrNotCircleMember indicates the acting member does not belong to the
	// circle they are trying to use. Maps to HTTP 403 Forbidden.
	ErrNotCircleMember = errors.New("member does not belong to the circle")

	// ErrAlreadyCircleMember indicates an attempt to add a member who is
	// already in the circle. Maps to HTTP 409 Conflict.
	ErrAlreadyCircleMember = errors.New("member already belongs to the circle")

	// ErrChildAlreadyLinked indicates an attempt to link a child who is
	// already linked to the parent. Maps to HTTP 409 Conflict.
	ErrChildAlreadyLinked = errors.New("child is already linked to this member")

	// ErrInvalidCredentials indicates a failed login. The same error is
	// returned for unknown email and wrong password so responses don't
	// reveal which one it was. Maps to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmptySearchQuery indicates a search was requested with a blank
	// query string. Maps to HTTP 400 Bad Request.
	ErrEmptySearchQuery = errors.New("search query cannot be empty")
)
