// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is not permitted
	// for the acting member.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// validationErrors lists every sentinel that signals caller-supplied
// data failing a domain rule.
var validationErrors = []error{
	ErrValidation,
	ErrInvalidID,
	ErrEmptyMemberID,
	ErrEmptyMemberName,
	ErrEmptyEmail,
	ErrInvalidEmail,
	ErrInvalidRole,
	ErrPasswordTooShort,
	ErrPasswordTooLong,
	ErrEmptyPassword,
	ErrEmptyHashedPassword,
	ErrEmptyCircleID,
	ErrEmptyCircleName,
	ErrEmptyCircleOwnerID,
	ErrOwnerNotMember,
	ErrDuplicateMember,
	ErrOwnerRemoval,
	ErrEmptyStoryID,
	ErrEmptyStoryAuthorID,
	ErrEmptyStoryTitle,
	ErrEmptyStoryContent,
	ErrInvalidMediaType,
	ErrDuplicateShare,
	ErrEmptyTimelineID,
	ErrEmptyTimelineOwnerID,
	ErrEmptyTimelineTitle,
	ErrEmptyEventID,
	ErrEmptyEventTimelineID,
	ErrEmptyEventName,
	ErrZeroEventDate,
	ErrEmptyEventDescription,
}

// IsValidationError reports whether err is, or wraps, one of the
// domain's validation sentinels.
func IsValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
