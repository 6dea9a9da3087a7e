// Package services defines the business logic for relationships, chat
// context, and response embellishment. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or exit codes is performed at the CLI boundary.
package services

import "errors"

var (
	// ErrInvalidLevel is returned when a manual override names an
	// unrecognized relationship level. The operation is a no-op.
	ErrInvalidLevel = errors.New("unknown relationship level")

	// ErrRecordNotFound indicates that no relationship record exists for the
	// requested (platform, user) key.
	ErrRecordNotFound = errors.New("relationship not found")
)
