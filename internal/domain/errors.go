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

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidDifficulty is returned when a task difficulty is not one
	// of the known levels.
	ErrInvalidDifficulty = errors.New("invalid task difficulty")

	// ErrInvalidTaskStatus is returned when a task status is not valid.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrVersionNotContiguous is returned when a plan version append would
	// break the contiguous 1..N version numbering of a plan.
	ErrVersionNotContiguous = errors.New("plan version number is not contiguous")
)
