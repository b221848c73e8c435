package repository

import "errors"

// Common repository errors
var (
	ErrNotFound = errors.New("record not found")
	// ErrPersonInUse signals a referential guard: a person with active
	// registrations cannot be deleted. Distinguishable from generic failure
	// so the UI can show a precise message.
	ErrPersonInUse = errors.New("person has active registrations")
)
