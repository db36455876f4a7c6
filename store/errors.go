package store

import "errors"

var (
	// ErrNotFound is returned when no object matches an identifier.
	ErrNotFound = errors.New("store: entity not found")

	// ErrInvalidIdentifier is returned when an identifier cannot address the type
	// (e.g. it names a field the type does not have).
	ErrInvalidIdentifier = errors.New("store: invalid identifier")
)
