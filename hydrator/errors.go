package hydrator

import "errors"

var (
	// ErrInvalidObject is returned when the object is not a non-nil pointer to struct.
	ErrInvalidObject = errors.New("hydrator: object must be a non-nil pointer to struct")

	// ErrInvalidStrategy is returned when a collection-valued association has a
	// registered strategy that is not a strategy.CollectionStrategy.
	ErrInvalidStrategy = errors.New("hydrator: collection fields require a collection strategy")

	// ErrReadOnly is returned when hydrating by reference into a read-only type or field.
	ErrReadOnly = errors.New("hydrator: read-only field")

	// ErrInvalidIdentifier is returned when a value cannot be used as an identifier
	// of the target type.
	ErrInvalidIdentifier = errors.New("hydrator: invalid identifier")

	// ErrTypeMismatch is returned when a value cannot be stored in a field, or the
	// store returns an object of the wrong type.
	ErrTypeMismatch = errors.New("hydrator: type mismatch")
)
