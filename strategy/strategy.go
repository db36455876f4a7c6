// Package strategy holds per-field value strategies and the collection
// reconciliation strategies applied to collection-valued associations.
//
// A collection strategy diffs the resolved elements against the current
// contents of the association by element identity and applies the
// additions (and, for the AllowRemove variants, the removals) in place. The
// container itself is never replaced.
//
// By-value variants go through the owner's accessor methods (GetX, AddX,
// RemoveX, with a singular fallback such as AddTag). By-reference variants
// mutate the collection.Collection stored in the field directly.
package strategy

import (
	"errors"

	"github.com/jacentio/hydrator/metadata"
	"github.com/jacentio/hydrator/record"
)

var (
	// ErrUnbound is returned when a collection strategy is invoked without an
	// owning object or metadata.
	ErrUnbound = errors.New("strategy: collection strategy is not bound")

	// ErrMissingMethod is returned when a by-value strategy cannot find the
	// getter, adder or remover it needs.
	ErrMissingMethod = errors.New("strategy: missing accessor method")

	// ErrNotCollection is returned when an association is not stored in a
	// collection.Collection.
	ErrNotCollection = errors.New("strategy: field is not a collection")
)

// Strategy converts one field's value during extraction and hydration.
type Strategy interface {
	// Extract converts the value read from object.
	Extract(value any, object any) (any, error)

	// Hydrate converts an incoming value. data is the whole record being
	// hydrated.
	Hydrate(value any, data *record.Record) (any, error)
}

// CollectionStrategy reconciles a collection-valued association.
type CollectionStrategy interface {
	Strategy

	// HydrateCollection applies the resolved elements to the association
	// described by b.
	HydrateCollection(b Binding, values []any) error
}

// Binding names the association a collection strategy works on. It is built
// for every call and must not be reused across owning objects.
type Binding struct {
	Field    string
	Metadata metadata.Class
	Object   any
}

func (b Binding) check() error {
	if b.Object == nil || b.Metadata == nil || b.Field == "" {
		return ErrUnbound
	}
	return nil
}

// Func builds a Strategy from closures. A nil closure is the identity.
type Func struct {
	ExtractFunc func(value any, object any) (any, error)
	HydrateFunc func(value any, data *record.Record) (any, error)
}

// Extract implements Strategy.
func (f Func) Extract(value any, object any) (any, error) {
	if f.ExtractFunc == nil {
		return value, nil
	}
	return f.ExtractFunc(value, object)
}

// Hydrate implements Strategy.
func (f Func) Hydrate(value any, data *record.Record) (any, error) {
	if f.HydrateFunc == nil {
		return value, nil
	}
	return f.HydrateFunc(value, data)
}
