package store

import (
	"context"
	"reflect"
	"sort"
)

// Identifier maps identifier field names (record names, e.g. "id") to values.
// It may be partial: fields absent from the map are not constrained.
type Identifier map[string]any

// Keys returns the field names in sorted order.
func (id Identifier) Keys() []string {
	keys := make([]string, 0, len(id))
	for k := range id {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy.
func (id Identifier) Clone() Identifier {
	out := make(Identifier, len(id))
	for k, v := range id {
		out[k] = v
	}
	return out
}

// Finder looks up persisted objects.
type Finder interface {
	// Find returns the object of type t (pointer to struct) matching id, or
	// ErrNotFound.
	Find(ctx context.Context, t reflect.Type, id Identifier) (any, error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc func(ctx context.Context, t reflect.Type, id Identifier) (any, error)

// Find implements Finder.
func (f FinderFunc) Find(ctx context.Context, t reflect.Type, id Identifier) (any, error) {
	return f(ctx, t, id)
}
