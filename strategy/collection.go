package strategy

import (
	"fmt"
	"reflect"

	"github.com/jacentio/hydrator/collection"
	"github.com/jacentio/hydrator/internal/access"
	"github.com/jacentio/hydrator/record"
)

// identity is embedded by the collection strategies: their per-value
// Extract and Hydrate leave values untouched.
type identity struct{}

func (identity) Extract(value any, _ any) (any, error)            { return value, nil }
func (identity) Hydrate(value any, _ *record.Record) (any, error) { return value, nil }

// AllowRemoveByValue adds missing elements and removes stale ones through
// the owner's adder and remover.
type AllowRemoveByValue struct{ identity }

// HydrateCollection implements CollectionStrategy.
func (AllowRemoveByValue) HydrateCollection(b Binding, values []any) error {
	return hydrateByValue(b, values, true)
}

// DisallowRemoveByValue only adds missing elements, through the owner's adder.
type DisallowRemoveByValue struct{ identity }

// HydrateCollection implements CollectionStrategy.
func (DisallowRemoveByValue) HydrateCollection(b Binding, values []any) error {
	return hydrateByValue(b, values, false)
}

// AllowRemoveByReference adds missing elements and removes stale ones on the
// stored collection.
type AllowRemoveByReference struct{ identity }

// HydrateCollection implements CollectionStrategy.
func (AllowRemoveByReference) HydrateCollection(b Binding, values []any) error {
	return hydrateByReference(b, values, true)
}

// DisallowRemoveByReference only adds missing elements to the stored collection.
type DisallowRemoveByReference struct{ identity }

// HydrateCollection implements CollectionStrategy.
func (DisallowRemoveByReference) HydrateCollection(b Binding, values []any) error {
	return hydrateByReference(b, values, false)
}

// Diff compares two sequences by element identity. toAdd holds the elements
// of next missing from current, toRemove the elements of current missing
// from next, both in their original order.
func Diff(current, next []any) (toAdd, toRemove []any) {
	inCurrent := identities(current)
	inNext := identities(next)
	for _, e := range next {
		if !member(inCurrent, e) {
			toAdd = append(toAdd, e)
		}
	}
	for _, e := range current {
		if !member(inNext, e) {
			toRemove = append(toRemove, e)
		}
	}
	return toAdd, toRemove
}

func identities(s []any) map[any]struct{} {
	set := make(map[any]struct{}, len(s))
	for _, e := range s {
		if k := collection.IdentityKey(e); k != nil {
			set[k] = struct{}{}
		}
	}
	return set
}

func member(set map[any]struct{}, e any) bool {
	k := collection.IdentityKey(e)
	if k == nil {
		return false
	}
	_, ok := set[k]
	return ok
}

func hydrateByValue(b Binding, values []any, allowRemove bool) error {
	if err := b.check(); err != nil {
		return err
	}
	methods := access.For(reflect.TypeOf(b.Object))
	adder, ok := methods.Adder(b.Field)
	if !ok {
		return fmt.Errorf("%w: %s has no adder for %q", ErrMissingMethod, b.Metadata.Name(), b.Field)
	}
	var remover *access.Method
	if allowRemove {
		if remover, ok = methods.Remover(b.Field); !ok {
			return fmt.Errorf("%w: %s has no remover for %q", ErrMissingMethod, b.Metadata.Name(), b.Field)
		}
	}
	getter, ok := methods.Getter(b.Field)
	if !ok {
		return fmt.Errorf("%w: %s has no getter for %q", ErrMissingMethod, b.Metadata.Name(), b.Field)
	}

	value, err := getter.Get(b.Object)
	if err != nil {
		return fmt.Errorf("%s: %w", getter.Name(), err)
	}
	current, err := Elements(value)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", b.Metadata.Name(), b.Field, err)
	}

	toAdd, toRemove := Diff(current, values)
	if allowRemove && len(toRemove) > 0 {
		if err := apply(remover, b.Object, toRemove); err != nil {
			return err
		}
	}
	if len(toAdd) > 0 {
		return apply(adder, b.Object, toAdd)
	}
	return nil
}

// apply passes elements to an adder or remover: in one call when the method
// takes a slice (AddTags(tags ...*Tag)), otherwise one call per element.
func apply(m *access.Method, object any, elems []any) error {
	if m.In().Kind() == reflect.Slice {
		return m.Call(object, elems)
	}
	for _, e := range elems {
		if err := m.Call(object, e); err != nil {
			return err
		}
	}
	return nil
}

func hydrateByReference(b Binding, values []any, allowRemove bool) error {
	if err := b.check(); err != nil {
		return err
	}
	sf, ok := b.Metadata.StructField(b.Field)
	if !ok {
		return fmt.Errorf("%w: %s.%s has no storage", ErrNotCollection, b.Metadata.Name(), b.Field)
	}
	storage, err := access.Storage(b.Object, sf)
	if err != nil {
		return err
	}
	coll, err := container(storage)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", b.Metadata.Name(), b.Field, err)
	}

	toAdd, toRemove := Diff(coll.Elements(), values)
	for _, e := range toAdd {
		if err := coll.AddElement(e); err != nil {
			return fmt.Errorf("%s.%s: %w", b.Metadata.Name(), b.Field, err)
		}
	}
	if allowRemove {
		for _, e := range toRemove {
			coll.RemoveElement(e)
		}
	}
	return nil
}

// container returns the collection held by storage. A nil pointer to a
// collection type is allocated in place.
func container(storage reflect.Value) (collection.Collection, error) {
	switch storage.Kind() {
	case reflect.Pointer:
		if storage.IsNil() {
			if _, ok := reflect.New(storage.Type().Elem()).Interface().(collection.Collection); !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotCollection, storage.Type())
			}
			storage.Set(reflect.New(storage.Type().Elem()))
		}
		if c, ok := storage.Interface().(collection.Collection); ok {
			return c, nil
		}
	case reflect.Interface:
		if c, ok := storage.Interface().(collection.Collection); ok && !storage.IsNil() {
			return c, nil
		}
	default:
		if storage.CanAddr() {
			if c, ok := storage.Addr().Interface().(collection.Collection); ok {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotCollection, storage.Type())
}

// Elements flattens a collection value read from an owner: a Collection, a
// slice or array, or nil.
func Elements(v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	if c, ok := v.(collection.Collection); ok {
		if rv := reflect.ValueOf(c); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil
		}
		return c.Elements(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotCollection, v)
}
