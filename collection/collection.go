// Package collection provides the in-place mutable container used for
// collection-valued associations.
//
// A collection-valued association is never reassigned by the hydrator: only
// its contents change, so any alias held elsewhere observes the update.
// Elements are compared by intrinsic identity (pointer address), never by
// structural equality.
package collection

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Collection is the untyped view of a container the hydrator mutates.
type Collection interface {
	// Elements returns a snapshot of the elements in order.
	Elements() []any

	// AddElement appends e. It fails if e is not of the element type.
	AddElement(e any) error

	// RemoveElement removes the first element identical to e.
	RemoveElement(e any) bool

	// Len returns the number of elements.
	Len() int
}

// ArrayCollection is an ordered, slice-backed Collection.
// The zero value is an empty collection ready to use.
type ArrayCollection[T any] struct {
	items []T
}

var _ Collection = (*ArrayCollection[any])(nil)

// New creates a collection holding items.
func New[T any](items ...T) *ArrayCollection[T] {
	c := &ArrayCollection[T]{}
	c.items = append(c.items, items...)
	return c
}

// Add appends item.
func (c *ArrayCollection[T]) Add(item T) {
	c.items = append(c.items, item)
}

// Remove removes the first element identical to item.
func (c *ArrayCollection[T]) Remove(item T) bool {
	for i, e := range c.items {
		if Same(e, item) {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether an element identical to item is present.
func (c *ArrayCollection[T]) Contains(item T) bool {
	for _, e := range c.items {
		if Same(e, item) {
			return true
		}
	}
	return false
}

// At returns the element at index i.
func (c *ArrayCollection[T]) At(i int) T {
	return c.items[i]
}

// Len returns the number of elements.
func (c *ArrayCollection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// ToSlice returns a copy of the elements.
func (c *ArrayCollection[T]) ToSlice() []T {
	if c == nil {
		return nil
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Clear removes all elements.
func (c *ArrayCollection[T]) Clear() {
	c.items = c.items[:0]
}

// Elements implements Collection.
func (c *ArrayCollection[T]) Elements() []any {
	if c == nil {
		return nil
	}
	out := make([]any, len(c.items))
	for i, e := range c.items {
		out[i] = e
	}
	return out
}

// AddElement implements Collection.
func (c *ArrayCollection[T]) AddElement(e any) error {
	item, ok := e.(T)
	if !ok {
		var zero T
		return fmt.Errorf("collection: cannot add %T to collection of %T", e, zero)
	}
	c.Add(item)
	return nil
}

// RemoveElement implements Collection.
func (c *ArrayCollection[T]) RemoveElement(e any) bool {
	item, ok := e.(T)
	if !ok {
		return false
	}
	return c.Remove(item)
}

// MarshalJSON encodes the collection as a JSON array.
func (c *ArrayCollection[T]) MarshalJSON() ([]byte, error) {
	if c == nil || c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// Same reports whether a and b are the same element. Pointers (and other
// reference kinds) are compared by address and type; comparable values by ==.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ka, kb := IdentityKey(a), IdentityKey(b)
	if ka == nil || kb == nil {
		return false
	}
	return ka == kb
}

type refKey struct {
	t reflect.Type
	p uintptr
}

// IdentityKey returns a comparable key identifying v, or nil when v has no
// usable identity (non-comparable values).
func IdentityKey(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return refKey{t: rv.Type(), p: rv.Pointer()}
	case reflect.Slice:
		return nil
	}
	if !rv.Comparable() {
		return nil
	}
	return v
}
