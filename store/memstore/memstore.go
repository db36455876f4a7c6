// Package memstore is an in-memory identity map implementing store.Finder.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jacentio/hydrator/store"
)

// Call records one Find invocation.
type Call struct {
	Type reflect.Type
	ID   store.Identifier
}

type entry struct {
	id     store.Identifier
	entity any
}

// Store keeps entities per type in insertion order.
type Store struct {
	mu      sync.RWMutex
	entries map[reflect.Type][]entry
	calls   []Call
}

var _ store.Finder = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{entries: make(map[reflect.Type][]entry)}
}

// Put registers entity under id. entity must be a pointer.
func (s *Store) Put(entity any, id store.Identifier) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := reflect.TypeOf(entity)
	s.entries[t] = append(s.entries[t], entry{id: id.Clone(), entity: entity})
	return s
}

// Find implements store.Finder. The first entity whose identifier agrees on
// every key of id is returned; values are compared by their string form so
// 1, int64(1) and "1" address the same entity.
func (s *Store) Find(_ context.Context, t reflect.Type, id store.Identifier) (any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Type: t, ID: id.Clone()})
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries[t] {
		if matches(e.id, id) {
			return e.entity, nil
		}
	}
	return nil, store.ErrNotFound
}

func matches(have, want store.Identifier) bool {
	if len(want) == 0 {
		return false
	}
	for k, v := range want {
		hv, ok := have[k]
		if !ok || fmt.Sprint(hv) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// Calls returns the Find invocations in order.
func (s *Store) Calls() []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Call(nil), s.calls...)
}

// Reset forgets recorded calls; entities are kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}
