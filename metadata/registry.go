package metadata

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry holds the metadata of statically declared types.
type Registry struct {
	mu      sync.RWMutex
	classes map[reflect.Type]Class
	order   []reflect.Type
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[reflect.Type]Class),
	}
}

// Register compiles a mapping and adds it to the registry.
// Registering the same type twice replaces the previous metadata.
func (r *Registry) Register(m Mapping) error {
	c, err := m.Compile()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[c.Type()]; !exists {
		r.order = append(r.order, c.Type())
	}
	r.classes[c.Type()] = c
	return nil
}

// MustRegister registers mappings and panics on the first invalid one.
// This should be called during init() or test setup.
func (r *Registry) MustRegister(ms ...Mapping) *Registry {
	for _, m := range ms {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
	return r
}

// Metadata implements Provider.
func (r *Registry) Metadata(t reflect.Type) (Class, error) {
	key := PointerType(t)
	r.mu.RLock()
	c, ok := r.classes[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	return c, nil
}

// Has returns true if metadata is registered for t.
func (r *Registry) Has(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[PointerType(t)]
	return ok
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]reflect.Type(nil), r.order...)
}
