package hydrator

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/jacentio/hydrator/coerce"
	"github.com/jacentio/hydrator/filter"
	"github.com/jacentio/hydrator/metadata"
	"github.com/jacentio/hydrator/record"
	"github.com/jacentio/hydrator/store"
	"github.com/jacentio/hydrator/strategy"
)

// Hydrator extracts and hydrates domain objects.
type Hydrator struct {
	metadata metadata.Provider
	finder   store.Finder
	config   Config
	coercer  *coerce.Coercer
	logger   *slog.Logger

	mu         sync.RWMutex
	strategies map[string]strategy.Strategy
}

// New creates a Hydrator resolving metadata with provider and looking up
// persisted objects with finder.
func New(provider metadata.Provider, finder store.Finder, config Config) *Hydrator {
	config.validate()
	return &Hydrator{
		metadata:   provider,
		finder:     finder,
		config:     config,
		coercer:    coerce.New(config.Location),
		logger:     config.Logger,
		strategies: make(map[string]strategy.Strategy),
	}
}

// ByValue reports whether the hydrator goes through accessor methods.
func (h *Hydrator) ByValue() bool {
	return !h.config.ByReference
}

// AddStrategy registers s for every field named name.
func (h *Hydrator) AddStrategy(name string, s strategy.Strategy) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.strategies[name] = s
}

// RemoveStrategy removes the strategy registered for name.
func (h *Hydrator) RemoveStrategy(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.strategies, name)
}

// Strategy returns the strategy registered for name.
func (h *Hydrator) Strategy(name string) (strategy.Strategy, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.strategies[name]
	return s, ok
}

// HasStrategy returns true if a strategy is registered for name.
func (h *Hydrator) HasStrategy(name string) bool {
	_, ok := h.Strategy(name)
	return ok
}

// Extract reads the fields of object into a record, in declaration order.
// Fields rejected by the filter, fields without a getter (by value) and
// uninitialized collections (by reference) are omitted.
func (h *Hydrator) Extract(object any) (*record.Record, error) {
	c, err := h.prepare(context.Background(), object)
	if err != nil {
		return nil, err
	}
	flt := h.config.Filter
	if p, ok := object.(filter.Provider); ok {
		flt = p.Filter()
	}
	return c.extract(object, flt)
}

// Hydrate writes data into object and returns the hydrated object. When data
// holds values for every identifier field and the store knows the
// identified object, that object is hydrated and returned instead.
func (h *Hydrator) Hydrate(ctx context.Context, data *record.Record, object any) (any, error) {
	return h.hydrate(ctx, data, object, true)
}

// HydrateMap is Hydrate for a plain map. Keys are processed in sorted order.
func (h *Hydrator) HydrateMap(ctx context.Context, data map[string]any, object any) (any, error) {
	return h.Hydrate(ctx, record.FromMap(data), object)
}

// Find resolves identifiers to an instance of target: an instance of target
// is returned as is, a null identifier (nil, or a mapping whose values are
// all nil) resolves to nil without a store lookup, anything else is looked
// up. A store miss resolves to nil.
func (h *Hydrator) Find(ctx context.Context, target reflect.Type, identifiers any) (any, error) {
	class, err := h.metadata.Metadata(target)
	if err != nil {
		return nil, err
	}
	c := &call{h: h, ctx: ctx, class: class}
	return c.find(identifiers, class)
}

func (h *Hydrator) hydrate(ctx context.Context, data *record.Record, object any, lookup bool) (any, error) {
	c, err := h.prepare(ctx, object)
	if err != nil {
		return nil, err
	}
	return c.hydrate(data, object, lookup)
}

// prepare resolves the metadata of object and binds a collection strategy
// to every collection-valued association. The result lives for one call.
func (h *Hydrator) prepare(ctx context.Context, object any) (*call, error) {
	t := reflect.TypeOf(object)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct || reflect.ValueOf(object).IsNil() {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidObject, object)
	}
	class, err := h.metadata.Metadata(t)
	if err != nil {
		return nil, err
	}

	c := &call{
		h:           h,
		ctx:         ctx,
		class:       class,
		collections: make(map[string]strategy.CollectionStrategy),
	}
	for _, name := range class.AssociationNames() {
		if !class.IsCollectionValuedAssociation(name) {
			continue
		}
		s, ok := h.Strategy(name)
		if !ok {
			if h.ByValue() {
				s = h.config.DefaultByValueStrategy()
			} else {
				s = h.config.DefaultByReferenceStrategy()
			}
		}
		cs, ok := s.(strategy.CollectionStrategy)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s has %T", ErrInvalidStrategy, class.Name(), name, s)
		}
		c.collections[name] = cs
	}
	return c, nil
}

func (h *Hydrator) extractName(name string) string {
	if h.config.NamingStrategy == nil {
		return name
	}
	return h.config.NamingStrategy.Extract(name)
}

func (h *Hydrator) hydrateName(key string) string {
	if h.config.NamingStrategy == nil {
		return key
	}
	return h.config.NamingStrategy.Hydrate(key)
}
