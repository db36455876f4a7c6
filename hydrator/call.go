package hydrator

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jacentio/hydrator/filter"
	"github.com/jacentio/hydrator/internal/access"
	"github.com/jacentio/hydrator/metadata"
	"github.com/jacentio/hydrator/record"
	"github.com/jacentio/hydrator/strategy"
)

// call is the state of one Extract or Hydrate invocation on one object.
// Nested hydrations get their own call.
type call struct {
	h           *Hydrator
	ctx         context.Context
	class       metadata.Class
	collections map[string]strategy.CollectionStrategy
}

// fieldNames lists scalar and association names, embedded paths collapsed
// to their top-level name, without duplicates.
func fieldNames(class metadata.Class) []string {
	all := append(class.FieldNames(), class.AssociationNames()...)
	seen := make(map[string]bool, len(all))
	out := make([]string, 0, len(all))
	for _, name := range all {
		if top, _, ok := strings.Cut(name, "."); ok {
			name = top
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (c *call) extract(object any, flt filter.Filter) (*record.Record, error) {
	out := record.New()
	for _, name := range fieldNames(c.class) {
		if flt != nil && !flt.Filter(name) {
			continue
		}

		var (
			value any
			ok    bool
			err   error
		)
		if c.h.ByValue() {
			value, ok, err = c.readByValue(object, name)
		} else {
			value, ok, err = c.readByReference(object, name)
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if s, ok := c.h.Strategy(name); ok {
			if value, err = s.Extract(value, object); err != nil {
				return nil, fmt.Errorf("extract %s.%s: %w", c.class.Name(), name, err)
			}
		}
		out.Set(c.h.extractName(name), value)
	}
	return out, nil
}

func (c *call) readByValue(object any, name string) (any, bool, error) {
	getter, ok := access.For(reflect.TypeOf(object)).Getter(name)
	if !ok {
		return nil, false, nil
	}
	value, err := getter.Get(object)
	if err != nil {
		return nil, false, fmt.Errorf("%s.%s: %w", c.class.Name(), getter.Name(), err)
	}
	return value, true, nil
}

func (c *call) readByReference(object any, name string) (any, bool, error) {
	sf, ok := c.class.StructField(name)
	if !ok {
		return nil, false, nil
	}
	storage, err := access.Storage(object, sf)
	if err != nil {
		return nil, false, err
	}
	if c.class.IsCollectionValuedAssociation(name) && access.IsNillable(storage.Kind()) && storage.IsNil() {
		return nil, false, nil
	}
	return storage.Interface(), true, nil
}

func (c *call) hydrate(data *record.Record, object any, lookup bool) (any, error) {
	if lookup {
		found, err := c.findByRecord(data)
		if err != nil {
			return nil, err
		}
		if found != nil {
			object = found
		}
	}

	var err error
	data.Range(func(key string, value any) bool {
		field := c.h.hydrateName(key)
		if c.h.ByValue() {
			err = c.hydrateByValue(object, field, value, data)
		} else {
			err = c.hydrateByReference(object, field, value, data)
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return object, nil
}

func (c *call) hydrateByValue(object any, field string, value any, data *record.Record) error {
	methods := access.For(reflect.TypeOf(object))

	if c.class.IsCollectionValuedAssociation(field) {
		return c.toMany(object, field, c.class.AssociationTargetType(field), value)
	}

	setter, ok := methods.Setter(field)
	if !ok {
		c.skip(field, "no setter")
		return nil
	}

	if c.class.IsSingleValuedAssociation(field) {
		v, err := c.hydrateValue(field, value, data)
		if err != nil {
			return err
		}
		resolved, err := c.toOne(c.class.AssociationTargetType(field), v)
		if err != nil {
			return err
		}
		if isNil(resolved) && !setter.AcceptsNil() {
			c.skip(field, "setter does not accept nil")
			return nil
		}
		return c.invoke(setter, object, field, resolved)
	}

	v, err := c.hydrateValue(field, value, data)
	if err != nil {
		return err
	}
	return c.invoke(setter, object, field, v)
}

func (c *call) hydrateByReference(object any, field string, value any, data *record.Record) error {
	if strings.Contains(field, ".") {
		c.skip(field, "embedded path")
		return nil
	}
	sf, ok := c.class.StructField(field)
	if !ok {
		c.skip(field, "unknown field")
		return nil
	}
	if c.class.IsReadOnly() || c.class.IsReadOnlyField(field) {
		return fmt.Errorf("%w: cannot hydrate %s.%s by reference", ErrReadOnly, c.class.Name(), field)
	}

	if c.class.IsCollectionValuedAssociation(field) {
		return c.toMany(object, field, c.class.AssociationTargetType(field), value)
	}

	v, err := c.hydrateValue(field, value, data)
	if err != nil {
		return err
	}
	if c.class.IsSingleValuedAssociation(field) {
		if v, err = c.toOne(c.class.AssociationTargetType(field), v); err != nil {
			return err
		}
	}

	storage, err := access.Storage(object, sf)
	if err != nil {
		return err
	}
	converted, err := access.Merge(v, storage)
	if err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrTypeMismatch, c.class.Name(), field, err)
	}
	storage.Set(converted)
	return nil
}

// hydrateValue applies the registered strategy of field, then the coercion
// of its declared type. nil stays nil for nullable fields.
func (c *call) hydrateValue(field string, value any, data *record.Record) (any, error) {
	if s, ok := c.h.Strategy(field); ok {
		v, err := s.Hydrate(value, data)
		if err != nil {
			return nil, fmt.Errorf("hydrate %s.%s: %w", c.class.Name(), field, err)
		}
		value = v
	}
	if value == nil && c.class.IsNullable(field) {
		return nil, nil
	}
	v, err := c.h.coercer.Coerce(value, c.class.TypeOfField(field))
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.class.Name(), field, err)
	}
	return v, nil
}

func (c *call) invoke(m *access.Method, object any, field string, value any) error {
	if err := m.Call(object, value); err != nil {
		if isConversion(err) {
			return fmt.Errorf("%w: %s.%s: %w", ErrTypeMismatch, c.class.Name(), field, err)
		}
		return fmt.Errorf("%s.%s: %w", c.class.Name(), m.Name(), err)
	}
	return nil
}

func (c *call) skip(field, reason string) {
	c.h.logger.Debug("skipping field",
		"type", c.class.Name(),
		"field", field,
		"reason", reason,
	)
}
