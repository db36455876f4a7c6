package hydrator

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/jacentio/hydrator/collection"
	"github.com/jacentio/hydrator/internal/access"
	"github.com/jacentio/hydrator/metadata"
	"github.com/jacentio/hydrator/record"
	"github.com/jacentio/hydrator/store"
	"github.com/jacentio/hydrator/strategy"
)

// findByRecord looks up the object identified by data when data holds a
// non-nil value for every identifier field. Keys are matched by field name,
// then by their extracted (renamed) form.
func (c *call) findByRecord(data *record.Record) (any, error) {
	names := c.class.IdentifierFieldNames()
	if len(names) == 0 {
		return nil, nil
	}
	id := make(store.Identifier, len(names))
	for _, name := range names {
		_, v, ok := c.identifierValue(data, name)
		if !ok || isNil(v) {
			return nil, nil
		}
		id[name] = v
	}
	return c.find(id, c.class)
}

// identifierValue returns the key holding identifier field name in data,
// trying the field name first and then its extracted form.
func (c *call) identifierValue(data *record.Record, name string) (string, any, bool) {
	if v, ok := data.Get(name); ok {
		return name, v, true
	}
	key := c.h.extractName(name)
	v, ok := data.Get(key)
	return key, v, ok
}

// toOne resolves the value of a single-valued association. A mapping whose
// keys are not exactly the identifier fields of target is a nested record:
// it is hydrated into the object its identifier values address, or into a
// new instance.
func (c *call) toOne(target reflect.Type, value any) (any, error) {
	tclass, err := c.h.metadata.Metadata(target)
	if err != nil {
		return nil, err
	}
	ids := tclass.IdentifierFieldNames()

	rec, ok := record.AsMapping(value)
	if !ok || sameKeys(rec.Keys(), ids) {
		return c.find(value, tclass)
	}

	partial := store.Identifier{}
	for _, name := range ids {
		if _, v, ok := c.identifierValue(rec, name); ok {
			partial[name] = v
		}
	}
	object, err := c.find(partial, tclass)
	if err != nil {
		return nil, err
	}
	if object == nil {
		object = newInstance(tclass.Type())
	}
	return c.h.hydrate(c.ctx, rec, object, false)
}

// toMany resolves every element of values and hands the result to the
// collection strategy of field, which updates the collection in place.
func (c *call) toMany(object any, field string, target reflect.Type, values any) error {
	tclass, err := c.h.metadata.Metadata(target)
	if err != nil {
		return err
	}
	target = tclass.Type()
	ids := tclass.IdentifierFieldNames()

	var resolved []any
	for _, elem := range sequence(values) {
		if elem != nil && reflect.TypeOf(elem) == target && !isNil(elem) {
			resolved = append(resolved, elem)
			continue
		}

		if isEmpty(elem) {
			found, err := c.find(elem, tclass)
			if err != nil {
				return err
			}
			resolved = append(resolved, found)
			continue
		}

		rec, isMapping := record.AsMapping(elem)
		partial := store.Identifier{}
		var idKeys []string
		switch {
		case isMapping:
			for _, name := range ids {
				if key, v, ok := c.identifierValue(rec, name); ok && !isNil(v) {
					partial[name] = v
					idKeys = append(idKeys, key)
				}
			}
		case isStructPointer(elem):
			for _, name := range ids {
				if v, ok := identifierOf(elem, name); ok {
					partial[name] = v
				}
			}
		case len(ids) == 1:
			partial[ids[0]] = elem
		}

		var instance any
		if len(partial) > 0 {
			if instance, err = c.find(partial, tclass); err != nil {
				return err
			}
			if instance != nil && isMapping {
				rest := rec.Clone()
				for _, key := range idKeys {
					rest.Delete(key)
				}
				if instance, err = c.h.hydrate(c.ctx, rest, instance, false); err != nil {
					return err
				}
			}
		}
		if instance == nil {
			instance = newInstance(target)
			if isMapping {
				// New instances take the whole mapping, identifier values included.
				if instance, err = c.h.hydrate(c.ctx, rec, instance, false); err != nil {
					return err
				}
			}
		}
		resolved = append(resolved, instance)
	}

	elems := make([]any, 0, len(resolved))
	for _, e := range resolved {
		if !isNil(e) {
			elems = append(elems, e)
		}
	}

	cs, ok := c.collections[field]
	if !ok {
		return fmt.Errorf("%w: %s.%s has no collection strategy", strategy.ErrUnbound, c.class.Name(), field)
	}
	b := strategy.Binding{Field: field, Metadata: c.class, Object: object}
	if err := cs.HydrateCollection(b, elems); err != nil {
		return fmt.Errorf("%s.%s: %w", c.class.Name(), field, err)
	}
	return nil
}

// find resolves identifiers against the store. See Hydrator.Find.
func (c *call) find(identifiers any, tclass metadata.Class) (any, error) {
	target := tclass.Type()
	if identifiers != nil && reflect.TypeOf(identifiers) == target && !isNil(identifiers) {
		return identifiers, nil
	}
	if isNullIdentifier(identifiers) {
		return nil, nil
	}

	id, err := identifier(identifiers, tclass)
	if err != nil {
		return nil, err
	}
	found, err := c.h.finder.Find(c.ctx, target, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", tclass.Name(), err)
	}
	if isNil(found) {
		return nil, nil
	}
	if reflect.TypeOf(found) != target {
		return nil, fmt.Errorf("%w: store returned %T for %s", ErrTypeMismatch, found, tclass.Name())
	}
	return found, nil
}

// isNullIdentifier reports whether v is nil, or a mapping or sequence whose
// values are all nil.
func isNullIdentifier(v any) bool {
	if isNil(v) {
		return true
	}
	switch tv := v.(type) {
	case store.Identifier:
		return allNil(mapValues(tv))
	case map[string]any:
		return allNil(mapValues(tv))
	}
	if rec, ok := record.AsMapping(v); ok {
		var values []any
		rec.Range(func(_ string, value any) bool {
			values = append(values, value)
			return true
		})
		return allNil(values)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return allNil(sequence(v))
	}
	return false
}

// identifier normalizes an identifier value. Nil components are dropped. A
// value that is not a mapping is the single identifier field's value.
func identifier(v any, tclass metadata.Class) (store.Identifier, error) {
	id := store.Identifier{}
	switch tv := v.(type) {
	case store.Identifier:
		for k, value := range tv {
			if !isNil(value) {
				id[k] = value
			}
		}
		return id, nil
	}
	if rec, ok := record.AsMapping(v); ok {
		rec.Range(func(k string, value any) bool {
			if !isNil(value) {
				id[k] = value
			}
			return true
		})
		return id, nil
	}
	names := tclass.IdentifierFieldNames()
	if len(names) != 1 {
		return nil, fmt.Errorf("%w: %s has %d identifier fields, got %T", ErrInvalidIdentifier, tclass.Name(), len(names), v)
	}
	id[names[0]] = v
	return id, nil
}

// identifierOf reads an identifier component from a foreign object through
// its getter, or its exported field.
func identifierOf(object any, name string) (any, bool) {
	if getter, ok := access.For(reflect.TypeOf(object)).Getter(name); ok {
		v, err := getter.Get(object)
		return v, err == nil
	}
	sf, ok := metadata.LookupStructField(reflect.TypeOf(object), name)
	if !ok || !sf.IsExported() {
		return nil, false
	}
	v, err := reflect.ValueOf(object).Elem().FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, false
	}
	return v.Interface(), true
}

// sequence flattens an association value into its elements. Mappings yield
// their values in order, any other single value is a one element sequence.
func sequence(v any) []any {
	if isNil(v) {
		return nil
	}
	if c, ok := v.(collection.Collection); ok {
		return c.Elements()
	}
	if rec, ok := record.AsMapping(v); ok {
		out := make([]any, 0, rec.Len())
		rec.Range(func(_ string, value any) bool {
			out = append(out, value)
			return true
		})
		return out
	}
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

// isEmpty reports values a form would send for "nothing": nil, false, zero
// numbers, "", "0" and empty sequences or mappings.
func isEmpty(v any) bool {
	if isNil(v) {
		return true
	}
	switch tv := v.(type) {
	case string:
		return tv == "" || tv == "0"
	case bool:
		return !tv
	case *record.Record:
		return tv.Len() == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return access.IsNillable(rv.Kind()) && rv.IsNil()
}

func isStructPointer(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

func isConversion(err error) bool {
	return errors.Is(err, access.ErrUnassignable)
}

func newInstance(t reflect.Type) any {
	return reflect.New(t.Elem()).Interface()
}

func sameKeys(keys, ids []string) bool {
	if len(keys) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, k := range keys {
		if !want[k] {
			return false
		}
	}
	return true
}

func mapValues[M ~map[string]any](m M) []any {
	out := make([]any, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func allNil(values []any) bool {
	for _, v := range values {
		if !isNil(v) {
			return false
		}
	}
	return true
}
