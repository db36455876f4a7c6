// Package record provides the ordered, loosely typed data record exchanged
// between callers (web forms, API payloads) and the hydrator.
package record

import (
	"sort"
)

// Record is an ordered mapping of field name to untyped value.
//
// Values may be scalars, nested records, live domain objects or sequences of
// any of those. Insertion order is preserved; setting an existing key keeps
// its original position.
type Record struct {
	keys   []string
	values map[string]any
}

// New creates an empty Record.
func New() *Record {
	return &Record{values: make(map[string]any)}
}

// FromMap creates a Record from a map. Go maps are unordered, so keys are
// sorted to keep the result deterministic. Nested maps are converted too.
func FromMap(m map[string]any) *Record {
	r := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Set(k, fromValue(m[k]))
	}
	return r
}

func fromValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return FromMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = fromValue(e)
		}
		return out
	}
	return v
}

// Set stores value under key and returns the record for chaining.
func (r *Record) Set(key string, value any) *Record {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present (even with a nil value).
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key, keeping the order of the remaining keys.
func (r *Record) Delete(key string) {
	if r == nil {
		return
	}
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Range calls fn for each pair in order until fn returns false.
func (r *Record) Range(fn func(key string, value any) bool) {
	if r == nil {
		return
	}
	for _, k := range r.Keys() {
		if !fn(k, r.values[k]) {
			return
		}
	}
}

// Clone returns a copy of the record. Nested records and slices are copied;
// other values (including live objects) are shared.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case *Record:
		return tv.Clone()
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// Map returns the record as a plain map. Nested records are converted.
func (r *Record) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = toPlain(v)
	}
	return out
}

func toPlain(v any) any {
	switch tv := v.(type) {
	case *Record:
		return tv.Map()
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = toPlain(e)
		}
		return out
	}
	return v
}

// AsMapping reports whether v is a mapping and returns it as a *Record.
// Recognized mappings are *Record, Record and map[string]any.
// A nil *Record is not a mapping.
func AsMapping(v any) (*Record, bool) {
	switch tv := v.(type) {
	case *Record:
		if tv == nil {
			return nil, false
		}
		return tv, true
	case Record:
		return &tv, true
	case map[string]any:
		return FromMap(tv), true
	}
	return nil, false
}
