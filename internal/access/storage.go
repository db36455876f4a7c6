package access

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

// TagName is the struct tag consulted when mapping a record field name to
// struct storage: `hydrator:"name"`. A tag of "-" hides the field.
const TagName = "hydrator"

var (
	// ErrNotStruct is returned when an object is not a non-nil pointer to struct.
	ErrNotStruct = errors.New("access: object must be a non-nil pointer to struct")

	// ErrUnassignable is returned when a value cannot be converted to the storage type.
	ErrUnassignable = errors.New("access: value is not assignable")
)

// LookupField resolves the struct field backing name. Matching order: the
// hydrator tag, the exact Go name, the classified name, then a
// case-insensitive match. For embedded paths ("address.street") only the
// top-level segment is resolved. Promoted fields of anonymous embedded
// structs are visible.
func LookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	if top, _, ok := strings.Cut(name, "."); ok {
		name = top
	}
	fields := reflect.VisibleFields(t)
	classified := Classify(name)

	var exact, byClass, folded *reflect.StructField
	for i := range fields {
		f := &fields[i]
		tag, _, _ := strings.Cut(f.Tag.Get(TagName), ",")
		if tag == "-" {
			continue
		}
		if tag != "" {
			if tag == name {
				return *f, true
			}
			continue
		}
		switch {
		case f.Name == name && exact == nil:
			exact = f
		case f.Name == classified && byClass == nil:
			byClass = f
		case strings.EqualFold(f.Name, name) && folded == nil:
			folded = f
		}
	}
	for _, f := range []*reflect.StructField{exact, byClass, folded} {
		if f != nil {
			return *f, true
		}
	}
	return reflect.StructField{}, false
}

// Storage returns the settable storage of field sf in obj, which must be a
// non-nil pointer to struct. Unexported fields are reached through their
// address so by-reference hydration can bypass the public API.
func Storage(obj any, sf reflect.StructField) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotStruct
	}
	return fieldStorage(v.Elem(), sf)
}

func fieldStorage(v reflect.Value, sf reflect.StructField) (reflect.Value, error) {
	f, err := v.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("access: field %s: %w", sf.Name, err)
	}
	if !f.CanSet() {
		f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	}
	return f, nil
}

// IsNillable reports whether values of kind k can be nil.
func IsNillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
