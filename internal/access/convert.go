package access

import (
	"fmt"
	"reflect"

	"github.com/jacentio/hydrator/record"
)

// Convert turns value into a reflect.Value assignable to type to.
//
// nil becomes the zero value. Besides plain assignability it handles numeric
// and string conversions between named types, pointer wrapping and
// unwrapping, element-wise slice conversion and mapping -> struct decoding
// (used for embedded values).
func Convert(value any, to reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(to), nil
	}
	return convert(reflect.ValueOf(value), to)
}

// Merge converts value like Convert, except that a mapping decoded into a
// struct starts from current. Keys missing from the mapping keep their
// current values.
func Merge(value any, current reflect.Value) (reflect.Value, error) {
	if current.Kind() == reflect.Struct {
		if rec, ok := record.AsMapping(value); ok {
			out := reflect.New(current.Type()).Elem()
			out.Set(current)
			return decodeInto(rec, out)
		}
	}
	return Convert(value, current.Type())
}

func convert(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(to), nil
		}
		v = v.Elem()
	}
	if v.Type().AssignableTo(to) {
		return v, nil
	}

	switch {
	case v.Kind() == reflect.Pointer && to.Kind() != reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(to), nil
		}
		return convert(v.Elem(), to)
	case to.Kind() == reflect.Pointer:
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Zero(to), nil
			}
			v = v.Elem()
		}
		inner, err := convert(v, to.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(to.Elem())
		p.Elem().Set(inner)
		return p, nil
	}

	switch {
	case isNumeric(v.Kind()) && isNumeric(to.Kind()):
		return v.Convert(to), nil
	case v.Kind() == reflect.String && to.Kind() == reflect.String:
		return v.Convert(to), nil
	case v.Kind() == reflect.String && isBytes(to), isBytes(v.Type()) && to.Kind() == reflect.String:
		return v.Convert(to), nil
	case (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && to.Kind() == reflect.Slice:
		out := reflect.MakeSlice(to, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := convert(v.Index(i), to.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil
	case to.Kind() == reflect.Struct:
		if rec, ok := record.AsMapping(v.Interface()); ok {
			return decodeInto(rec, reflect.New(to).Elem())
		}
	}

	if v.Kind() == to.Kind() && v.Type().ConvertibleTo(to) {
		return v.Convert(to), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrUnassignable, v.Type(), to)
}

// decodeInto sets the fields of the settable struct out from a mapping,
// matching keys with LookupField. Unknown keys are ignored.
func decodeInto(rec *record.Record, out reflect.Value) (reflect.Value, error) {
	to := out.Type()
	var err error
	rec.Range(func(key string, value any) bool {
		sf, ok := LookupField(to, key)
		if !ok {
			return true
		}
		var dst, val reflect.Value
		if dst, err = fieldStorage(out, sf); err != nil {
			return false
		}
		if val, err = Convert(value, sf.Type); err != nil {
			err = fmt.Errorf("%s: %w", key, err)
			return false
		}
		dst.Set(val)
		return true
	})
	if err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
