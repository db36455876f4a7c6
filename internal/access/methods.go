package access

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type role int

const (
	roleGetter role = iota
	roleSetter
	roleAdder
	roleRemover
)

type methodKey struct {
	role  role
	field string
}

// Type caches the accessor methods of one object type. Absence is cached too,
// so a missing accessor costs a single lookup per type and field.
type Type struct {
	typ reflect.Type

	mu      sync.RWMutex
	methods map[methodKey]*Method
}

var types sync.Map // reflect.Type -> *Type

// For returns the cached accessor set of t.
func For(t reflect.Type) *Type {
	if v, ok := types.Load(t); ok {
		return v.(*Type)
	}
	v, _ := types.LoadOrStore(t, &Type{typ: t, methods: make(map[methodKey]*Method)})
	return v.(*Type)
}

// Getter returns the accessor reading field: GetX, IsX or X (the last also
// covers fields already named isX).
func (a *Type) Getter(field string) (*Method, bool) {
	return a.lookup(roleGetter, field, func() *Method {
		c := Classify(field)
		return a.find(isGetter, "Get"+c, "Is"+c, c)
	})
}

// Setter returns SetX taking exactly one argument.
func (a *Type) Setter(field string) (*Method, bool) {
	return a.lookup(roleSetter, field, func() *Method {
		return a.find(isUnary, "Set"+Classify(field))
	})
}

// Adder returns AddX, falling back to the singular form of the field name
// (AddTag for "tags").
func (a *Type) Adder(field string) (*Method, bool) {
	return a.lookup(roleAdder, field, func() *Method {
		return a.find(isUnary, "Add"+Classify(field), "Add"+Singular(field))
	})
}

// Remover returns RemoveX, falling back to the singular form of the field name.
func (a *Type) Remover(field string) (*Method, bool) {
	return a.lookup(roleRemover, field, func() *Method {
		return a.find(isUnary, "Remove"+Classify(field), "Remove"+Singular(field))
	})
}

func (a *Type) lookup(r role, field string, build func() *Method) (*Method, bool) {
	key := methodKey{role: r, field: field}
	a.mu.RLock()
	m, ok := a.methods[key]
	a.mu.RUnlock()
	if !ok {
		m = build()
		a.mu.Lock()
		a.methods[key] = m
		a.mu.Unlock()
	}
	return m, m != nil
}

// find resolves the first candidate name with an acceptable signature. Exact
// names win; otherwise names are matched case-insensitively so that "id"
// finds GetID and "ownerId" finds SetOwnerID.
func (a *Type) find(accept func(reflect.Type) bool, names ...string) *Method {
	for _, name := range names {
		if rm, ok := a.typ.MethodByName(name); ok && accept(rm.Type) {
			return newMethod(rm)
		}
	}
	for _, name := range names {
		for i := 0; i < a.typ.NumMethod(); i++ {
			if rm := a.typ.Method(i); strings.EqualFold(rm.Name, name) && accept(rm.Type) {
				return newMethod(rm)
			}
		}
	}
	return nil
}

func newMethod(rm reflect.Method) *Method {
	m := &Method{name: rm.Name, fn: rm.Func, variadic: rm.Type.IsVariadic()}
	if rm.Type.NumIn() == 2 {
		m.in = rm.Type.In(1)
	}
	if n := rm.Type.NumOut(); n > 0 && rm.Type.Out(n-1) == errorType {
		m.errIndex = n - 1
	} else {
		m.errIndex = -1
	}
	return m
}

// isGetter accepts func(recv) T and func(recv) (T, error).
func isGetter(t reflect.Type) bool {
	if t.NumIn() != 1 {
		return false
	}
	switch t.NumOut() {
	case 1:
		return t.Out(0) != errorType
	case 2:
		return t.Out(1) == errorType
	}
	return false
}

// isUnary accepts methods taking exactly one argument besides the receiver.
func isUnary(t reflect.Type) bool {
	return t.NumIn() == 2
}

// Method is a resolved accessor method.
type Method struct {
	name     string
	fn       reflect.Value
	in       reflect.Type
	variadic bool
	errIndex int
}

// Name returns the Go method name.
func (m *Method) Name() string { return m.name }

// In returns the parameter type of a unary method (nil for getters). For a
// variadic method this is the slice type.
func (m *Method) In() reflect.Type { return m.in }

// AcceptsNil reports whether the parameter accepts a nil argument.
func (m *Method) AcceptsNil() bool {
	return m.in != nil && IsNillable(m.in.Kind())
}

// Get calls a getter on obj.
func (m *Method) Get(obj any) (any, error) {
	out := m.fn.Call([]reflect.Value{reflect.ValueOf(obj)})
	if err := m.err(out); err != nil {
		return nil, err
	}
	return out[0].Interface(), nil
}

// Call invokes a unary method on obj with value converted to the parameter
// type. Variadic methods receive value as their variadic slice.
func (m *Method) Call(obj any, value any) error {
	arg, err := Convert(value, m.in)
	if err != nil {
		return fmt.Errorf("%s: %w", m.name, err)
	}
	args := []reflect.Value{reflect.ValueOf(obj), arg}
	var out []reflect.Value
	if m.variadic {
		out = m.fn.CallSlice(args)
	} else {
		out = m.fn.Call(args)
	}
	return m.err(out)
}

func (m *Method) err(out []reflect.Value) error {
	if m.errIndex < 0 {
		return nil
	}
	if e := out[m.errIndex]; !e.IsNil() {
		return e.Interface().(error)
	}
	return nil
}
