package metadata

import (
	"fmt"
	"reflect"

	"github.com/jacentio/hydrator/internal/access"
)

// NoStorage marks a field without struct storage (a field only reachable
// through accessor methods).
const NoStorage = "-"

// Field declares one field of a Mapping.
type Field struct {
	// Name is the record field name (e.g. "createdAt").
	Name string

	// Kind defaults to KindScalar.
	Kind Kind

	// Type is the declared type of a scalar. Inferred from the storage type
	// when empty.
	Type FieldType

	// Target is the associated type (struct or pointer to struct).
	Target reflect.Type

	Nullable bool
	ReadOnly bool

	// Storage is the Go struct field name. Resolved with LookupStructField
	// when empty; NoStorage for accessor-only fields.
	Storage string
}

// Mapping declares the metadata of one domain type.
type Mapping struct {
	// Type is the struct or pointer-to-struct type being described.
	Type reflect.Type

	// Identifier lists the fields forming the identity, in order.
	Identifier []string

	Fields []Field

	// ReadOnly marks the whole type immutable.
	ReadOnly bool
}

// Compile validates the mapping against its Go type and returns the Class.
func (m Mapping) Compile() (Class, error) {
	typ := PointerType(m.Type)
	if typ == nil {
		return nil, fmt.Errorf("%w: %v is not a struct type", ErrInvalidMapping, m.Type)
	}
	c := &staticClass{
		name:     typ.Elem().String(),
		typ:      typ,
		ids:      append([]string(nil), m.Identifier...),
		byName:   make(map[string]*compiledField),
		readOnly: m.ReadOnly,
	}

	for _, f := range m.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: %s: field without name", ErrInvalidMapping, c.name)
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidMapping, c.name, f.Name)
		}
		cf := &compiledField{Field: f}
		if f.Storage != NoStorage {
			var ok bool
			if f.Storage != "" {
				cf.sf, ok = typ.Elem().FieldByName(f.Storage)
			} else {
				cf.sf, ok = LookupStructField(typ, f.Name)
			}
			if !ok {
				return nil, fmt.Errorf("%w: %s: no storage for field %q", ErrInvalidMapping, c.name, f.Name)
			}
			cf.stored = true
		}

		switch f.Kind {
		case KindScalar:
			if cf.Type == TypeNone && cf.stored {
				cf.Type = InferType(cf.sf.Type)
			}
			c.fields = append(c.fields, f.Name)
		case KindSingleAssociation, KindCollectionAssociation:
			cf.Target = PointerType(f.Target)
			if cf.Target == nil {
				return nil, fmt.Errorf("%w: %s: association %q needs a struct target", ErrInvalidMapping, c.name, f.Name)
			}
			c.assocs = append(c.assocs, f.Name)
		case KindEmbedded:
			if !cf.stored {
				return nil, fmt.Errorf("%w: %s: embedded %q needs storage", ErrInvalidMapping, c.name, f.Name)
			}
			for _, inner := range embeddedFields(cf.sf.Type) {
				name := f.Name + "." + inner
				c.fields = append(c.fields, name)
				c.byName[name] = &compiledField{Field: Field{Name: name}, sf: cf.sf, stored: true}
			}
		default:
			return nil, fmt.Errorf("%w: %s: field %q has unknown kind %d", ErrInvalidMapping, c.name, f.Name, f.Kind)
		}
		c.byName[f.Name] = cf
	}

	for _, id := range c.ids {
		cf, ok := c.byName[id]
		if !ok || cf.Kind == KindCollectionAssociation || cf.Kind == KindEmbedded {
			return nil, fmt.Errorf("%w: %s: identifier %q is not a scalar or single association", ErrInvalidMapping, c.name, id)
		}
	}
	return c, nil
}

// embeddedFields lists the record names of the fields of an embedded struct.
func embeddedFields(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []string
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		out = append(out, access.LowerCamel(f.Name))
	}
	return out
}

type compiledField struct {
	Field
	sf     reflect.StructField
	stored bool
}

type staticClass struct {
	name     string
	typ      reflect.Type
	fields   []string
	assocs   []string
	ids      []string
	byName   map[string]*compiledField
	readOnly bool
}

func (c *staticClass) Name() string       { return c.name }
func (c *staticClass) Type() reflect.Type { return c.typ }

func (c *staticClass) FieldNames() []string {
	return append([]string(nil), c.fields...)
}

func (c *staticClass) AssociationNames() []string {
	return append([]string(nil), c.assocs...)
}

func (c *staticClass) IdentifierFieldNames() []string {
	return append([]string(nil), c.ids...)
}

func (c *staticClass) HasField(name string) bool {
	f, ok := c.byName[name]
	return ok && f.Kind == KindScalar
}

func (c *staticClass) HasAssociation(name string) bool {
	f, ok := c.byName[name]
	return ok && f.Kind.IsAssociation()
}

func (c *staticClass) TypeOfField(name string) FieldType {
	if f, ok := c.byName[name]; ok && f.Kind == KindScalar {
		return f.Type
	}
	return TypeNone
}

func (c *staticClass) IsSingleValuedAssociation(name string) bool {
	f, ok := c.byName[name]
	return ok && f.Kind == KindSingleAssociation
}

func (c *staticClass) IsCollectionValuedAssociation(name string) bool {
	f, ok := c.byName[name]
	return ok && f.Kind == KindCollectionAssociation
}

func (c *staticClass) AssociationTargetType(name string) reflect.Type {
	if f, ok := c.byName[name]; ok && f.Kind.IsAssociation() {
		return f.Target
	}
	return nil
}

func (c *staticClass) IsNullable(name string) bool {
	f, ok := c.byName[name]
	return ok && f.Nullable
}

func (c *staticClass) IsReadOnly() bool { return c.readOnly }

func (c *staticClass) IsReadOnlyField(name string) bool {
	f, ok := c.byName[name]
	return ok && f.ReadOnly
}

func (c *staticClass) StructField(name string) (reflect.StructField, bool) {
	f, ok := c.byName[name]
	if !ok || !f.stored {
		return reflect.StructField{}, false
	}
	return f.sf, true
}
