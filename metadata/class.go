// Package metadata describes the persisted shape of domain types: which
// fields and associations a type has, their declared types, which fields form
// its identity and where each field is stored.
//
// The hydrator consumes metadata through the [Provider] and [Class]
// interfaces. Two providers ship with the module: the static [Registry] and
// the gorm schema backed provider in metadata/gormmeta.
package metadata

import (
	"errors"
	"reflect"

	"github.com/jacentio/hydrator/internal/access"
)

var (
	// ErrUnknownType is returned when no metadata is registered for a type.
	ErrUnknownType = errors.New("metadata: unknown type")

	// ErrInvalidMapping is returned when a mapping is inconsistent with its Go type.
	ErrInvalidMapping = errors.New("metadata: invalid mapping")
)

// Class answers the questions the hydrator asks about one domain type.
// Field names are record names (e.g. "createdAt"), not Go identifiers.
type Class interface {
	// Name returns a human readable type name.
	Name() string

	// Type returns the pointer-to-struct type of instances.
	Type() reflect.Type

	// FieldNames returns scalar field names in declaration order. Fields of
	// embedded values are reported as "outer.inner".
	FieldNames() []string

	// AssociationNames returns association names in declaration order.
	AssociationNames() []string

	// IdentifierFieldNames returns the ordered fields forming the identity.
	IdentifierFieldNames() []string

	HasField(name string) bool
	HasAssociation(name string) bool

	// TypeOfField returns the declared type, TypeNone for associations and
	// unknown fields.
	TypeOfField(name string) FieldType

	IsSingleValuedAssociation(name string) bool
	IsCollectionValuedAssociation(name string) bool

	// AssociationTargetType returns the pointer type of the associated
	// objects, nil when name is not an association.
	AssociationTargetType(name string) reflect.Type

	IsNullable(name string) bool

	// IsReadOnly reports whether the whole type is immutable.
	IsReadOnly() bool

	// IsReadOnlyField reports whether a single field is immutable.
	IsReadOnlyField(name string) bool

	// StructField returns the struct field storing name, for by-reference access.
	StructField(name string) (reflect.StructField, bool)
}

// Provider resolves metadata for a type. Implementations accept both the
// struct type and the pointer-to-struct type.
type Provider interface {
	Metadata(t reflect.Type) (Class, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(t reflect.Type) (Class, error)

// Metadata implements Provider.
func (f ProviderFunc) Metadata(t reflect.Type) (Class, error) { return f(t) }

// PointerType normalizes t to the pointer-to-struct type used as a type key.
// It returns nil if t is neither a struct nor a pointer to one.
func PointerType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Struct {
		return reflect.PointerTo(t)
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		return t
	}
	return nil
}

// LookupStructField resolves the struct field backing a record field name.
// Matching order: `hydrator:"name"` tag, exact Go name, classified name
// ("createdAt" -> CreatedAt), then case-insensitive. Embedded paths resolve
// their top-level segment.
func LookupStructField(t reflect.Type, name string) (reflect.StructField, bool) {
	return access.LookupField(t, name)
}
