package metadata

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FieldType is the semantic type a field is declared with.
type FieldType string

// Declared field types understood by the coercion layer.
const (
	TypeBoolean  FieldType = "boolean"
	TypeString   FieldType = "string"
	TypeText     FieldType = "text"
	TypeBigint   FieldType = "bigint"
	TypeDecimal  FieldType = "decimal"
	TypeInteger  FieldType = "integer"
	TypeSmallint FieldType = "smallint"
	TypeFloat    FieldType = "float"

	TypeDateTime            FieldType = "datetime"
	TypeDateTimeImmutable   FieldType = "datetime_immutable"
	TypeDateTimeTZ          FieldType = "datetimetz"
	TypeDateTimeTZImmutable FieldType = "datetimetz_immutable"
	TypeTime                FieldType = "time"
	TypeTimeImmutable       FieldType = "time_immutable"
	TypeDate                FieldType = "date"
	TypeDateImmutable       FieldType = "date_immutable"

	TypeGUID        FieldType = "guid"
	TypeJSON        FieldType = "json"
	TypeBinary      FieldType = "binary"
	TypeSimpleArray FieldType = "simple_array"

	// TypeNone is reported for associations and unknown fields.
	TypeNone FieldType = ""
)

// IsDateTime reports whether t belongs to the date/time family.
func (t FieldType) IsDateTime() bool {
	switch t {
	case TypeDateTime, TypeDateTimeImmutable,
		TypeDateTimeTZ, TypeDateTimeTZImmutable,
		TypeTime, TypeTimeImmutable,
		TypeDate, TypeDateImmutable:
		return true
	}
	return false
}

// IsImmutable reports whether t is an immutable date/time variant.
func (t FieldType) IsImmutable() bool {
	return strings.HasSuffix(string(t), "_immutable")
}

// Kind classifies a field.
type Kind int

const (
	KindScalar Kind = iota
	KindSingleAssociation
	KindCollectionAssociation
	KindEmbedded
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSingleAssociation:
		return "single-association"
	case KindCollectionAssociation:
		return "collection-association"
	case KindEmbedded:
		return "embedded"
	}
	return "unknown"
}

// IsAssociation reports whether k is a single or collection association.
func (k Kind) IsAssociation() bool {
	return k == KindSingleAssociation || k == KindCollectionAssociation
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	jsonType    = reflect.TypeOf(datatypes.JSON{})
	bytesType   = reflect.TypeOf([]byte{})
	stringsType = reflect.TypeOf([]string{})
)

// InferType derives a declared type from the Go type of a field's storage.
// time.Time maps to the immutable datetime variant and *time.Time to the
// mutable one. Unknown types map to TypeNone.
func InferType(t reflect.Type) FieldType {
	switch t {
	case timeType:
		return TypeDateTimeImmutable
	case reflect.PointerTo(timeType):
		return TypeDateTime
	case uuidType, reflect.PointerTo(uuidType):
		return TypeGUID
	case jsonType:
		return TypeJSON
	case bytesType:
		return TypeBinary
	case stringsType:
		return TypeSimpleArray
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return TypeBoolean
	case reflect.String:
		return TypeString
	case reflect.Int8, reflect.Int16, reflect.Uint8, reflect.Uint16:
		return TypeSmallint
	case reflect.Int, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	}
	return TypeNone
}
