// Package gormmeta provides metadata for gorm models by reading their parsed
// gorm schema.
package gormmeta

import (
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/jacentio/hydrator/internal/access"
	"github.com/jacentio/hydrator/metadata"
)

// Provider resolves metadata from gorm model schemas.
type Provider struct {
	namer   schema.Namer
	schemas *sync.Map
	classes sync.Map // reflect.Type -> metadata.Class
}

// New creates a Provider sharing the naming strategy of db.
func New(db *gorm.DB) *Provider {
	return NewWithNamer(db.NamingStrategy)
}

// NewWithNamer creates a Provider with an explicit gorm namer.
func NewWithNamer(namer schema.Namer) *Provider {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	return &Provider{namer: namer, schemas: &sync.Map{}}
}

// Metadata implements metadata.Provider.
func (p *Provider) Metadata(t reflect.Type) (metadata.Class, error) {
	typ := metadata.PointerType(t)
	if typ == nil {
		return nil, fmt.Errorf("%w: %v", metadata.ErrUnknownType, t)
	}
	if c, ok := p.classes.Load(typ); ok {
		return c.(metadata.Class), nil
	}

	s, err := p.Schema(typ)
	if err != nil {
		return nil, err
	}
	c, err := Mapping(s).Compile()
	if err != nil {
		return nil, err
	}
	actual, _ := p.classes.LoadOrStore(typ, c)
	return actual.(metadata.Class), nil
}

// Schema parses the gorm schema of t through the provider cache.
func (p *Provider) Schema(t reflect.Type) (*schema.Schema, error) {
	typ := metadata.PointerType(t)
	if typ == nil {
		return nil, fmt.Errorf("%w: %v", metadata.ErrUnknownType, t)
	}
	s, err := schema.Parse(reflect.New(typ.Elem()).Interface(), p.schemas, p.namer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", metadata.ErrUnknownType, t, err)
	}
	return s, nil
}

// Mapping translates a parsed gorm schema into a metadata mapping.
//
// Columns become scalar fields named after the lowerCamel Go field name.
// Named embedded structs are declared as embedded fields, so their columns
// are reported as "outer.inner". Relationships become associations.
func Mapping(s *schema.Schema) metadata.Mapping {
	m := metadata.Mapping{Type: s.ModelType}
	embedded := make(map[string]bool)

	for _, f := range s.Fields {
		if rel, ok := s.Relationships.Relations[f.Name]; ok && f.DBName == "" {
			m.Fields = append(m.Fields, association(f, rel))
			continue
		}
		if f.DBName == "" {
			continue
		}
		if outer := namedEmbedding(s.ModelType, f); outer != "" {
			if !embedded[outer] {
				embedded[outer] = true
				m.Fields = append(m.Fields, metadata.Field{
					Name:     access.LowerCamel(outer),
					Kind:     metadata.KindEmbedded,
					Storage:  outer,
					ReadOnly: readOnly(f),
				})
			}
			continue
		}
		m.Fields = append(m.Fields, metadata.Field{
			Name:     access.LowerCamel(f.Name),
			Type:     fieldType(f),
			Nullable: nullable(f),
			ReadOnly: readOnly(f),
			Storage:  f.Name,
		})
	}

	for _, f := range s.PrimaryFields {
		m.Identifier = append(m.Identifier, access.LowerCamel(f.Name))
	}
	return m
}

func association(f *schema.Field, rel *schema.Relationship) metadata.Field {
	field := metadata.Field{
		Name:     access.LowerCamel(f.Name),
		Kind:     metadata.KindSingleAssociation,
		Target:   rel.FieldSchema.ModelType,
		Nullable: f.FieldType.Kind() == reflect.Pointer,
		ReadOnly: readOnly(f),
		Storage:  f.Name,
	}
	if rel.Type == schema.HasMany || rel.Type == schema.Many2Many {
		field.Kind = metadata.KindCollectionAssociation
	}
	return field
}

// namedEmbedding returns the Go name of the named struct f is embedded in,
// or "" for top-level and promoted (anonymous) fields.
func namedEmbedding(model reflect.Type, f *schema.Field) string {
	if len(f.BindNames) < 2 {
		return ""
	}
	outer, ok := model.FieldByName(f.BindNames[0])
	if !ok || outer.Anonymous {
		return ""
	}
	return outer.Name
}

func fieldType(f *schema.Field) metadata.FieldType {
	if t := metadata.InferType(f.FieldType); t != metadata.TypeNone {
		return t
	}
	switch f.DataType {
	case schema.Bool:
		return metadata.TypeBoolean
	case schema.Int, schema.Uint:
		return metadata.TypeInteger
	case schema.Float:
		return metadata.TypeFloat
	case schema.String:
		return metadata.TypeString
	case schema.Bytes:
		return metadata.TypeBinary
	}
	return metadata.TypeNone
}

func nullable(f *schema.Field) bool {
	return !f.PrimaryKey && !f.NotNull && access.IsNillable(f.FieldType.Kind())
}

func readOnly(f *schema.Field) bool {
	return !f.Creatable && !f.Updatable
}
