// Package naming translates between record keys and field names.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm/schema"
)

// Strategy renames keys. Extract maps a field name to its record key,
// Hydrate maps a record key back to the field name.
type Strategy interface {
	Extract(name string) string
	Hydrate(name string) string
}

// Underscore maps camelCase field names to snake_case keys.
type Underscore struct {
	namer schema.NamingStrategy
}

// NewUnderscore creates an Underscore strategy.
func NewUnderscore() *Underscore {
	return &Underscore{}
}

// Extract converts "createdAt" to "created_at" and "ownerID" to "owner_id".
func (u *Underscore) Extract(name string) string {
	return u.namer.ColumnName("", name)
}

// Hydrate converts "created_at" to "createdAt".
func (u *Underscore) Hydrate(name string) string {
	parts := strings.Split(name, "_")
	title := cases.Title(language.Und)
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(strings.ToLower(p))
			continue
		}
		b.WriteString(title.String(p))
	}
	return b.String()
}

// Map renames keys through an explicit table. Names without an entry are
// left as is.
type Map struct {
	extract map[string]string
	hydrate map[string]string
}

// NewMap creates a Map from field name -> record key pairs. The reverse
// table is derived.
func NewMap(m map[string]string) *Map {
	out := &Map{
		extract: make(map[string]string, len(m)),
		hydrate: make(map[string]string, len(m)),
	}
	for field, key := range m {
		out.extract[field] = key
		out.hydrate[key] = field
	}
	return out
}

// Extract implements Strategy.
func (m *Map) Extract(name string) string {
	if key, ok := m.extract[name]; ok {
		return key
	}
	return name
}

// Hydrate implements Strategy.
func (m *Map) Hydrate(name string) string {
	if field, ok := m.hydrate[name]; ok {
		return field
	}
	return name
}

// Composite chains strategies. Extract applies them in order, Hydrate in
// reverse order.
type Composite []Strategy

// Extract implements Strategy.
func (c Composite) Extract(name string) string {
	for _, s := range c {
		name = s.Extract(name)
	}
	return name
}

// Hydrate implements Strategy.
func (c Composite) Hydrate(name string) string {
	for i := len(c) - 1; i >= 0; i-- {
		name = c[i].Hydrate(name)
	}
	return name
}
