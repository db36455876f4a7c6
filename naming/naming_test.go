package naming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jacentio/hydrator/naming"
)

func TestUnderscore(t *testing.T) {
	u := naming.NewUnderscore()

	tests := []struct {
		field string
		key   string
	}{
		{"name", "name"},
		{"createdAt", "created_at"},
		{"firstNameLast", "first_name_last"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.key, u.Extract(tt.field))
			assert.Equal(t, tt.field, u.Hydrate(tt.key))
		})
	}
}

func TestUnderscore_HydrateEdgeCases(t *testing.T) {
	u := naming.NewUnderscore()

	assert.Equal(t, "ownerId", u.Hydrate("owner_id"))
	assert.Equal(t, "name", u.Hydrate("_name"))
	assert.Equal(t, "createdAt", u.Hydrate("CREATED_AT"))
}

func TestMap(t *testing.T) {
	m := naming.NewMap(map[string]string{"name": "full_name"})

	assert.Equal(t, "full_name", m.Extract("name"))
	assert.Equal(t, "name", m.Hydrate("full_name"))
	assert.Equal(t, "age", m.Extract("age"))
	assert.Equal(t, "age", m.Hydrate("age"))
}

func TestComposite(t *testing.T) {
	c := naming.Composite{
		naming.NewMap(map[string]string{"mail": "emailAddress"}),
		naming.NewUnderscore(),
	}

	assert.Equal(t, "email_address", c.Extract("mail"))
	assert.Equal(t, "mail", c.Hydrate("email_address"))
	assert.Equal(t, "created_at", c.Extract("createdAt"))
	assert.Equal(t, "createdAt", c.Hydrate("created_at"))
}
