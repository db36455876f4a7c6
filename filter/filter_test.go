package filter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jacentio/hydrator/filter"
)

func TestPropertyName(t *testing.T) {
	inc := filter.Include("id", "name")
	assert.True(t, inc.Filter("id"))
	assert.False(t, inc.Filter("password"))

	exc := filter.Exclude("password")
	assert.True(t, exc.Filter("id"))
	assert.False(t, exc.Filter("password"))
}

func TestComposite_Empty(t *testing.T) {
	assert.True(t, filter.NewComposite().Filter("anything"))
}

func TestComposite_OrGroup(t *testing.T) {
	c := filter.NewComposite().Or(
		filter.Include("id"),
		filter.Func(func(name string) bool { return strings.HasPrefix(name, "is") }),
	)

	assert.True(t, c.Filter("id"))
	assert.True(t, c.Filter("isActive"))
	assert.False(t, c.Filter("name"))
}

func TestComposite_AndGroup(t *testing.T) {
	c := filter.NewComposite().
		Or(filter.Include("id", "name", "password")).
		And(filter.Exclude("password"))

	assert.True(t, c.Filter("name"))
	assert.False(t, c.Filter("password"))
	assert.False(t, c.Filter("email"))
}
