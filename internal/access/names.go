// Package access resolves and caches the reflective accessors the hydrator
// uses to reach into domain objects, either through their exported methods
// (by value) or through raw struct storage (by reference).
package access

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

// Classify turns a field name into the exported identifier used to build
// accessor method names: "created_at", "createdAt" and "CreatedAt" all
// become "CreatedAt".
func Classify(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var b strings.Builder
	for _, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(p[size:])
	}
	return b.String()
}

// Singular returns the classified singular of name, used as a fallback when
// an adder or remover takes one element ("tags" -> "Tag").
func Singular(name string) string {
	return Classify(inflection.Singular(name))
}

// LowerCamel converts an exported Go identifier into the lowerCamel field
// name used in records: "Name" -> "name", "ID" -> "id", "UserID" -> "userID",
// "HTTPServer" -> "httpServer".
func LowerCamel(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n > 1 && n < len(runes):
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
