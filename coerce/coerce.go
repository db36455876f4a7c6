// Package coerce converts loosely typed record values to the Go type of a
// declared field type.
//
//	boolean                          bool
//	string, text, bigint, decimal    string
//	integer, smallint                int
//	float                            float64
//	*_immutable date/time variants   time.Time
//	mutable date/time variants       *time.Time
//	guid                             uuid.UUID
//	json                             datatypes.JSON
//
// Scalar casts never fail: they follow the lenient rules of form payloads
// ("12abc" is 12, "0" and "" are false). Other declared types pass values
// through unchanged. Coercion is idempotent.
package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/datatypes"

	"github.com/jacentio/hydrator/metadata"
)

// ErrUnparsable is returned when a date, guid or json literal cannot be parsed.
var ErrUnparsable = errors.New("coerce: unparsable value")

// Coercer converts values to declared types. Date literals without an
// explicit offset and Unix timestamps are interpreted in Location.
type Coercer struct {
	Location *time.Location
}

// New creates a Coercer for loc (UTC when nil).
func New(loc *time.Location) *Coercer {
	if loc == nil {
		loc = time.UTC
	}
	return &Coercer{Location: loc}
}

var std = New(time.UTC)

// Coerce converts value using UTC for dates.
func Coerce(value any, t metadata.FieldType) (any, error) {
	return std.Coerce(value, t)
}

// Coerce converts value to the Go type of t. nil passes through.
func (c *Coercer) Coerce(value any, t metadata.FieldType) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch t {
	case metadata.TypeBoolean:
		return Bool(value), nil
	case metadata.TypeString, metadata.TypeText, metadata.TypeBigint, metadata.TypeDecimal:
		return String(value), nil
	case metadata.TypeInteger, metadata.TypeSmallint:
		return Int(value), nil
	case metadata.TypeFloat:
		return Float(value), nil
	case metadata.TypeGUID:
		return guid(value)
	case metadata.TypeJSON:
		return jsonValue(value)
	}
	if t.IsDateTime() {
		return c.dateTime(value, t.IsImmutable())
	}
	return value, nil
}

// Bool casts v to bool: zero numbers, "", "0", empty slices and maps are false.
func Bool(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return tv != "" && tv != "0"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	if isNumber(rv.Kind()) {
		return toFloat(rv) != 0
	}
	return true
}

// String casts v to string. true is "1" and false is "".
func String(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case []byte:
		return string(tv)
	case bool:
		if tv {
			return "1"
		}
		return ""
	case time.Time:
		return tv.Format(time.RFC3339)
	case fmt.Stringer:
		return tv.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(v)
}

// Int casts v to int. Strings are read up to the first non numeric character.
func Int(v any) int {
	switch tv := v.(type) {
	case nil:
		return 0
	case int:
		return tv
	case bool:
		if tv {
			return 1
		}
		return 0
	case string:
		prefix := numericPrefix(tv)
		n, err := strconv.ParseInt(prefix, 10, 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return clampInt(n)
		}
		f, _ := strconv.ParseFloat(prefix, 64)
		return floatToInt(f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return clampInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt {
			return int(u)
		}
		return math.MaxInt
	case reflect.Float32, reflect.Float64:
		return floatToInt(rv.Float())
	case reflect.String:
		return Int(rv.String())
	}
	if Bool(v) {
		return 1
	}
	return 0
}

// clampInt saturates n to the int range. ParseInt already returns the
// saturated int64 on ErrRange.
func clampInt(n int64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	if n < math.MinInt {
		return math.MinInt
	}
	return int(n)
}

// floatToInt truncates f, saturating out of range values and infinities.
// NaN is 0.
func floatToInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// Float casts v to float64.
func Float(v any) float64 {
	switch tv := v.(type) {
	case nil:
		return 0
	case float64:
		return tv
	case bool:
		if tv {
			return 1
		}
		return 0
	case string:
		f, _ := strconv.ParseFloat(numericPrefix(tv), 64)
		return f
	}
	rv := reflect.ValueOf(v)
	if isNumber(rv.Kind()) {
		return toFloat(rv)
	}
	if rv.Kind() == reflect.String {
		return Float(rv.String())
	}
	if Bool(v) {
		return 1
	}
	return 0
}

func (c *Coercer) dateTime(v any, immutable bool) (any, error) {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		if immutable {
			return tv, nil
		}
		t = tv
	case *time.Time:
		if tv == nil {
			return nil, nil
		}
		if !immutable {
			return tv, nil
		}
		return *tv, nil
	case string:
		if tv == "" {
			return nil, nil
		}
		parsed, err := c.parse(tv)
		if err != nil {
			return nil, err
		}
		t = parsed
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			t = time.Unix(rv.Int(), 0).In(c.location())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			t = time.Unix(int64(rv.Uint()), 0).In(c.location())
		case reflect.Float32, reflect.Float64:
			sec := rv.Float()
			t = time.Unix(int64(sec), int64((sec-float64(int64(sec)))*1e9)).In(c.location())
		default:
			return v, nil
		}
	}
	if immutable {
		return t, nil
	}
	return &t, nil
}

// parse reads RFC 3339 first, then any layout jinzhu/now understands
// ("2006-01-02", "2006-01-02 15:04:05", "15:04", ...).
func (c *Coercer) parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := now.ParseInLocation(c.location(), s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %w", ErrUnparsable, s, err)
	}
	return t, nil
}

func (c *Coercer) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func guid(v any) (any, error) {
	switch tv := v.(type) {
	case uuid.UUID:
		return tv, nil
	case *uuid.UUID:
		if tv == nil {
			return nil, nil
		}
		return *tv, nil
	case [16]byte:
		return uuid.UUID(tv), nil
	case []byte:
		id, err := uuid.FromBytes(tv)
		if err != nil {
			id, err = uuid.ParseBytes(tv)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: guid: %w", ErrUnparsable, err)
		}
		return id, nil
	}
	s := String(v)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: guid %q: %w", ErrUnparsable, s, err)
	}
	return id, nil
}

func jsonValue(v any) (any, error) {
	switch tv := v.(type) {
	case datatypes.JSON:
		return tv, nil
	case json.RawMessage:
		return datatypes.JSON(tv), nil
	case []byte:
		return datatypes.JSON(tv), nil
	case string:
		if !json.Valid([]byte(tv)) {
			return nil, fmt.Errorf("%w: json %q", ErrUnparsable, tv)
		}
		return datatypes.JSON(tv), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: json: %w", ErrUnparsable, err)
	}
	return datatypes.JSON(b), nil
}

// numericPrefix returns the leading numeric part of s ("12.5kg" -> "12.5").
func numericPrefix(s string) string {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i == start || (i == start+1 && s[start] == '.') {
		return "0"
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return s[:i]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(rv reflect.Value) float64 {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	}
	return rv.Float()
}
