package coerce_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/jacentio/hydrator/coerce"
	"github.com/jacentio/hydrator/metadata"
)

func TestBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{true, true},
		{"", false},
		{"0", false},
		{"false", true},
		{"yes", true},
		{0, false},
		{int64(2), true},
		{0.0, false},
		{[]int{}, false},
		{[]int{1}, true},
		{map[string]any{}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coerce.Bool(tt.in), "Bool(%#v)", tt.in)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Ada", "Ada"},
		{true, "1"},
		{false, ""},
		{12, "12"},
		{int64(-3), "-3"},
		{uint8(7), "7"},
		{1.5, "1.5"},
		{[]byte("raw"), "raw"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coerce.String(tt.in), "String(%#v)", tt.in)
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{"12", 12},
		{"12abc", 12},
		{" -4 apples", -4},
		{"abc", 0},
		{"3.9", 3},
		{"1e3", 1000},
		{true, 1},
		{2.7, 2},
		{int64(42), 42},
		{uint16(9), 9},
		// Out of range values saturate
		{"99999999999999999999", math.MaxInt},
		{"-99999999999999999999", math.MinInt},
		{"99999999999999999999.5", math.MaxInt},
		{"1e400", math.MaxInt},
		{"-1e400", math.MinInt},
		{uint64(math.MaxUint64), math.MaxInt},
		{1e20, math.MaxInt},
		{-1e20, math.MinInt},
		{math.Inf(1), math.MaxInt},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coerce.Int(tt.in), "Int(%#v)", tt.in)
	}
}

func TestFloat(t *testing.T) {
	assert.Equal(t, 12.5, coerce.Float("12.5kg"))
	assert.Equal(t, 1000.0, coerce.Float("1e3"))
	assert.Equal(t, 0.0, coerce.Float("."))
	assert.Equal(t, 3.0, coerce.Float(3))
	assert.Equal(t, 1.0, coerce.Float(true))
}

func TestCoerce_Scalars(t *testing.T) {
	v, err := coerce.Coerce("42", metadata.TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = coerce.Coerce(1, metadata.TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = coerce.Coerce(int64(12345678901), metadata.TypeBigint)
	require.NoError(t, err)
	assert.Equal(t, "12345678901", v)

	v, err = coerce.Coerce("2.5", metadata.TypeFloat)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestCoerce_NilPassesThrough(t *testing.T) {
	for _, ft := range []metadata.FieldType{
		metadata.TypeBoolean, metadata.TypeString, metadata.TypeInteger,
		metadata.TypeDateTime, metadata.TypeGUID, metadata.TypeJSON,
	} {
		v, err := coerce.Coerce(nil, ft)
		require.NoError(t, err)
		assert.Nil(t, v, "type %s", ft)
	}
}

func TestCoerce_UnknownTypePassesThrough(t *testing.T) {
	in := []string{"a", "b"}
	v, err := coerce.Coerce(in, metadata.TypeSimpleArray)
	require.NoError(t, err)
	assert.Equal(t, in, v)

	v, err = coerce.Coerce("x", metadata.TypeNone)
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestCoerce_DateTime(t *testing.T) {
	want := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	v, err := coerce.Coerce("2024-01-02T15:04:05Z", metadata.TypeDateTimeImmutable)
	require.NoError(t, err)
	got, ok := v.(time.Time)
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	// Mutable variants are pointers
	v, err = coerce.Coerce("2024-01-02 15:04:05", metadata.TypeDateTime)
	require.NoError(t, err)
	ptr, ok := v.(*time.Time)
	require.True(t, ok)
	assert.True(t, want.Equal(*ptr))

	v, err = coerce.Coerce("2024-01-02", metadata.TypeDateImmutable)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Equal(v.(time.Time)))

	v, err = coerce.Coerce("", metadata.TypeDateTime)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCoerce_DateTimeLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	c := coerce.New(loc)

	v, err := c.Coerce("2024-01-02 10:00:00", metadata.TypeDateTimeImmutable)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC).Equal(v.(time.Time)))

	v, err = c.Coerce(int64(0), metadata.TypeDateTimeImmutable)
	require.NoError(t, err)
	got := v.(time.Time)
	assert.Equal(t, int64(0), got.Unix())
	assert.Equal(t, loc, got.Location())
}

func TestCoerce_DateTimeConversions(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	v, err := coerce.Coerce(ts, metadata.TypeDateTime)
	require.NoError(t, err)
	assert.True(t, ts.Equal(*v.(*time.Time)))

	v, err = coerce.Coerce(&ts, metadata.TypeDateTimeImmutable)
	require.NoError(t, err)
	assert.Equal(t, ts, v)
}

func TestCoerce_DateTimeUnparsable(t *testing.T) {
	_, err := coerce.Coerce("not a date", metadata.TypeDateTime)
	assert.ErrorIs(t, err, coerce.ErrUnparsable)
}

func TestCoerce_GUID(t *testing.T) {
	id := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")

	v, err := coerce.Coerce(id.String(), metadata.TypeGUID)
	require.NoError(t, err)
	assert.Equal(t, id, v)

	v, err = coerce.Coerce(id[:], metadata.TypeGUID)
	require.NoError(t, err)
	assert.Equal(t, id, v)

	_, err = coerce.Coerce("nope", metadata.TypeGUID)
	assert.ErrorIs(t, err, coerce.ErrUnparsable)
}

func TestCoerce_JSON(t *testing.T) {
	v, err := coerce.Coerce(`{"a":1}`, metadata.TypeJSON)
	require.NoError(t, err)
	assert.Equal(t, datatypes.JSON(`{"a":1}`), v)

	v, err = coerce.Coerce(map[string]any{"a": 1}, metadata.TypeJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(v.(datatypes.JSON)))

	_, err = coerce.Coerce(`{"a":`, metadata.TypeJSON)
	assert.ErrorIs(t, err, coerce.ErrUnparsable)
}

func TestCoerce_Idempotent(t *testing.T) {
	tests := []struct {
		in any
		ft metadata.FieldType
	}{
		{"12abc", metadata.TypeInteger},
		{"99999999999999999999", metadata.TypeInteger},
		{"-1e400", metadata.TypeInteger},
		{uint64(math.MaxUint64), metadata.TypeInteger},
		{"0", metadata.TypeBoolean},
		{true, metadata.TypeString},
		{"1.25", metadata.TypeFloat},
		{"2024-01-02 15:04:05", metadata.TypeDateTimeImmutable},
		{"2024-01-02 15:04:05", metadata.TypeDateTime},
		{"f47ac10b-58cc-4372-a567-0e02b2c3d479", metadata.TypeGUID},
		{map[string]any{"a": []any{1, 2}}, metadata.TypeJSON},
	}
	for _, tt := range tests {
		once, err := coerce.Coerce(tt.in, tt.ft)
		require.NoError(t, err)
		twice, err := coerce.Coerce(once, tt.ft)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "coerce(%#v, %s)", tt.in, tt.ft)
	}
}
