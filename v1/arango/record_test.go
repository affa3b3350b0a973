package arango

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SetKeepsInsertionOrder(t *testing.T) {
	r := NewRecord().Set("b", 1).Set("a", 2).Set("c", 3)
	r.Set("a", 20)

	assert.Equal(t, []string{"b", "a", "c"}, r.Keys())
	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 20, v)
	assert.Equal(t, 3, r.Len())
}

func TestRecord_ZeroValueUsable(t *testing.T) {
	var r Record
	r.Set("x", true)
	assert.True(t, r.Has("x"))
	assert.Equal(t, 1, r.Len())
}

func TestRecord_DeleteAndHas(t *testing.T) {
	r := NewRecord().Set("a", nil).Set("b", 1)

	assert.True(t, r.Has("a"), "nil values are present")
	assert.True(t, r.Delete("a"))
	assert.False(t, r.Delete("a"))
	assert.Equal(t, []string{"b"}, r.Keys())
}

func TestRecordFromMap_SortsKeysAndNests(t *testing.T) {
	r := RecordFromMap(map[string]any{
		"z": 1,
		"a": map[string]any{"y": 1, "x": 2},
		"m": []any{map[string]any{"k": "v"}},
	})

	assert.Equal(t, []string{"a", "m", "z"}, r.Keys())

	nested, err := r.Record("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, nested.Keys())

	list, err := r.List("m")
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, ok := list[0].(*Record)
	assert.True(t, ok)
}

func TestRecord_JSONPreservesOrder(t *testing.T) {
	input := `{"b":1,"a":{"y":2,"x":[1,{"z":true}]},"c":null,"d":"s"}`

	r, err := ParseRecord([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "d"}, r.Keys())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestRecord_UnmarshalRejectsNonObject(t *testing.T) {
	_, err := ParseRecord([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestRecord_NumbersDecodeAsJSONNumber(t *testing.T) {
	r, err := ParseRecord([]byte(`{"n":12345678901234567890}`))
	require.NoError(t, err)

	v, _ := r.Get("n")
	assert.Equal(t, json.Number("12345678901234567890"), v)
}

func TestRecord_TypedAccessors(t *testing.T) {
	r, err := ParseRecord([]byte(`{"name":"A","age":42,"ratio":0.5,"ok":true,"tags":["x"],"addr":{"city":"Berlin"}}`))
	require.NoError(t, err)

	name, err := r.String("name")
	require.NoError(t, err)
	assert.Equal(t, "A", name)

	age, err := r.Int64("age")
	require.NoError(t, err)
	assert.Equal(t, int64(42), age)

	ratio, err := r.Float64("ratio")
	require.NoError(t, err)
	assert.Equal(t, 0.5, ratio)

	ok, err := r.Bool("ok")
	require.NoError(t, err)
	assert.True(t, ok)

	tags, err := r.List("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, tags)

	city, err := r.String("addr.city")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", city)
}

func TestRecord_TypedAccessorMismatch(t *testing.T) {
	r := NewRecord().Set("age", "42").Set("ratio", json.Number("1.5"))

	_, err := r.Int64("age")
	var fte *FieldTypeError
	require.True(t, errors.As(err, &fte))
	assert.Equal(t, "age", fte.Field)
	assert.Equal(t, "integer", fte.Expected)
	assert.Equal(t, "string", fte.Actual)

	_, err = r.Int64("ratio")
	assert.True(t, IsFieldTypeError(err), "fractions are not integers")

	_, err = r.Bool("age")
	assert.True(t, IsFieldTypeError(err))
}

func TestRecord_NumericAccessorsAcceptGoIntegers(t *testing.T) {
	r := NewRecord().
		Set("u", uint(3)).
		Set("u8", uint8(8)).
		Set("u64", uint64(64)).
		Set("i8", int8(-8)).
		Set("i16", int16(16)).
		Set("big", uint64(math.MaxUint64))

	for _, field := range []string{"u", "u8", "u64", "i8", "i16"} {
		_, err := r.Int64(field)
		assert.NoError(t, err, field)
		_, err = r.Float64(field)
		assert.NoError(t, err, field)
	}

	u, err := r.Float64("u")
	require.NoError(t, err)
	assert.Equal(t, 3.0, u)

	i8, err := r.Int64("i8")
	require.NoError(t, err)
	assert.Equal(t, int64(-8), i8)

	big, err := r.Float64("big")
	require.NoError(t, err)
	assert.Equal(t, float64(math.MaxUint64), big)

	_, err = r.Int64("big")
	var fte *FieldTypeError
	require.True(t, errors.As(err, &fte))
	assert.Equal(t, "integer", fte.Expected)
	assert.NotEqual(t, fte.Expected, fte.Actual)
}

func TestRecord_TypedAccessorMissing(t *testing.T) {
	r := NewRecord()

	_, err := r.String("nope")
	assert.ErrorIs(t, err, ErrFieldMissing)

	_, err = r.String("a.b")
	assert.ErrorIs(t, err, ErrFieldMissing)
}

func TestRecord_CloneIsDeep(t *testing.T) {
	orig := RecordFromMap(map[string]any{"a": map[string]any{"b": 1}, "l": []any{1}})
	cp := orig.Clone()

	nested, err := cp.Record("a")
	require.NoError(t, err)
	nested.Set("b", 2)
	list, _ := cp.List("l")
	list[0] = 99

	v, _ := orig.Lookup("a.b")
	assert.Equal(t, 1, v)
	origList, _ := orig.List("l")
	assert.Equal(t, 1, origList[0])
}

func TestRecord_MapIsPlain(t *testing.T) {
	r := NewRecord().Set("a", map[string]any{"b": []any{map[string]any{"c": 1}}})

	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": []any{map[string]any{"c": 1}}},
	}, r.Map())
}

func TestRecord_NilSafeReads(t *testing.T) {
	var r *Record
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Keys())
	assert.False(t, r.Has("a"))
	_, ok := r.Lookup("a")
	assert.False(t, ok)
}
