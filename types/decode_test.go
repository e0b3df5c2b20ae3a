package types

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBlankIsNil(t *testing.T) {
	for _, kind := range []Kind{Array, Map, Struct} {
		for _, text := range []string{"", "   ", "\n\t"} {
			v, err := Decode(kind, text)
			require.NoError(t, err)
			assert.Nil(t, v, "%s %q", kind, text)
		}
	}
}

func TestDecodeArray(t *testing.T) {
	v, err := Decode(Array, "[1,2,3]")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, v)

	v, err = Decode(Array, `["a", null, 1.5, true, [false]]`)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", nil, 1.5, true, []interface{}{false}}, v)
}

func TestDecodeMapAndStruct(t *testing.T) {
	v, err := Decode(Map, `{"k1":"v1","k2":{"n":2}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"k1": "v1",
		"k2": map[string]interface{}{"n": int64(2)},
	}, v)

	v, err = Decode(Struct, `{"name":"liu","tags":["x"]}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "liu", "tags": []interface{}{"x"}}, v)
}

func TestDecodeMalformed(t *testing.T) {
	for _, kind := range []Kind{Array, Map, Struct} {
		_, err := Decode(kind, "not json")
		require.Error(t, err)
		var de *DecodeError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, kind, de.Kind)
		assert.Equal(t, "not json", de.Text)
		assert.Contains(t, err.Error(), "not json")
		assert.NotNil(t, errors.Unwrap(err))
	}

	for _, text := range []string{"[1,2", `["\x"]`, "[1e400]", `{"a":-1e999}`} {
		_, err := Decode(Array, text)
		var de *DecodeError
		require.True(t, errors.As(err, &de), text)
		assert.Equal(t, text, de.Text)
		assert.Contains(t, err.Error(), text)
	}
}

func TestConversion(t *testing.T) {
	c := DefaultConversion()

	v, err := c.Convert("array", "[1]")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1)}, v)

	v, err = c.Convert("MAP", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": int64(1)}, v)

	v, err = c.Convert("STRUCT", nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = c.Convert("STRUCT", 12)
	assert.Error(t, err)

	v, err = c.Convert("DECIMAL", "12.50")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(v.(decimal.Decimal)))

	_, err = c.Convert("DECIMAL", "abc")
	assert.Error(t, err)

	v, err = c.Convert("DATE", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), v)

	v, err = c.Convert("TIMESTAMP", "2024-02-29 10:11:12.5")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 10, 11, 12, 500000000, time.UTC), v)

	v, err = c.Convert("STRING", "[1]")
	require.NoError(t, err)
	assert.Equal(t, "[1]", v)
}

func TestScanners(t *testing.T) {
	var a ArrayValue
	require.NoError(t, a.Scan("[1,2]"))
	assert.Equal(t, ArrayValue{int64(1), int64(2)}, a)
	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)
	assert.Error(t, a.Scan(`{"a":1}`))

	var m MapValue
	require.NoError(t, m.Scan([]byte(`{"a":"b"}`)))
	assert.Equal(t, MapValue{"a": "b"}, m)
	assert.Error(t, m.Scan("not json"))

	var s StructValue
	require.NoError(t, s.Scan(map[string]interface{}{"x": 1}))
	assert.Equal(t, StructValue{"x": 1}, s)
}
