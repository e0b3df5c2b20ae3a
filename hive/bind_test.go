package hive2

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 500000000, time.UTC)
	got, err := interpolate(
		"SELECT * FROM t WHERE a = ? AND b = ? AND c = '?' AND d IN (?, ?, ?) AND `?` = ?",
		valuesToNamed([]driver.Value{int64(7), "it's", nil, true, 1.5, ts}),
	)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM t WHERE a = 7 AND b = 'it\\'s' AND c = '?' AND d IN (NULL, TRUE, 1.5) AND `?` = '2024-03-01 12:30:00.5'",
		got)
}

func TestInterpolateEscapedQuote(t *testing.T) {
	got, err := interpolate(`SELECT 'a\'?' , ?`, valuesToNamed([]driver.Value{[]byte("x")}))
	require.NoError(t, err)
	assert.Equal(t, `SELECT 'a\'?' , 'x'`, got)
}

func TestInterpolateArgumentCount(t *testing.T) {
	_, err := interpolate("SELECT ?", valuesToNamed([]driver.Value{int64(1), int64(2)}))
	assert.Error(t, err)

	_, err = interpolate("SELECT ?, ?", valuesToNamed([]driver.Value{int64(1)}))
	assert.Error(t, err)

	_, err = interpolate("SELECT ?", []driver.NamedValue{{Name: "id", Ordinal: 1, Value: int64(1)}})
	assert.Error(t, err)

	got, err := interpolate("SELECT '?'", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT '?'", got)
}
