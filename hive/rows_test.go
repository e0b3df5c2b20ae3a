package hive2

import (
	"database/sql/driver"
	"io"
	"testing"

	"github.com/beltran/gohive/hiveserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnBatch(t *testing.T) {
	b, err := newColumnBatch(&hiveserver.TRowSet{
		Columns: []*hiveserver.TColumn{
			{I32Val: &hiveserver.TI32Column{Values: []int32{1, 0, 3}, Nulls: []byte{0x02}}},
			{StringVal: &hiveserver.TStringColumn{Values: []string{`[1,2]`, `[]`, ""}, Nulls: []byte{0x04}}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, b.size())

	var got [][]driver.Value
	for i := 0; i < b.size(); i++ {
		row := make([]driver.Value, 2)
		b.fill(i, row)
		got = append(got, row)
	}
	assert.Equal(t, [][]driver.Value{
		{int64(1), `[1,2]`},
		{nil, `[]`},
		{int64(3), nil},
	}, got)
}

func TestColumnBatchInvalidColumn(t *testing.T) {
	_, err := newColumnBatch(&hiveserver.TRowSet{Columns: []*hiveserver.TColumn{{}}})
	assert.EqualError(t, err, "column 0: invalid union object")
}

func TestRowBatch(t *testing.T) {
	v := int64(42)
	s := "x"
	b := rowBatch{
		{ColVals: []*hiveserver.TColumnValue{
			{I64Val: &hiveserver.TI64Value{Value: &v}},
			{StringVal: &hiveserver.TStringValue{Value: &s}},
			{I32Val: &hiveserver.TI32Value{}},
		}},
	}
	require.Equal(t, 1, b.size())
	row := make([]driver.Value, 3)
	b.fill(0, row)
	assert.Equal(t, []driver.Value{int64(42), "x", nil}, row)
}

func TestNextWithoutHandle(t *testing.T) {
	r := &hiveRows{stmt: &hiveStmt{}}
	assert.Equal(t, io.EOF, r.Next(make([]driver.Value, 1)))
}

func TestColumnTypeMetadata(t *testing.T) {
	rows := &hiveRows{columns: []*hiveserver.TColumnDesc{
		column("tags", hiveserver.TTypeId_ARRAY_TYPE, nil),
		column("amount", hiveserver.TTypeId_DECIMAL_TYPE, map[string]int32{
			hiveserver.PRECISION: 12,
			hiveserver.SCALE:     2,
		}),
		column("code", hiveserver.TTypeId_VARCHAR_TYPE, map[string]int32{
			hiveserver.CHARACTER_MAXIMUM_LENGTH: 16,
		}),
	}}

	assert.Equal(t, "ARRAY", rows.ColumnTypeDatabaseTypeName(0))
	assert.Equal(t, "DECIMAL", rows.ColumnTypeDatabaseTypeName(1))

	precision, scale, ok := rows.ColumnTypePrecisionScale(1)
	assert.True(t, ok)
	assert.Equal(t, int64(12), precision)
	assert.Equal(t, int64(2), scale)

	length, ok := rows.ColumnTypeLength(2)
	assert.True(t, ok)
	assert.Equal(t, int64(16), length)

	_, ok = rows.ColumnTypeLength(0)
	assert.False(t, ok)
}

func column(name string, typ hiveserver.TTypeId, qualifiers map[string]int32) *hiveserver.TColumnDesc {
	entry := &hiveserver.TPrimitiveTypeEntry{Type: typ}
	if qualifiers != nil {
		q := map[string]*hiveserver.TTypeQualifierValue{}
		for k, v := range qualifiers {
			v := v
			q[k] = &hiveserver.TTypeQualifierValue{I32Value: &v}
		}
		entry.TypeQualifiers = &hiveserver.TTypeQualifiers{Qualifiers: q}
	}
	return &hiveserver.TColumnDesc{
		ColumnName: name,
		TypeDesc: &hiveserver.TTypeDesc{Types: []*hiveserver.TTypeEntry{
			{PrimitiveEntry: entry},
		}},
	}
}
