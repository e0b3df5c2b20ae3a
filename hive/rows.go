package hive2

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"

	"github.com/beltran/gohive/hiveserver"
)

// batch is the result of one FetchResults call.
type batch interface {
	size() int
	fill(row int, dest []driver.Value)
}

// rowBatch holds a row-oriented result, sent by servers older than protocol V6.
type rowBatch []*hiveserver.TRow

func (b rowBatch) size() int {
	return len(b)
}

func (b rowBatch) fill(row int, dest []driver.Value) {
	for i, v := range b[row].GetColVals() {
		if i < len(dest) {
			dest[i] = cellValue(v)
		}
	}
}

func cellValue(v *hiveserver.TColumnValue) driver.Value {
	switch {
	case v.IsSetBoolVal() && v.BoolVal.Value != nil:
		return *v.BoolVal.Value
	case v.IsSetByteVal() && v.ByteVal.Value != nil:
		return int64(*v.ByteVal.Value)
	case v.IsSetI16Val() && v.I16Val.Value != nil:
		return int64(*v.I16Val.Value)
	case v.IsSetI32Val() && v.I32Val.Value != nil:
		return int64(*v.I32Val.Value)
	case v.IsSetI64Val() && v.I64Val.Value != nil:
		return *v.I64Val.Value
	case v.IsSetDoubleVal() && v.DoubleVal.Value != nil:
		return *v.DoubleVal.Value
	case v.IsSetStringVal() && v.StringVal.Value != nil:
		return *v.StringVal.Value
	}
	return nil
}

// columnBatch holds a column-oriented result. Each column has a null bitmap
// with one bit per row, least significant bit first.
type columnBatch struct {
	rows    int
	columns []func(row int) driver.Value
}

func newColumnBatch(rs *hiveserver.TRowSet) (*columnBatch, error) {
	cols := rs.GetColumns()
	b := &columnBatch{columns: make([]func(int) driver.Value, len(cols))}
	for i, col := range cols {
		get, n, err := columnReader(col)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		if i == 0 || n < b.rows {
			b.rows = n
		}
		b.columns[i] = get
	}
	return b, nil
}

func (b *columnBatch) size() int {
	return b.rows
}

func (b *columnBatch) fill(row int, dest []driver.Value) {
	for i, get := range b.columns {
		if i < len(dest) {
			dest[i] = get(row)
		}
	}
}

func columnReader(col *hiveserver.TColumn) (func(int) driver.Value, int, error) {
	switch {
	case col.IsSetBoolVal():
		return reader(col.BoolVal.Values, col.BoolVal.Nulls, func(v bool) driver.Value { return v })
	case col.IsSetByteVal():
		return reader(col.ByteVal.Values, col.ByteVal.Nulls, func(v int8) driver.Value { return int64(v) })
	case col.IsSetI16Val():
		return reader(col.I16Val.Values, col.I16Val.Nulls, func(v int16) driver.Value { return int64(v) })
	case col.IsSetI32Val():
		return reader(col.I32Val.Values, col.I32Val.Nulls, func(v int32) driver.Value { return int64(v) })
	case col.IsSetI64Val():
		return reader(col.I64Val.Values, col.I64Val.Nulls, func(v int64) driver.Value { return v })
	case col.IsSetDoubleVal():
		return reader(col.DoubleVal.Values, col.DoubleVal.Nulls, func(v float64) driver.Value { return v })
	case col.IsSetStringVal():
		return reader(col.StringVal.Values, col.StringVal.Nulls, func(v string) driver.Value { return v })
	case col.IsSetBinaryVal():
		return reader(col.BinaryVal.Values, col.BinaryVal.Nulls, func(v []byte) driver.Value { return v })
	}
	return nil, 0, errors.New("invalid union object")
}

func reader[T any](values []T, nulls []byte, conv func(T) driver.Value) (func(int) driver.Value, int, error) {
	return func(row int) driver.Value {
		if isNull(nulls, row) {
			return nil
		}
		return conv(values[row])
	}, len(values), nil
}

func isNull(nulls []byte, row int) bool {
	i := row / 8
	return i < len(nulls) && nulls[i]&(1<<(row%8)) != 0
}

type hiveRows struct {
	stmt    *hiveStmt
	columns []*hiveserver.TColumnDesc
	names   []string
	batch   batch
	pos     int
	done    bool
}

func (r *hiveRows) retrieveSchema(ctx context.Context) error {
	req := hiveserver.NewTGetResultSetMetadataReq()
	req.OperationHandle = r.stmt.stmtHandle
	resp, err := r.stmt.hc.client.GetResultSetMetadata(ctx, req)
	if err != nil {
		return err
	}
	if !verifySuccess(resp.GetStatus(), false) {
		return &ServerError{Status: resp.Status}
	}
	r.columns = resp.GetSchema().GetColumns()
	r.names = make([]string, len(r.columns))
	for i, col := range r.columns {
		r.names[i] = col.ColumnName
	}
	return nil
}

// fetch replaces the current batch with the next one. An empty batch ends the
// result set.
func (r *hiveRows) fetch(ctx context.Context) error {
	req := hiveserver.NewTFetchResultsReq()
	req.OperationHandle = r.stmt.stmtHandle
	req.Orientation = hiveserver.TFetchOrientation_FETCH_NEXT
	req.MaxRows = r.stmt.hc.fetchSize
	resp, err := r.stmt.hc.client.FetchResults(ctx, req)
	if err != nil {
		return err
	}
	if !verifySuccessWithInfo(resp.GetStatus()) {
		return &ServerError{Status: resp.Status}
	}
	r.pos = 0
	results := resp.GetResults()
	switch {
	case results == nil:
		r.batch = rowBatch(nil)
	case r.stmt.hc.protocol >= hiveserver.TProtocolVersion_HIVE_CLI_SERVICE_PROTOCOL_V6:
		if r.batch, err = newColumnBatch(results); err != nil {
			return err
		}
	default:
		r.batch = rowBatch(results.GetRows())
	}
	if r.batch.size() == 0 {
		r.done = true
	}
	return nil
}

func (r *hiveRows) Columns() []string {
	return r.names
}

func (r *hiveRows) Close() error {
	return r.stmt.closeClientOperation()
}

func (r *hiveRows) Next(dest []driver.Value) error {
	for r.batch == nil || r.pos >= r.batch.size() {
		if r.done || r.stmt.stmtHandle == nil {
			return io.EOF
		}
		if err := r.fetch(context.Background()); err != nil {
			return err
		}
	}
	r.batch.fill(r.pos, dest)
	r.pos++
	return nil
}

func (r *hiveRows) typeEntry(index int) *hiveserver.TTypeEntry {
	types := r.columns[index].GetTypeDesc().GetTypes()
	if len(types) == 0 {
		return nil
	}
	return types[0]
}

func (r *hiveRows) qualifier(index int, name string) (int64, bool) {
	entry := r.typeEntry(index)
	if entry == nil || !entry.IsSetPrimitiveEntry() || !entry.PrimitiveEntry.IsSetTypeQualifiers() {
		return 0, false
	}
	v, ok := entry.PrimitiveEntry.TypeQualifiers.Qualifiers[name]
	if !ok || !v.IsSetI32Value() {
		return 0, false
	}
	return int64(v.GetI32Value()), true
}

// ColumnTypeDatabaseTypeName returns the Hive type name, e.g. INT, ARRAY or DECIMAL.
func (r *hiveRows) ColumnTypeDatabaseTypeName(index int) string {
	entry := r.typeEntry(index)
	switch {
	case entry == nil:
		return ""
	case entry.IsSetPrimitiveEntry():
		return hiveserver.TYPE_NAMES[entry.PrimitiveEntry.Type]
	case entry.IsSetArrayEntry():
		return "ARRAY"
	case entry.IsSetMapEntry():
		return "MAP"
	case entry.IsSetStructEntry():
		return "STRUCT"
	case entry.IsSetUnionEntry():
		return "UNIONTYPE"
	}
	return ""
}

func (r *hiveRows) ColumnTypeLength(index int) (int64, bool) {
	switch r.ColumnTypeDatabaseTypeName(index) {
	case "CHAR", "VARCHAR":
		return r.qualifier(index, hiveserver.CHARACTER_MAXIMUM_LENGTH)
	}
	return 0, false
}

// ColumnTypePrecisionScale defaults to DECIMAL(10,0) when the server sends no qualifiers.
func (r *hiveRows) ColumnTypePrecisionScale(index int) (int64, int64, bool) {
	if r.ColumnTypeDatabaseTypeName(index) != "DECIMAL" {
		return 0, 0, false
	}
	precision, ok := r.qualifier(index, hiveserver.PRECISION)
	if !ok {
		precision = 10
	}
	scale, _ := r.qualifier(index, hiveserver.SCALE)
	return precision, scale, true
}

var (
	_ driver.RowsColumnTypeDatabaseTypeName = (*hiveRows)(nil)
	_ driver.RowsColumnTypeLength           = (*hiveRows)(nil)
	_ driver.RowsColumnTypePrecisionScale   = (*hiveRows)(nil)
)
