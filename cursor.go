package hivejdbc

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
)

// DefaultArraySize is the number of rows FetchMany returns when asked for none.
const DefaultArraySize = 1

// ErrNoResultSet is returned by the fetch methods before Execute.
var ErrNoResultSet = errors.New("hivejdbc: no result set, call Execute first")

// RowCursor runs queries on a Connection.
type RowCursor interface {
	Execute(ctx context.Context, query string, args ...interface{}) error
	Columns() []string
	Close() error
}

// CursorFactory creates the cursors returned by Connection.Cursor.
type CursorFactory func(c *Connection) RowCursor

type cursor struct {
	conn      *Connection
	stmt      driver.Stmt
	rows      driver.Rows
	columns   []string
	typeNames []string
	rowCount  int

	// ArraySize is the default FetchMany size.
	ArraySize int
}

// Cursor fetches rows as slices ordered like Columns.
type Cursor struct {
	*cursor
}

// DictCursor fetches rows as maps keyed by column name.
type DictCursor struct {
	*cursor
}

// NewCursor is the CursorFactory for *Cursor.
func NewCursor(c *Connection) RowCursor {
	return &Cursor{&cursor{conn: c, ArraySize: DefaultArraySize}}
}

// NewDictCursor is the CursorFactory for *DictCursor.
func NewDictCursor(c *Connection) RowCursor {
	return &DictCursor{&cursor{conn: c, ArraySize: DefaultArraySize}}
}

// Execute runs query with args bound to its ? placeholders and makes the
// result set available to the fetch methods. A previous result set is closed.
func (cur *cursor) Execute(ctx context.Context, query string, args ...interface{}) error {
	if err := cur.Close(); err != nil {
		return err
	}
	named := make([]driver.NamedValue, len(args))
	for i, a := range args {
		v, err := driver.DefaultParameterConverter.ConvertValue(a)
		if err != nil {
			return fmt.Errorf("hivejdbc: argument %d: %w", i+1, err)
		}
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}

	ctx = cur.conn.context(ctx)
	logger.WithContext(ctx).Debugf("execute: %s", query)
	rows, err := cur.query(ctx, query, named)
	if err != nil {
		return err
	}
	cur.rows = rows
	cur.columns = rows.Columns()
	cur.typeNames = make([]string, len(cur.columns))
	if typed, ok := rows.(driver.RowsColumnTypeDatabaseTypeName); ok {
		for i := range cur.columns {
			cur.typeNames[i] = typed.ColumnTypeDatabaseTypeName(i)
		}
	}
	return nil
}

func (cur *cursor) query(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	conn := cur.conn.conn
	if qc, ok := conn.(driver.QueryerContext); ok {
		rows, err := qc.QueryContext(ctx, query, args)
		if !errors.Is(err, driver.ErrSkip) {
			return rows, err
		}
	}

	var stmt driver.Stmt
	var err error
	if pc, ok := conn.(driver.ConnPrepareContext); ok {
		stmt, err = pc.PrepareContext(ctx, query)
	} else {
		stmt, err = conn.Prepare(query)
	}
	if err != nil {
		return nil, err
	}
	var rows driver.Rows
	if sq, ok := stmt.(driver.StmtQueryContext); ok {
		rows, err = sq.QueryContext(ctx, args)
	} else {
		values := make([]driver.Value, len(args))
		for i, a := range args {
			values[i] = a.Value
		}
		rows, err = stmt.Query(values)
	}
	if err != nil {
		return nil, errors.Join(err, stmt.Close())
	}
	cur.stmt = stmt
	return rows, nil
}

// Columns returns the column names of the current result set.
func (cur *cursor) Columns() []string {
	return cur.columns
}

// RowCount is the number of rows fetched from the current result set.
func (cur *cursor) RowCount() int {
	return cur.rowCount
}

func (cur *cursor) Close() error {
	var err error
	if cur.rows != nil {
		err = cur.rows.Close()
		cur.rows = nil
	}
	if cur.stmt != nil {
		if serr := cur.stmt.Close(); err == nil {
			err = serr
		}
		cur.stmt = nil
	}
	cur.columns, cur.typeNames, cur.rowCount = nil, nil, 0
	return err
}

// next reads and converts one row. It returns io.EOF after the last row.
func (cur *cursor) next() ([]interface{}, error) {
	if cur.rows == nil {
		return nil, ErrNoResultSet
	}
	dest := make([]driver.Value, len(cur.columns))
	if err := cur.rows.Next(dest); err != nil {
		return nil, err
	}
	row := make([]interface{}, len(dest))
	for i, v := range dest {
		cv, err := cur.conn.conversion.Convert(cur.typeNames[i], v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", cur.columns[i], err)
		}
		row[i] = cv
	}
	cur.rowCount++
	return row, nil
}

func (cur *cursor) many(n int, all bool) ([][]interface{}, error) {
	if n <= 0 {
		n = cur.ArraySize
	}
	var out [][]interface{}
	for all || len(out) < n {
		row, err := cur.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (cur *cursor) asMap(row []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(row))
	for i, v := range row {
		m[cur.columns[i]] = v
	}
	return m
}

// FetchOne returns the next row, or io.EOF when there are no more.
func (c *Cursor) FetchOne() ([]interface{}, error) {
	return c.next()
}

// FetchMany returns up to n rows; n <= 0 means ArraySize. An empty result
// means the result set is exhausted.
func (c *Cursor) FetchMany(n int) ([][]interface{}, error) {
	return c.many(n, false)
}

// FetchAll returns the remaining rows.
func (c *Cursor) FetchAll() ([][]interface{}, error) {
	return c.many(0, true)
}

// FetchOne returns the next row, or io.EOF when there are no more.
func (c *DictCursor) FetchOne() (map[string]interface{}, error) {
	row, err := c.next()
	if err != nil {
		return nil, err
	}
	return c.asMap(row), nil
}

func (c *DictCursor) FetchMany(n int) ([]map[string]interface{}, error) {
	rows, err := c.many(n, false)
	return c.asMaps(rows), err
}

func (c *DictCursor) FetchAll() ([]map[string]interface{}, error) {
	rows, err := c.many(0, true)
	return c.asMaps(rows), err
}

func (c *DictCursor) asMaps(rows [][]interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		out[i] = c.asMap(row)
	}
	return out
}

var (
	_ RowCursor = (*Cursor)(nil)
	_ RowCursor = (*DictCursor)(nil)
)
