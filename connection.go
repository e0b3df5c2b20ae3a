package hivejdbc

import (
	"context"
	"database/sql/driver"

	"github.com/google/uuid"

	"github.com/mumuhhh/hivejdbc/internal/logging"
	"github.com/mumuhhh/hivejdbc/types"
)

// Connection is an open driver session plus the cursor type and value
// conversions used for its result sets.
type Connection struct {
	id         string
	conn       driver.Conn
	url        string
	cursor     CursorFactory
	conversion types.Conversion
}

func newConnection(conn driver.Conn, url string, cursor CursorFactory, conversion types.Conversion) *Connection {
	if cursor == nil {
		cursor = NewCursor
	}
	if conversion == nil {
		conversion = types.DefaultConversion()
	}
	return &Connection{
		id:         uuid.NewString(),
		conn:       conn,
		url:        url,
		cursor:     cursor,
		conversion: conversion,
	}
}

// ID identifies the connection in log entries.
func (c *Connection) ID() string {
	return c.id
}

// Conn returns the driver connection.
func (c *Connection) Conn() driver.Conn {
	return c.conn
}

// ConnectionString returns the connection string with secrets masked.
func (c *Connection) ConnectionString() string {
	return RedactConnectionString(c.url)
}

// Conversion returns the converters applied to result values.
func (c *Connection) Conversion() types.Conversion {
	return c.conversion
}

// Cursor returns a new cursor of the type selected with the cursor argument,
// a *Cursor by default.
func (c *Connection) Cursor() RowCursor {
	return c.cursor(c)
}

func (c *Connection) Close() error {
	logger.WithContext(c.context(context.Background())).Debug("closing connection")
	return c.conn.Close()
}

func (c *Connection) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, logging.ConnectionIDKey, c.id)
}
