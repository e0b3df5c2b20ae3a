package hivejdbc

import (
	"context"
	"database/sql/driver"
	"strings"

	"github.com/mumuhhh/hivejdbc/args"
	"github.com/mumuhhh/hivejdbc/internal/sysprop"
	"github.com/mumuhhh/hivejdbc/types"
)

// Arguments are named connection arguments, see Options for the accepted names.
type Arguments map[string]interface{}

// Connect resolves the arguments, configures the runtime, checks that the server
// is listening and opens a session through the selected driver entry point.
// positional binds host and database in that order. Invalid arguments fail
// with an error matching args.ErrValidation before any network I/O.
func Connect(ctx context.Context, positional []interface{}, named Arguments) (*Connection, error) {
	r, err := Options().Resolve(positional, named)
	if err != nil {
		return nil, err
	}
	return connectResolved(ctx, sysprop.Default, r)
}

// Open is Connect with host and database given explicitly.
func Open(ctx context.Context, host, database string, named Arguments) (*Connection, error) {
	return Connect(ctx, []interface{}{host, database}, named)
}

func connectResolved(ctx context.Context, rt *sysprop.Runtime, r *args.Resolved) (*Connection, error) {
	logger.WithContext(ctx).Debugf("connect with %s", r)
	if err := configureEnvironment(rt, r); err != nil {
		return nil, err
	}
	host := r.GetString(ArgHost)
	if !strings.Contains(host, ",") {
		if err := CheckServer(ctx, host, r.GetInt(ArgPort)); err != nil {
			return nil, err
		}
	}
	url := BuildConnectionString(r)
	conn, err := invoke(ctx, rt, r.GetString(ArgDriver), url, r.GetMap(ArgProperties))
	if err != nil {
		return nil, err
	}
	var factory CursorFactory
	if v, ok := r.Get(ArgCursor); ok {
		factory, _ = v.(CursorFactory)
	}
	c := newConnection(conn, url, factory, types.DefaultConversion())
	logger.WithContext(c.context(ctx)).Debugf("connected to %s", c.ConnectionString())
	return c, nil
}

// connector runs the whole Connect pipeline for every connection database/sql opens.
type connector struct {
	resolved *args.Resolved
	runtime  *sysprop.Runtime
}

// NewConnector resolves the arguments once and returns a connector for
// sql.OpenDB. The cursor argument has no effect through database/sql.
func NewConnector(positional []interface{}, named Arguments) (driver.Connector, error) {
	r, err := Options().Resolve(positional, named)
	if err != nil {
		return nil, err
	}
	return &connector{resolved: r, runtime: sysprop.Default}, nil
}

func (c *connector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := connectResolved(ctx, c.runtime, c.resolved)
	if err != nil {
		return nil, err
	}
	return conn.Conn(), nil
}

func (c *connector) Driver() driver.Driver {
	return connectorDriver{c}
}

// connectorDriver satisfies driver.Connector; database/sql only calls Open on
// drivers registered by name.
type connectorDriver struct {
	c *connector
}

func (d connectorDriver) Open(string) (driver.Conn, error) {
	return d.c.Connect(context.Background())
}
