// Package hive2 is a database/sql driver for HiveServer2 over Thrift.
package hive2

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/mumuhhh/hivejdbc/internal/sysprop"
)

func init() {
	sql.Register("hive2", &HiveDriver{})
}

// HiveDriver opens HiveServer2 sessions from hive2:// connection strings.
type HiveDriver struct {
	// Runtime supplies Kerberos and logging properties. Nil means sysprop.Default.
	Runtime *sysprop.Runtime
}

func (h HiveDriver) runtime() *sysprop.Runtime {
	if h.Runtime != nil {
		return h.Runtime
	}
	return sysprop.Default
}

func (h HiveDriver) Open(uri string) (driver.Conn, error) {
	return h.Connect(context.Background(), uri, nil)
}

func (h HiveDriver) OpenConnector(uri string) (driver.Connector, error) {
	params, err := ParseUrl(uri)
	if err != nil {
		return nil, err
	}
	return &connector{
		params:  params,
		runtime: h.runtime(),
	}, nil
}

// Connect parses url, merges info into it and opens a session. It starts the
// runtime if nothing else has.
func (h HiveDriver) Connect(ctx context.Context, url string, info map[string]string) (driver.Conn, error) {
	params, err := ParseUrl(url)
	if err != nil {
		return nil, err
	}
	params.MergeInfo(info)
	rt := h.runtime()
	rt.Start()
	c := &connector{
		params:  params,
		runtime: rt,
	}
	return c.Connect(ctx)
}

var (
	_ driver.Driver        = HiveDriver{}
	_ driver.DriverContext = HiveDriver{}
)
