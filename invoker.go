package hivejdbc

import (
	"context"
	"database/sql/driver"
	"fmt"
	"sort"
	"sync"

	hive2 "github.com/mumuhhh/hivejdbc/hive"
	"github.com/mumuhhh/hivejdbc/internal/sysprop"
)

// Driver is a connect entry point. url is a hive2 connection string and info
// holds the string form of the properties argument.
type Driver interface {
	Connect(ctx context.Context, url string, info map[string]string) (driver.Conn, error)
}

// DriverFactory creates a Driver for a single connect.
type DriverFactory func() Driver

var drivers = struct {
	sync.RWMutex
	m map[string]DriverFactory
}{m: map[string]DriverFactory{}}

func init() {
	RegisterDriver(DefaultDriver, func() Driver {
		return hive2.HiveDriver{Runtime: sysprop.Default}
	})
}

// RegisterDriver makes a driver entry point available under name. It panics if
// factory is nil or name is already registered.
func RegisterDriver(name string, factory DriverFactory) {
	drivers.Lock()
	defer drivers.Unlock()
	if factory == nil {
		panic("hivejdbc: RegisterDriver factory is nil")
	}
	if _, dup := drivers.m[name]; dup {
		panic("hivejdbc: RegisterDriver called twice for driver " + name)
	}
	drivers.m[name] = factory
}

// Drivers returns the sorted names of the registered entry points.
func Drivers() []string {
	drivers.RLock()
	defer drivers.RUnlock()
	names := make([]string, 0, len(drivers.m))
	for name := range drivers.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupDriver(name string) (DriverFactory, bool) {
	drivers.RLock()
	defer drivers.RUnlock()
	f, ok := drivers.m[name]
	return f, ok
}

// invoke starts rt and connects through the named entry point. Driver errors
// are returned as they are unless a registered classifier maps them.
func invoke(ctx context.Context, rt *sysprop.Runtime, name, url string, properties map[string]interface{}) (driver.Conn, error) {
	if name == "" {
		name = DefaultDriver
	}
	factory, ok := lookupDriver(name)
	if !ok {
		return nil, fmt.Errorf("hivejdbc: no driver registered as %q", name)
	}
	rt.Start()

	info := make(map[string]string, len(properties))
	for k, v := range properties {
		info[k] = fmt.Sprint(v)
	}
	logger.WithContext(ctx).Debugf("hive connection string: %s", RedactConnectionString(url))
	conn, err := factory().Connect(ctx, url, info)
	if err != nil {
		return nil, classify(err)
	}
	return conn, nil
}
