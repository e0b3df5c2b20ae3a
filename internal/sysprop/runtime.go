// Package sysprop holds the process-wide driver runtime properties.
//
// The runtime has two phases. Before Start, Configure records startup arguments
// which only take effect when the runtime starts. After Start, Configure sets
// properties live.
package sysprop

import (
	"fmt"
	"sort"
	"sync"
)

// Property keys understood by the native driver.
const (
	UseSubjectCredsOnly = "javax.security.auth.useSubjectCredsOnly"
	Krb5Conf            = "java.security.krb5.conf"
	Krb5KDC             = "java.security.krb5.kdc"
	Krb5Realm           = "java.security.krb5.realm"
	StatusLoggerLevel   = "org.apache.logging.log4j.simplelog.StatusLogger.level"
)

// Login describes how the driver obtains Kerberos credentials.
type Login struct {
	Principal      string
	Keytab         string
	UseTicketCache bool
}

// Runtime is a property store with a not-started and a started phase.
type Runtime struct {
	mu       sync.Mutex
	started  bool
	startup  map[string]string
	props    map[string]string
	login    *Login
	watchers []func(key, value string)
}

// Default is the runtime shared by every connection in the process.
var Default = New()

func New() *Runtime {
	return &Runtime{
		startup: map[string]string{},
		props:   map[string]string{},
	}
}

// Configure records key=value as a startup argument, or sets it live when the
// runtime is already running. Setting the same value twice is a no-op.
func (r *Runtime) Configure(key, value string) {
	r.mu.Lock()
	if !r.started {
		r.startup[key] = value
		r.mu.Unlock()
		return
	}
	old, ok := r.props[key]
	r.props[key] = value
	watchers := r.watchers
	r.mu.Unlock()
	if ok && old == value {
		return
	}
	for _, w := range watchers {
		w(key, value)
	}
}

// Start moves the startup arguments into the live properties. Calling it on a
// running runtime does nothing.
func (r *Runtime) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	applied := make(map[string]string, len(r.startup))
	for k, v := range r.startup {
		r.props[k] = v
		applied[k] = v
	}
	r.startup = map[string]string{}
	r.started = true
	watchers := r.watchers
	r.mu.Unlock()
	for _, k := range sortedKeys(applied) {
		for _, w := range watchers {
			w(k, applied[k])
		}
	}
}

func (r *Runtime) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Property returns a live property. Startup arguments are not visible until Start.
func (r *Runtime) Property(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.props[key]
	return v, ok
}

// StartupArgs returns the pending startup arguments as sorted -Dkey=value strings.
func (r *Runtime) StartupArgs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.startup))
	for _, k := range sortedKeys(r.startup) {
		out = append(out, fmt.Sprintf("-D%s=%s", k, r.startup[k]))
	}
	return out
}

// SetLogin replaces the login configuration.
func (r *Runtime) SetLogin(l Login) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.login = &l
}

// Login returns the login configuration, if one was set.
func (r *Runtime) Login() (Login, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.login == nil {
		return Login{}, false
	}
	return *r.login, true
}

// Watch registers fn to be called for every property that becomes live.
func (r *Runtime) Watch(fn func(key, value string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers = append(r.watchers, fn)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
