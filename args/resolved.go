package args

import (
	"fmt"
	"sort"
	"strings"
)

// Resolved is a validated, defaulted argument set.
type Resolved struct {
	schema *Schema
	values map[string]interface{}
}

// Get returns the value of name and whether it was supplied or defaulted.
func (r *Resolved) Get(name string) (interface{}, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether name is present with a non-empty value.
func (r *Resolved) Has(name string) bool {
	return !isEmpty(r.values[name])
}

func (r *Resolved) GetString(name string) string {
	s, _ := r.values[name].(string)
	return s
}

func (r *Resolved) GetInt(name string) int {
	i, _ := r.values[name].(int)
	return i
}

func (r *Resolved) GetBool(name string) bool {
	b, _ := r.values[name].(bool)
	return b
}

func (r *Resolved) GetMap(name string) map[string]interface{} {
	m, _ := r.values[name].(map[string]interface{})
	return m
}

// Names returns the present option names in declaration order.
func (r *Resolved) Names() []string {
	names := make([]string, 0, len(r.values))
	for _, o := range r.schema.options {
		if _, ok := r.values[o.Name]; ok {
			names = append(names, o.Name)
		}
	}
	return names
}

// Redacted returns a copy of the values with secrets replaced by "****".
func (r *Resolved) Redacted() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for name, v := range r.values {
		if o, ok := r.schema.Lookup(name); ok && o.Secret {
			out[name] = "****"
			continue
		}
		out[name] = v
	}
	return out
}

func (r *Resolved) String() string {
	red := r.Redacted()
	keys := make([]string, 0, len(red))
	for k := range red {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, red[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
