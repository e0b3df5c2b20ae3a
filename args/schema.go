// Package args declares connection options and resolves caller arguments
// against them.
package args

import (
	"fmt"
)

// Type is the semantic type of an option value.
type Type int

const (
	Any Type = iota
	String
	Int
	Bool
	Map
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Map:
		return "map"
	}
	return "any"
}

// Validator checks a coerced value and returns the value to keep. It must not
// have side effects.
type Validator func(v interface{}) (interface{}, error)

// Option declares one recognized argument.
type Option struct {
	Name string
	Type Type
	// Default is used when the option is not supplied. Map defaults are copied
	// for every resolution.
	Default interface{}
	// Position is the 1-based positional slot, 0 when the option is named only.
	Position int
	Required bool
	// Secret values are masked when a resolved set is printed.
	Secret      bool
	Requires    []string
	Excludes    []string
	Choices     []interface{}
	Validate    Validator
	Description string
}

// Schema is an immutable set of option declarations.
type Schema struct {
	options    []Option
	byName     map[string]int
	positional []string
}

// NewSchema checks the declarations for duplicate names and positions and for
// dependencies on undeclared options.
func NewSchema(opts ...Option) (*Schema, error) {
	s := &Schema{
		options: make([]Option, 0, len(opts)),
		byName:  make(map[string]int, len(opts)),
	}
	positions := map[int]string{}
	for _, o := range opts {
		if o.Name == "" {
			return nil, fmt.Errorf("option declared without a name")
		}
		if _, ok := s.byName[o.Name]; ok {
			return nil, fmt.Errorf("option %q declared twice", o.Name)
		}
		if o.Position < 0 {
			return nil, fmt.Errorf("option %q: negative position", o.Name)
		}
		if o.Position > 0 {
			if other, ok := positions[o.Position]; ok {
				return nil, fmt.Errorf("options %q and %q share position %d", other, o.Name, o.Position)
			}
			positions[o.Position] = o.Name
		}
		o.Requires = append([]string(nil), o.Requires...)
		o.Excludes = append([]string(nil), o.Excludes...)
		o.Choices = append([]interface{}(nil), o.Choices...)
		s.byName[o.Name] = len(s.options)
		s.options = append(s.options, o)
	}
	for _, o := range s.options {
		for _, dep := range append(append([]string(nil), o.Requires...), o.Excludes...) {
			if _, ok := s.byName[dep]; !ok {
				return nil, fmt.Errorf("option %q refers to undeclared option %q", o.Name, dep)
			}
		}
	}
	for i := 1; i <= len(positions); i++ {
		name, ok := positions[i]
		if !ok {
			return nil, fmt.Errorf("positional slot %d is not declared", i)
		}
		s.positional = append(s.positional, name)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on a declaration error.
func MustSchema(opts ...Option) *Schema {
	s, err := NewSchema(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Options returns the declarations in declaration order.
func (s *Schema) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

func (s *Schema) Lookup(name string) (Option, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}
