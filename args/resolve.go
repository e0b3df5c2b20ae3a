package args

import (
	"fmt"
	"reflect"
)

// Resolve binds positional and named values to the schema, applies defaults and
// enforces every declared rule. Rules are checked in a fixed order: required
// options, types, choices, dependencies, exclusions and finally validators.
// Everything after the type check sees coerced values, so "false" is an empty
// bool. Named values that are nil count as not supplied.
func (s *Schema) Resolve(positional []interface{}, named map[string]interface{}) (*Resolved, error) {
	if len(positional) > len(s.positional) {
		return nil, &ValidationError{
			Kind: TooManyPositional,
			Err:  fmt.Errorf("got %d, at most %d accepted", len(positional), len(s.positional)),
		}
	}

	raw := make(map[string]interface{}, len(s.options))
	for i, v := range positional {
		if v == nil {
			continue
		}
		raw[s.positional[i]] = v
	}
	for _, name := range sortedNames(named) {
		v := named[name]
		if _, ok := s.byName[name]; !ok {
			return nil, &ValidationError{Kind: UnknownOption, Option: name}
		}
		if v == nil {
			continue
		}
		if _, ok := raw[name]; ok {
			return nil, &ValidationError{Kind: DuplicateOption, Option: name}
		}
		raw[name] = v
	}

	for _, o := range s.options {
		if _, ok := raw[o.Name]; ok || o.Default == nil {
			continue
		}
		raw[o.Name] = copyDefault(o.Default)
	}

	for _, o := range s.options {
		if o.Required && isEmpty(raw[o.Name]) {
			return nil, &ValidationError{Kind: MissingRequired, Option: o.Name}
		}
	}

	values := make(map[string]interface{}, len(raw))
	for _, o := range s.options {
		v, ok := raw[o.Name]
		if !ok {
			continue
		}
		cv, err := coerce(o.Type, v)
		if err != nil {
			return nil, &ValidationError{Kind: InvalidType, Option: o.Name, Err: err}
		}
		values[o.Name] = cv
	}

	for _, o := range s.options {
		v, ok := values[o.Name]
		if !ok || len(o.Choices) == 0 {
			continue
		}
		if !isChoice(v, o.Choices) {
			return nil, &ValidationError{
				Kind:   InvalidChoice,
				Option: o.Name,
				Err:    fmt.Errorf("%v is not one of %v", v, o.Choices),
			}
		}
	}

	for _, o := range s.options {
		if _, ok := values[o.Name]; !ok {
			continue
		}
		for _, dep := range o.Requires {
			if isEmpty(values[dep]) {
				return nil, &ValidationError{Kind: MissingDependency, Option: o.Name, Other: dep}
			}
		}
	}

	for _, o := range s.options {
		if _, ok := values[o.Name]; !ok {
			continue
		}
		for _, ex := range o.Excludes {
			if _, ok := values[ex]; ok {
				return nil, &ValidationError{Kind: MutuallyExclusive, Option: o.Name, Other: ex}
			}
		}
	}

	for _, o := range s.options {
		v, ok := values[o.Name]
		if !ok || o.Validate == nil {
			continue
		}
		cv, err := o.Validate(v)
		if err != nil {
			return nil, &ValidationError{Kind: InvalidValue, Option: o.Name, Err: err}
		}
		values[o.Name] = cv
	}
	return &Resolved{schema: s, values: values}, nil
}

func isChoice(v interface{}, choices []interface{}) bool {
	for _, c := range choices {
		if reflect.DeepEqual(v, c) {
			return true
		}
	}
	return false
}

// isEmpty reports whether v would not satisfy a dependency: nil, zero scalars
// and empty collections are empty.
func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return rv.IsZero()
}

func copyDefault(v interface{}) interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, x := range m {
			out[k] = x
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, x := range m {
			out[k] = x
		}
		return out
	}
	return v
}
