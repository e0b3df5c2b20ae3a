package args

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

func coerce(t Type, v interface{}) (interface{}, error) {
	switch t {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, typeError(t, v)
		}
		return s, nil
	case Int:
		return toInt(v)
	case Bool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return nil, typeError(t, v)
			}
			return parsed, nil
		}
		return nil, typeError(t, v)
	case Map:
		return toMap(v)
	}
	return v, nil
}

func toInt(v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt32 {
			return nil, fmt.Errorf("%d is out of range", rv.Uint())
		}
		return int(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v is not a whole number", f)
		}
		return int(f), nil
	case reflect.String:
		i, err := strconv.Atoi(strings.TrimSpace(rv.String()))
		if err != nil {
			return nil, typeError(Int, v)
		}
		return i, nil
	}
	return nil, typeError(Int, v)
}

func toMap(v interface{}) (interface{}, error) {
	switch m := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, x := range m {
			out[k] = x
		}
		return out, nil
	case map[string]string:
		out := make(map[string]interface{}, len(m))
		for k, x := range m {
			out[k] = x
		}
		return out, nil
	}
	return nil, typeError(Map, v)
}

func typeError(t Type, v interface{}) error {
	return fmt.Errorf("expected %s, got %T", t, v)
}

func sortedNames(m map[string]interface{}) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
