// Package types converts HiveServer2 column values into native Go values.
//
// HiveServer2 returns ARRAY, MAP and STRUCT columns as JSON text; Decode turns
// that text into []interface{} or map[string]interface{}.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// Kind is a column kind whose values arrive as JSON text.
type Kind int

const (
	Array Kind = iota + 1
	Map
	Struct
)

func (k Kind) String() string {
	switch k {
	case Array:
		return "ARRAY"
	case Map:
		return "MAP"
	case Struct:
		return "STRUCT"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// DecodeError reports a column value that is not valid JSON.
type DecodeError struct {
	Kind Kind
	Text string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode Hive %s json string: %v\nColumn Value:\n%s", e.Kind, e.Err, e.Text)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode returns nil for blank text, the decoded JSON document otherwise.
func Decode(kind Kind, text string) (interface{}, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if err := fastjson.Validate(text); err != nil {
		return nil, &DecodeError{Kind: kind, Text: text, Err: err}
	}
	var p fastjson.Parser
	v, err := p.Parse(text)
	if err != nil {
		return nil, &DecodeError{Kind: kind, Text: text, Err: err}
	}
	out, err := native(v)
	if err != nil {
		return nil, &DecodeError{Kind: kind, Text: text, Err: err}
	}
	return out, nil
}

// native copies a fastjson value into Go values. The parser owns v, so nothing
// from it may escape.
func native(v *fastjson.Value) (interface{}, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil, nil
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case fastjson.TypeNumber:
		raw := v.String()
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("number %s is out of range", raw)
		}
		return f, nil
	case fastjson.TypeArray:
		items, err := v.Array()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			x, err := native(item)
			if err != nil {
				return nil, err
			}
			out = append(out, x)
		}
		return out, nil
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nil, err
		}
		out := make(map[string]interface{}, obj.Len())
		var visitErr error
		obj.Visit(func(key []byte, item *fastjson.Value) {
			if visitErr != nil {
				return
			}
			x, err := native(item)
			if err != nil {
				visitErr = err
				return
			}
			out[string(key)] = x
		})
		if visitErr != nil {
			return nil, visitErr
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported json type %s", v.Type())
}

// text extracts the textual form of a driver value.
func text(v interface{}) (string, bool, error) {
	switch s := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return s, true, nil
	case []byte:
		return string(s), true, nil
	}
	return "", false, fmt.Errorf("expected text value, got %T", v)
}
