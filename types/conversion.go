package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Converter turns a raw driver value into the value handed to callers.
type Converter func(v interface{}) (interface{}, error)

// Conversion maps upper-case database type names to converters. Columns whose
// type has no entry are passed through unchanged.
type Conversion map[string]Converter

// DefaultConversion handles the Hive complex types, DECIMAL and the date types.
func DefaultConversion() Conversion {
	return Conversion{
		"ARRAY":     jsonConverter(Array),
		"MAP":       jsonConverter(Map),
		"STRUCT":    jsonConverter(Struct),
		"DECIMAL":   decimalValue,
		"DATE":      timeConverter(dateLayouts),
		"TIMESTAMP": timeConverter(timestampLayouts),
	}
}

// Convert applies the converter for typeName, if any.
func (c Conversion) Convert(typeName string, v interface{}) (interface{}, error) {
	conv, ok := c[strings.ToUpper(typeName)]
	if !ok || v == nil {
		return v, nil
	}
	return conv(v)
}

func jsonConverter(kind Kind) Converter {
	return func(v interface{}) (interface{}, error) {
		s, ok, err := text(v)
		if err != nil || !ok {
			return nil, err
		}
		return Decode(kind, s)
	}
}

func decimalValue(v interface{}) (interface{}, error) {
	switch d := v.(type) {
	case float64:
		return decimal.NewFromFloat(d), nil
	case int64:
		return decimal.NewFromInt(d), nil
	}
	s, ok, err := text(v)
	if err != nil || !ok {
		return nil, err
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid DECIMAL value %q: %w", s, err)
	}
	return d, nil
}

var (
	dateLayouts      = []string{"2006-01-02"}
	timestampLayouts = []string{"2006-01-02 15:04:05.999999999", "2006-01-02T15:04:05.999999999", "2006-01-02"}
)

func timeConverter(layouts []string) Converter {
	return func(v interface{}) (interface{}, error) {
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		s, ok, err := text(v)
		if err != nil || !ok {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid date/time value %q", s)
	}
}
