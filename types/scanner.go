package types

import (
	"database/sql"
	"fmt"
)

// ArrayValue scans an ARRAY column through database/sql.
type ArrayValue []interface{}

func (a *ArrayValue) Scan(src interface{}) error {
	v, err := scanJSON(Array, src)
	if err != nil || v == nil {
		*a = nil
		return err
	}
	list, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("ARRAY column holds %T", v)
	}
	*a = list
	return nil
}

// MapValue scans a MAP column through database/sql.
type MapValue map[string]interface{}

func (m *MapValue) Scan(src interface{}) error {
	v, err := scanJSON(Map, src)
	if err != nil || v == nil {
		*m = nil
		return err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return fmt.Errorf("MAP column holds %T", v)
	}
	*m = obj
	return nil
}

// StructValue scans a STRUCT column through database/sql.
type StructValue map[string]interface{}

func (s *StructValue) Scan(src interface{}) error {
	v, err := scanJSON(Struct, src)
	if err != nil || v == nil {
		*s = nil
		return err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return fmt.Errorf("STRUCT column holds %T", v)
	}
	*s = obj
	return nil
}

func scanJSON(kind Kind, src interface{}) (interface{}, error) {
	switch x := src.(type) {
	case []interface{}, map[string]interface{}:
		return x, nil
	}
	s, ok, err := text(src)
	if err != nil || !ok {
		return nil, err
	}
	return Decode(kind, s)
}

var (
	_ sql.Scanner = (*ArrayValue)(nil)
	_ sql.Scanner = (*MapValue)(nil)
	_ sql.Scanner = (*StructValue)(nil)
)
