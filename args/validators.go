package args

import (
	"errors"
	"fmt"
	"os"
)

// ExistingFile accepts a string path that references a regular file.
func ExistingFile(v interface{}) (interface{}, error) {
	path, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("not a valid file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New("not a valid file")
	}
	return path, nil
}
