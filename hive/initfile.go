package hive2

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// parseInitFile splits an init script into statements. Lines starting with
// "--" are comments; statements end with ';'.
func parseInitFile(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	var stmts []string
	for _, stmt := range strings.Split(strings.Join(lines, " "), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

func (hc *hiveConn) runInitFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("init file: %w", err)
	}
	defer f.Close()
	stmts, err := parseInitFile(f)
	if err != nil {
		return fmt.Errorf("init file %s: %w", path, err)
	}
	for _, stmt := range stmts {
		if _, err := hc.ExecContext(ctx, stmt, nil); err != nil {
			return fmt.Errorf("init file %s: %q: %w", path, stmt, err)
		}
	}
	logger.WithContext(ctx).Debugf("ran %d statements from %s", len(stmts), path)
	return nil
}
