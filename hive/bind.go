package hive2

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05.999999999"

// interpolate replaces each ? outside quotes and backticks with a HiveQL
// literal for the matching argument. HiveServer2 has no server-side binding.
func interpolate(query string, args []driver.NamedValue) (string, error) {
	if len(args) == 0 {
		return query, nil
	}
	var b strings.Builder
	b.Grow(len(query) + 16*len(args))

	n := 0
	var quote rune
	escaped := false
	for _, r := range query {
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if r == '\\' {
				escaped = true
			} else if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '?':
			if n >= len(args) {
				return "", fmt.Errorf("hive2: query has more placeholders than the %d arguments given", len(args))
			}
			if args[n].Name != "" {
				return "", fmt.Errorf("hive2: named argument %q is not supported", args[n].Name)
			}
			lit, err := literal(args[n].Value)
			if err != nil {
				return "", fmt.Errorf("hive2: argument %d: %w", n+1, err)
			}
			b.WriteString(lit)
			n++
			continue
		}
		b.WriteRune(r)
	}
	if n != len(args) {
		return "", fmt.Errorf("hive2: query has %d placeholders but %d arguments were given", n, len(args))
	}
	return b.String(), nil
}

func literal(v driver.Value) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case string:
		return quoteString(v), nil
	case []byte:
		return quoteString(string(v)), nil
	case time.Time:
		return "'" + v.Format(timestampLayout) + "'", nil
	}
	return "", fmt.Errorf("unsupported type %T", v)
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\x00", `\0`)

func quoteString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}
