package hivejdbc

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnv replaces ${VAR} with the value of the environment variable VAR.
// Unset variables expand to the empty string.
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// LoadArguments reads named connection arguments from a YAML file. ${VAR}
// references are expanded from the environment before parsing.
//
//	host: hs2.example.com
//	database: sales
//	user: etl
//	password: ${HIVE_PASSWORD}
//	properties:
//	  hive.exec.parallel: "true"
func LoadArguments(path string) (Arguments, error) {
	// #nosec G304 -- path is caller supplied configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading arguments file: %w", err)
	}
	var a Arguments
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &a); err != nil {
		return nil, fmt.Errorf("parsing arguments file %s: %w", path, err)
	}
	if a == nil {
		a = Arguments{}
	}
	return a, nil
}
