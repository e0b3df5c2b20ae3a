package hivejdbc

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mumuhhh/hivejdbc/args"
)

// BuildConnectionString assembles the hive2 connection string for r. Segments
// follow the order the driver expects: base URL, initFile, credentials,
// transport, TLS, principal, HTTP path and service discovery. Values are not
// escaped; a value containing ';' produces a malformed string.
func BuildConnectionString(r *args.Resolved) string {
	segments := []string{fmt.Sprintf("jdbc:hive2://%s:%d/%s",
		r.GetString(ArgHost), r.GetInt(ArgPort), r.GetString(ArgDatabase))}
	add := func(key, arg string) {
		if r.Has(arg) {
			segments = append(segments, key+"="+r.GetString(arg))
		}
	}

	// initFile must be the first session variable.
	add("initFile", ArgInitFile)
	add("user", ArgUser)
	add("password", ArgPassword)
	add("transportMode", ArgTransport)
	if r.GetBool(ArgSSL) {
		segments = append(segments, "ssl=true")
	}
	add("sslTrustStore", ArgTrustStore)
	add("trustStorePassword", ArgTrustPassword)
	add("principal", ArgPrincipal)
	if r.GetString(ArgTransport) == "http" {
		add("httpPath", ArgHTTPPath)
	}
	if r.Has(ArgServiceDiscoveryMode) {
		segments = append(segments,
			"serviceDiscoveryMode="+r.GetString(ArgServiceDiscoveryMode),
			"zooKeeperNamespace="+r.GetString(ArgZooKeeperNamespace))
	}

	s := strings.Join(segments, ";")
	if conf := stringMap(r, ArgHiveConfList); len(conf) > 0 {
		s += "?" + joinPairs(conf)
	}
	if vars := stringMap(r, ArgHiveVarList); len(vars) > 0 {
		s += "#" + joinPairs(vars)
	}
	return s
}

func stringMap(r *args.Resolved, name string) map[string]string {
	v, _ := r.Get(name)
	m, _ := v.(map[string]string)
	return m
}

func joinPairs(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m[k]
	}
	return strings.Join(pairs, ";")
}

var secretSegment = regexp.MustCompile(`(^|;)((?:password|trustStorePassword)=)[^;?#]*`)

// RedactConnectionString masks the password and trustStorePassword values.
func RedactConnectionString(s string) string {
	return secretSegment.ReplaceAllString(s, "${1}${2}****")
}
