package hivejdbc

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/mumuhhh/hivejdbc/args"
)

// Argument names accepted by Connect.
const (
	ArgHost                 = "host"
	ArgDatabase             = "database"
	ArgPort                 = "port"
	ArgDriver               = "driver"
	ArgCursor               = "cursor"
	ArgSSL                  = "ssl"
	ArgTrustStore           = "trust_store"
	ArgTrustPassword        = "trust_password"
	ArgUser                 = "user"
	ArgPassword             = "password"
	ArgPrincipal            = "principal"
	ArgUserPrincipal        = "user_principal"
	ArgUserKeytab           = "user_keytab"
	ArgKrb5Conf             = "krb5_conf"
	ArgKDC                  = "kdc"
	ArgRealm                = "realm"
	ArgProperties           = "properties"
	ArgTransport            = "transport"
	ArgHTTPPath             = "http_path"
	ArgInitFile             = "init_file"
	ArgServiceDiscoveryMode = "service_discovery_mode"
	ArgZooKeeperNamespace   = "zookeeper_namespace"
	ArgHiveConfList         = "hive_conf_list"
	ArgHiveVarList          = "hive_var_list"
)

const (
	DefaultPort   = 10000
	DefaultDriver = "hive2"
)

var kdcPattern = regexp.MustCompile(`^[^:]+:[0-9]+$`)

var options = args.MustSchema(
	args.Option{Name: ArgHost, Type: args.String, Position: 1, Required: true,
		Description: "HiveServer2 host, or a comma separated list of hosts to try in order"},
	args.Option{Name: ArgDatabase, Type: args.String, Position: 2, Required: true,
		Description: "database to use, e.g. default"},
	args.Option{Name: ArgPort, Type: args.Int, Default: DefaultPort, Validate: validPort,
		Description: "HiveServer2 port"},
	args.Option{Name: ArgDriver, Type: args.String, Validate: registeredDriver,
		Description: "name of a registered driver entry point, hive2 when unset"},
	args.Option{Name: ArgCursor, Type: args.Any, Validate: cursorFactory,
		Description: "CursorFactory used by Connection.Cursor"},
	args.Option{Name: ArgSSL, Type: args.Bool,
		Description: "connect with TLS; required when the server runs with certificates"},
	args.Option{Name: ArgTrustStore, Type: args.String, Requires: []string{ArgTrustPassword, ArgSSL}, Validate: args.ExistingFile,
		Description: "JKS, PKCS#12 or PEM trust store used to verify the server"},
	args.Option{Name: ArgTrustPassword, Type: args.String, Secret: true, Requires: []string{ArgTrustStore, ArgSSL}},
	args.Option{Name: ArgUser, Type: args.String,
		Description: "user name for user/password authentication"},
	args.Option{Name: ArgPassword, Type: args.String, Secret: true, Requires: []string{ArgUser}},
	args.Option{Name: ArgPrincipal, Type: args.String, Excludes: []string{ArgUser, ArgPassword},
		Description: "HiveServer2 service principal, e.g. hive/_HOST@EXAMPLE.COM; cannot be combined with user or password"},
	args.Option{Name: ArgUserPrincipal, Type: args.String, Requires: []string{ArgUserKeytab},
		Description: "Kerberos principal to log in as with user_keytab"},
	args.Option{Name: ArgUserKeytab, Type: args.String, Requires: []string{ArgPrincipal, ArgUserPrincipal}, Validate: args.ExistingFile,
		Description: "keytab to log in with instead of an existing ticket cache"},
	args.Option{Name: ArgKrb5Conf, Type: args.String, Requires: []string{ArgPrincipal}, Validate: args.ExistingFile,
		Description: "krb5.conf path; KRB5_CONFIG or the platform default otherwise"},
	args.Option{Name: ArgKDC, Type: args.String, Requires: []string{ArgPrincipal, ArgUserPrincipal, ArgUserKeytab}, Validate: validKDC,
		Description: "Kerberos KDC as host:port"},
	args.Option{Name: ArgRealm, Type: args.String, Requires: []string{ArgPrincipal, ArgUserKeytab, ArgKDC},
		Description: "Kerberos realm; taken from the principal when kdc is set without it"},
	args.Option{Name: ArgProperties, Type: args.Map, Default: map[string]interface{}{},
		Description: "properties passed to the driver entry point"},
	args.Option{Name: ArgTransport, Type: args.String, Choices: []interface{}{"binary", "http"},
		Description: "Thrift transport mode"},
	args.Option{Name: ArgHTTPPath, Type: args.String,
		Description: "HTTP endpoint path when transport is http"},
	args.Option{Name: ArgInitFile, Type: args.String,
		Description: "script of statements run after the session opens"},
	args.Option{Name: ArgServiceDiscoveryMode, Type: args.String, Choices: []interface{}{"zooKeeper"}, Requires: []string{ArgZooKeeperNamespace},
		Description: "set to zooKeeper to treat host as the ZooKeeper quorum"},
	args.Option{Name: ArgZooKeeperNamespace, Type: args.String, Requires: []string{ArgServiceDiscoveryMode}},
	args.Option{Name: ArgHiveConfList, Type: args.Map, Validate: stringValues,
		Description: "Hive configuration for the session"},
	args.Option{Name: ArgHiveVarList, Type: args.Map, Validate: stringValues,
		Description: "Hive variables for the session"},
)

// Options returns the connection argument schema.
func Options() *args.Schema {
	return options
}

func validPort(v interface{}) (interface{}, error) {
	port := v.(int)
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

func validKDC(v interface{}) (interface{}, error) {
	kdc := v.(string)
	if !kdcPattern.MatchString(kdc) {
		return nil, fmt.Errorf("kdc must contain a host and numerical port separated by \":\", kdc invalid: %s", kdc)
	}
	return kdc, nil
}

func registeredDriver(v interface{}) (interface{}, error) {
	name := v.(string)
	if _, ok := lookupDriver(name); !ok {
		return nil, fmt.Errorf("no driver registered as %q, have %v", name, Drivers())
	}
	return name, nil
}

func cursorFactory(v interface{}) (interface{}, error) {
	switch f := v.(type) {
	case CursorFactory:
		return f, nil
	case func(*Connection) RowCursor:
		return CursorFactory(f), nil
	}
	return nil, fmt.Errorf("expected a CursorFactory, got %T", v)
}

func stringValues(v interface{}) (interface{}, error) {
	m := v.(map[string]interface{})
	out := make(map[string]string, len(m))
	for k, x := range m {
		s, ok := x.(string)
		if !ok {
			return nil, fmt.Errorf("value of %q must be a string, got %T", k, x)
		}
		if k == "" {
			return nil, errors.New("empty key")
		}
		out[k] = s
	}
	return out, nil
}
