package hivejdbc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumuhhh/hivejdbc/args"
)

func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	return path
}

func validationKind(t *testing.T, err error) args.Kind {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, args.ErrValidation), err.Error())
	var ve *args.ValidationError
	require.True(t, errors.As(err, &ve))
	return ve.Kind
}

func TestOptionsRequireHostAndDatabase(t *testing.T) {
	for _, tt := range []struct {
		name       string
		positional []interface{}
		named      Arguments
	}{
		{"nothing", nil, nil},
		{"host only", []interface{}{"example.com"}, nil},
		{"database only", nil, Arguments{"database": "example"}},
		{"empty host", []interface{}{"", "example"}, nil},
		{"host with other options", []interface{}{"example.com"}, Arguments{"port": 10001, "user": "u"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Options().Resolve(tt.positional, tt.named)
			assert.Equal(t, args.MissingRequired, validationKind(t, err))
		})
	}
}

func TestOptionsPositionalDefaults(t *testing.T) {
	r, err := Options().Resolve([]interface{}{"example.com", "example"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "example.com", r.GetString(ArgHost))
	assert.Equal(t, "example", r.GetString(ArgDatabase))
	assert.Equal(t, 10000, r.GetInt(ArgPort))
	assert.Equal(t, map[string]interface{}{}, r.GetMap(ArgProperties))
	assert.False(t, r.Has(ArgTransport))
}

func TestOptionsTrustStoreNeedsSSL(t *testing.T) {
	store := tempFile(t, "truststore.jks")

	_, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{"trust_store": store})
	assert.Equal(t, args.MissingDependency, validationKind(t, err))

	_, err = Options().Resolve([]interface{}{"h", "d"}, Arguments{"trust_password": "secret"})
	assert.Equal(t, args.MissingDependency, validationKind(t, err))

	_, err = Options().Resolve([]interface{}{"h", "d"}, Arguments{"trust_store": store, "trust_password": "secret"})
	assert.Equal(t, args.MissingDependency, validationKind(t, err))

	r, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{
		"ssl":            true,
		"trust_store":    store,
		"trust_password": "secret",
	})
	require.NoError(t, err)
	assert.True(t, r.GetBool(ArgSSL))
	assert.Equal(t, store, r.GetString(ArgTrustStore))
	assert.Equal(t, "secret", r.GetString(ArgTrustPassword))
	assert.Equal(t, "****", r.Redacted()[ArgTrustPassword])
}

func TestOptionsTrustStoreWithStringSSL(t *testing.T) {
	store := tempFile(t, "truststore.jks")

	_, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{
		"ssl":            "false",
		"trust_store":    store,
		"trust_password": "secret",
	})
	assert.Equal(t, args.MissingDependency, validationKind(t, err))

	r, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{
		"ssl":            "true",
		"trust_store":    store,
		"trust_password": "secret",
	})
	require.NoError(t, err)
	assert.True(t, r.GetBool(ArgSSL))
	assert.Contains(t, BuildConnectionString(r), ";ssl=true;sslTrustStore=")
}

func TestOptionsPrincipalAlone(t *testing.T) {
	r, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{"principal": "hive"})
	require.NoError(t, err)
	assert.Equal(t, "hive", r.GetString(ArgPrincipal))
}

func TestOptionsPrincipalExcludesPassword(t *testing.T) {
	_, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{
		"principal": "hive",
		"user":      "u",
		"password":  "p",
	})
	assert.Equal(t, args.MutuallyExclusive, validationKind(t, err))
}

func TestOptionsPrincipalExcludesUser(t *testing.T) {
	_, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{"principal": "hive", "user": "u"})
	assert.Equal(t, args.MutuallyExclusive, validationKind(t, err))

	opt, ok := Options().Lookup(ArgPrincipal)
	require.True(t, ok)
	assert.Contains(t, opt.Description, "user or password")
}

func TestOptionsAllFields(t *testing.T) {
	keytab := tempFile(t, "user.keytab")
	store := tempFile(t, "truststore.jks")
	in := Arguments{
		"principal":              "hive/_HOST@EXAMPLE.COM",
		"user_principal":         "etl@EXAMPLE.COM",
		"user_keytab":            keytab,
		"kdc":                    "example.com:88",
		"realm":                  "EXAMPLE.COM",
		"ssl":                    true,
		"trust_store":            store,
		"trust_password":         "secret",
		"properties":             map[string]interface{}{"a": 1},
		"transport":              "binary",
		"init_file":              "script.hsql",
		"service_discovery_mode": "zooKeeper",
		"zookeeper_namespace":    "hive",
	}
	r, err := Options().Resolve([]interface{}{"example.com", "example"}, in)
	require.NoError(t, err)
	for name, want := range in {
		got, ok := r.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestOptionsKDCPattern(t *testing.T) {
	keytab := tempFile(t, "user.keytab")
	for _, kdc := range []string{"example.com", "example.com:port", "example.com:88:99", ":88", "example.com:"} {
		_, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{
			"principal":      "hive",
			"user_principal": "etl",
			"user_keytab":    keytab,
			"kdc":            kdc,
		})
		assert.Equal(t, args.InvalidValue, validationKind(t, err), kdc)
	}
}

func TestOptionsValidators(t *testing.T) {
	for _, tt := range []struct {
		name  string
		named Arguments
		kind  args.Kind
	}{
		{"port out of range", Arguments{"port": 70000}, args.InvalidValue},
		{"port not a number", Arguments{"port": "ten"}, args.InvalidType},
		{"unknown driver", Arguments{"driver": "odbc"}, args.InvalidValue},
		{"cursor not a factory", Arguments{"cursor": "dict"}, args.InvalidValue},
		{"bad transport", Arguments{"transport": "websocket"}, args.InvalidChoice},
		{"bad discovery mode", Arguments{"service_discovery_mode": "etcd", "zookeeper_namespace": "hive"}, args.InvalidChoice},
		{"namespace alone", Arguments{"zookeeper_namespace": "hive"}, args.MissingDependency},
		{"password without user", Arguments{"password": "p"}, args.MissingDependency},
		{"missing keytab file", Arguments{"principal": "hive", "user_principal": "etl", "user_keytab": "/nonexistent/keytab"}, args.InvalidValue},
		{"krb5 conf without principal", Arguments{"krb5_conf": "/etc/krb5.conf"}, args.MissingDependency},
		{"non string hive conf", Arguments{"hive_conf_list": map[string]interface{}{"a": 1}}, args.InvalidValue},
		{"unknown argument", Arguments{"username": "u"}, args.UnknownOption},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Options().Resolve([]interface{}{"h", "d"}, tt.named)
			assert.Equal(t, tt.kind, validationKind(t, err))
		})
	}
}

func TestOptionsCursor(t *testing.T) {
	r, err := Options().Resolve([]interface{}{"h", "d"}, Arguments{"cursor": NewDictCursor})
	require.NoError(t, err)
	v, ok := r.Get(ArgCursor)
	require.True(t, ok)
	_, ok = v.(CursorFactory)
	assert.True(t, ok)
}
