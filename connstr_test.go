package hivejdbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hive2 "github.com/mumuhhh/hivejdbc/hive"
)

func TestBuildConnectionStringBase(t *testing.T) {
	r := resolve(t, Arguments{"port": 10011})
	assert.Equal(t, "jdbc:hive2://example.com:10011/example", BuildConnectionString(r))
}

func TestBuildConnectionStringOrder(t *testing.T) {
	store := tempFile(t, "truststore.jks")
	r := resolve(t, Arguments{
		"zookeeper_namespace":    "hiveserver2",
		"service_discovery_mode": "zooKeeper",
		"http_path":              "cliservice",
		"transport":              "http",
		"trust_password":         "changeit",
		"trust_store":            store,
		"ssl":                    true,
		"password":               "p",
		"user":                   "u",
		"init_file":              "init.sql",
	})
	assert.Equal(t, "jdbc:hive2://example.com:10000/example;initFile=init.sql;user=u;password=p;"+
		"transportMode=http;ssl=true;sslTrustStore="+store+";trustStorePassword=changeit;"+
		"httpPath=cliservice;serviceDiscoveryMode=zooKeeper;zooKeeperNamespace=hiveserver2",
		BuildConnectionString(r))
}

func TestBuildConnectionStringSkipsInactiveOptions(t *testing.T) {
	r := resolve(t, Arguments{
		"ssl":       false,
		"http_path": "cliservice",
		"transport": "binary",
		"principal": "hive/_HOST@EXAMPLE.COM",
	})
	assert.Equal(t,
		"jdbc:hive2://example.com:10000/example;transportMode=binary;principal=hive/_HOST@EXAMPLE.COM",
		BuildConnectionString(r))
}

func TestBuildConnectionStringConfAndVars(t *testing.T) {
	r := resolve(t, Arguments{
		"user":           "u",
		"hive_conf_list": map[string]interface{}{"mapred.job.queue.name": "etl", "hive.exec.parallel": "true"},
		"hive_var_list":  map[string]string{"day": "2024-01-01"},
	})
	url := BuildConnectionString(r)
	assert.Equal(t, "jdbc:hive2://example.com:10000/example;user=u"+
		"?hive.exec.parallel=true;mapred.job.queue.name=etl#day=2024-01-01", url)

	params, err := hive2.ParseUrl(url)
	require.NoError(t, err)
	assert.Equal(t, "example", params.DBName)
	assert.Equal(t, []string{"example.com:10000"}, params.Addresses)
	assert.Equal(t, "u", params.SessionVar["user"])
	assert.Equal(t, "etl", params.HiveConf["mapred.job.queue.name"])
	assert.Equal(t, "2024-01-01", params.HiveVar["day"])
}

func TestRedactConnectionString(t *testing.T) {
	assert.Equal(t,
		"jdbc:hive2://h:1/d;user=u;password=****;ssl=true;trustStorePassword=****?a=b",
		RedactConnectionString("jdbc:hive2://h:1/d;user=u;password=p;ssl=true;trustStorePassword=changeit?a=b"))
	assert.Equal(t, "jdbc:hive2://h:1/d", RedactConnectionString("jdbc:hive2://h:1/d"))
}
