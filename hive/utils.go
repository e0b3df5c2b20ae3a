package hive2

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/beltran/gohive/hiveserver"
)

const (
	urlPrefix   = "hive2://"
	jdbcPrefix  = "jdbc:"
	defaultPort = "10000"

	defaultZooKeeperPort = "2181"

	hiveConfPrefix = "hiveconf:"
	hiveVarPrefix  = "hivevar:"
)

// Session variable keys read by the driver.
const (
	SessAuth                 = "auth"
	SessUser                 = "user"
	SessPassword             = "password"
	SessPrincipal            = "principal"
	SessTransportMode        = "transportMode"
	SessHTTPPath             = "httpPath"
	SessSSL                  = "ssl"
	SessTrustStore           = "sslTrustStore"
	SessTrustStorePassword   = "trustStorePassword"
	SessInitFile             = "initFile"
	SessServiceDiscoveryMode = "serviceDiscoveryMode"
	SessZooKeeperNamespace   = "zooKeeperNamespace"
	SessFetchSize            = "fetchSize"
	SessProxyUser            = "hive.server2.proxy.user"
)

func verifySuccess(p *hiveserver.TStatus, withInfo bool) bool {
	status := p.GetStatusCode()
	return status == hiveserver.TStatusCode_SUCCESS_STATUS || (withInfo && status == hiveserver.TStatusCode_SUCCESS_WITH_INFO_STATUS)
}

func verifySuccessWithInfo(p *hiveserver.TStatus) bool {
	return verifySuccess(p, true)
}

// ServerError is a non-success status returned by HiveServer2.
type ServerError struct {
	Status *hiveserver.TStatus
}

func (e *ServerError) Error() string {
	msg := e.Status.GetErrorMessage()
	if msg == "" {
		msg = e.Status.String()
	}
	if state := e.Status.GetSqlState(); state != "" {
		return fmt.Sprintf("error from server (%s, code %d): %s", state, e.Status.GetErrorCode(), msg)
	}
	return "error from server: " + msg
}

// ConnParams is the parsed form of a HiveServer2 connection string.
type ConnParams struct {
	DBName        string
	JdbcUriString string
	Addresses     []string
	HiveConf      map[string]string
	HiveVar       map[string]string
	SessionVar    map[string]string
}

var pairPattern = regexp.MustCompile("([^;]*)=([^;]*)[;]?")

// ParseUrl parses [jdbc:]hive2://host1[:port1][,host2[:port2]]/db;sess=v?conf=v#var=v.
// Values are taken literally; none of the parts is unescaped.
func ParseUrl(uri string) (*ConnParams, error) {
	p := &ConnParams{
		DBName:        "default",
		JdbcUriString: uri,
		SessionVar:    map[string]string{},
		HiveVar:       map[string]string{},
		HiveConf:      map[string]string{},
	}
	uri = strings.TrimPrefix(uri, jdbcPrefix)
	if !strings.HasPrefix(uri, urlPrefix) {
		return nil, fmt.Errorf("bad URL format: missing prefix %s", urlPrefix)
	}
	rest := uri[len(urlPrefix):]

	if i := strings.Index(rest, "#"); i >= 0 {
		addPairs(p.HiveVar, rest[i+1:])
		rest = rest[:i]
	}
	if i := strings.Index(rest, "?"); i >= 0 {
		addPairs(p.HiveConf, rest[i+1:])
		rest = rest[:i]
	}

	authority, sessVars := rest, ""
	if i := strings.Index(rest, "/"); i >= 0 {
		authority, sessVars = rest[:i], rest[i+1:]
	}
	if authority == "" {
		return nil, errors.New("bad URL format: missing host")
	}

	if sessVars != "" {
		if !strings.Contains(sessVars, ";") {
			p.DBName = sessVars
		} else {
			// we have dbname followed by session parameters
			p.DBName = sessVars[:strings.Index(sessVars, ";")]
			addPairs(p.SessionVar, sessVars[strings.Index(sessVars, ";")+1:])
		}
		if p.DBName == "" {
			p.DBName = "default"
		}
	}

	port := defaultPort
	if p.usesZooKeeper() {
		port = defaultZooKeeperPort
	}
	for _, host := range strings.Split(authority, ",") {
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(host); err != nil {
			host = net.JoinHostPort(host, port)
		}
		p.Addresses = append(p.Addresses, host)
	}
	if len(p.Addresses) == 0 {
		return nil, errors.New("bad URL format: missing host")
	}
	return p, nil
}

func addPairs(dst map[string]string, s string) {
	for _, m := range pairPattern.FindAllStringSubmatch(s, -1) {
		dst[m[1]] = m[2]
	}
}

// MergeInfo copies connection properties into the parsed URL. Keys already set by
// the URL win; hiveconf: and hivevar: prefixed keys go to the conf and var maps.
func (p *ConnParams) MergeInfo(info map[string]string) {
	for k, v := range info {
		var dst map[string]string
		switch {
		case strings.HasPrefix(k, hiveConfPrefix):
			dst, k = p.HiveConf, strings.TrimPrefix(k, hiveConfPrefix)
		case strings.HasPrefix(k, hiveVarPrefix):
			dst, k = p.HiveVar, strings.TrimPrefix(k, hiveVarPrefix)
		default:
			dst = p.SessionVar
		}
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// Redacted returns the session variables with secrets masked.
func (p *ConnParams) Redacted() map[string]string {
	out := make(map[string]string, len(p.SessionVar))
	for k, v := range p.SessionVar {
		if k == SessPassword || k == SessTrustStorePassword {
			v = "****"
		}
		out[k] = v
	}
	return out
}

func (p *ConnParams) isHTTP() bool {
	return strings.EqualFold(p.SessionVar[SessTransportMode], "http")
}

func (p *ConnParams) isSSL() bool {
	return strings.EqualFold(p.SessionVar[SessSSL], "true")
}

func (p *ConnParams) usesZooKeeper() bool {
	return strings.EqualFold(p.SessionVar[SessServiceDiscoveryMode], "zooKeeper")
}

func (p *ConnParams) isNoSasl() bool {
	return strings.EqualFold(p.SessionVar[SessAuth], "noSasl")
}
