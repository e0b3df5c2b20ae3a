package hive2

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/apache/thrift/lib/go/thrift"
	krb "github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/spnego"

	saslgsskerb "github.com/mumuhhh/hivejdbc/sasl/gsskerb"
	saslplain "github.com/mumuhhh/hivejdbc/sasl/plain"
)

const (
	defaultHTTPPath = "cliservice"
	anonymous       = "anonymous"
)

func (c *connector) tlsConfig(host string) (*tls.Config, error) {
	conf := &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	if path := c.params.SessionVar[SessTrustStore]; path != "" {
		pool, err := loadTrustStore(path, c.params.SessionVar[SessTrustStorePassword])
		if err != nil {
			return nil, err
		}
		conf.RootCAs = pool
	}
	return conf, nil
}

func (c *connector) openTransport(ctx context.Context, hostPort string) (thrift.TTransport, error) {
	if c.params.isHTTP() {
		return c.openHTTPTransport(ctx, hostPort)
	}
	return c.openBinaryTransport(ctx, hostPort)
}

func (c *connector) openBinaryTransport(ctx context.Context, hostPort string) (thrift.TTransport, error) {
	host, _, err := net.SplitHostPort(hostPort)
	if err != nil {
		return nil, err
	}
	conf := &thrift.TConfiguration{}
	var transport thrift.TTransport
	if c.params.isSSL() {
		if conf.TLSConfig, err = c.tlsConfig(host); err != nil {
			return nil, err
		}
		transport = thrift.NewTSSLSocketConf(hostPort, conf)
	} else {
		transport = thrift.NewTSocketConf(hostPort, conf)
	}

	if c.params.isNoSasl() {
		transport = thrift.NewTBufferedTransport(transport, 4096)
	} else if principal := c.params.SessionVar[SessPrincipal]; principal != "" {
		krbClient, err := kerberosClient(c.runtime)
		if err != nil {
			return nil, err
		}
		service, instance := servicePrincipal(principal, host)
		logger.WithContext(ctx).Debugf("GSSAPI authentication as %s for %s/%s", krbClient.Credentials.CName().PrincipalNameString(), service, instance)
		saslClient := saslgsskerb.NewGssKerbClient("", service, instance, krbClient)
		transport = newSaslTransport(ctx, transport, saslClient)
	} else {
		username := c.params.SessionVar[SessUser]
		if username == "" {
			username = anonymous
		}
		password := c.params.SessionVar[SessPassword]
		if password == "" {
			password = anonymous
		}
		saslClient := saslplain.NewPlainClient("", username, password)
		transport = newSaslTransport(ctx, transport, saslClient)
	}

	if err := transport.Open(); err != nil {
		return nil, err
	}
	return transport, nil
}

func (c *connector) openHTTPTransport(ctx context.Context, hostPort string) (thrift.TTransport, error) {
	host, _, err := net.SplitHostPort(hostPort)
	if err != nil {
		return nil, err
	}
	scheme := "http"
	base := http.DefaultTransport.(*http.Transport).Clone()
	if c.params.isSSL() {
		scheme = "https"
		if base.TLSClientConfig, err = c.tlsConfig(host); err != nil {
			return nil, err
		}
	}
	path := strings.TrimPrefix(c.params.SessionVar[SessHTTPPath], "/")
	if path == "" {
		path = defaultHTTPPath
	}
	endpoint := fmt.Sprintf("%s://%s/%s", scheme, hostPort, path)

	auth := &authRoundTripper{base: base}
	if principal := c.params.SessionVar[SessPrincipal]; principal != "" {
		if auth.krbClient, err = kerberosClient(c.runtime); err != nil {
			return nil, err
		}
		service, instance := servicePrincipal(principal, host)
		auth.spn = service + "/" + instance
	} else if !c.params.isNoSasl() {
		auth.user = c.params.SessionVar[SessUser]
		if auth.user == "" {
			auth.user = anonymous
		}
		auth.password = c.params.SessionVar[SessPassword]
		if auth.password == "" {
			auth.password = anonymous
		}
	}

	transport, err := thrift.NewTHttpClientWithOptions(endpoint, thrift.THttpClientOptions{
		Client: &http.Client{Transport: auth},
	})
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Debugf("using HTTP transport %s", endpoint)
	if err := transport.Open(); err != nil {
		return nil, err
	}
	return transport, nil
}

// authRoundTripper adds SPNEGO or basic credentials to every Thrift request.
type authRoundTripper struct {
	base      http.RoundTripper
	user      string
	password  string
	krbClient *krb.Client
	spn       string
}

func (rt *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	switch {
	case rt.krbClient != nil:
		if err := spnego.SetSPNEGOHeader(rt.krbClient, req, rt.spn); err != nil {
			return nil, err
		}
	case rt.user != "":
		req.SetBasicAuth(rt.user, rt.password)
	}
	return rt.base.RoundTrip(req)
}
