package hive2

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/beltran/gohive/hiveserver"

	"github.com/mumuhhh/hivejdbc/internal/sysprop"
)

const defaultFetchSize = int64(1000)

type connector struct {
	params  *ConnParams
	runtime *sysprop.Runtime
}

func (c *connector) Driver() driver.Driver {
	return &HiveDriver{Runtime: c.runtime}
}

// Connect tries each server in turn and returns the first session that opens.
func (c *connector) Connect(ctx context.Context) (driver.Conn, error) {
	addresses := c.params.Addresses
	if c.params.usesZooKeeper() {
		servers, err := discoverServers(ctx, c.params.Addresses, c.params.SessionVar[SessZooKeeperNamespace])
		if err != nil {
			return nil, err
		}
		addresses = servers
	}
	logger.WithContext(ctx).Debugf("connecting to %v with %v", addresses, c.params.Redacted())

	var errs []error
	for _, hostPort := range addresses {
		conn, err := c.connectTo(ctx, hostPort)
		if err == nil {
			return conn, nil
		}
		logger.WithContext(ctx).Warnf("could not open a session on %s: %v", hostPort, err)
		errs = append(errs, fmt.Errorf("%s: %w", hostPort, err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 1 {
		return nil, errors.Unwrap(errs[0])
	}
	return nil, errors.Join(errs...)
}

func (c *connector) connectTo(ctx context.Context, hostPort string) (*hiveConn, error) {
	fetchSize := defaultFetchSize
	if fetchSizeStr, ok := c.params.SessionVar[SessFetchSize]; ok {
		i, err := strconv.ParseInt(fetchSizeStr, 10, 64)
		if err == nil && i > 0 {
			fetchSize = i
		}
	}
	transport, err := c.openTransport(ctx, hostPort)
	if err != nil {
		return nil, err
	}

	protocol := thrift.NewTBinaryProtocolFactoryConf(&thrift.TConfiguration{})
	client := hiveserver.NewTCLIServiceClientFactory(transport, protocol)

	openResp, err := c.openSession(ctx, client)
	if err != nil {
		transport.Close()
		return nil, err
	}
	hc := &hiveConn{
		transport:  transport,
		client:     client,
		sessHandle: openResp.SessionHandle,
		protocol:   openResp.ServerProtocolVersion,
		fetchSize:  fetchSize,
		params:     c.params,
		hostPort:   hostPort,
	}
	if path := c.params.SessionVar[SessInitFile]; path != "" {
		if err := hc.runInitFile(ctx, path); err != nil {
			hc.Close()
			return nil, err
		}
	}
	return hc, nil
}

func (c *connector) openSession(ctx context.Context, client *hiveserver.TCLIServiceClient) (*hiveserver.TOpenSessionResp, error) {
	openSessionReq := hiveserver.NewTOpenSessionReq()
	openSessionReq.ClientProtocol = hiveserver.TProtocolVersion_HIVE_CLI_SERVICE_PROTOCOL_V8
	openConf := map[string]string{}
	for k, v := range c.params.HiveConf {
		openConf["set:hiveconf:"+k] = v
	}
	// For remote JDBC client, try to set the hive var using 'set hivevar:key=value'
	for k, v := range c.params.HiveVar {
		openConf["set:hivevar:"+k] = v
	}
	// switch the database
	openConf["use:database"] = c.params.DBName

	if v, ok := c.params.SessionVar[SessProxyUser]; ok {
		openConf[SessProxyUser] = v
	}
	openSessionReq.Configuration = openConf
	// Store the user name in the open request in case no non-sasl authentication
	if c.params.isNoSasl() {
		username := c.params.SessionVar[SessUser]
		if username != "" {
			openSessionReq.Username = &username
		}
		password := c.params.SessionVar[SessPassword]
		if password != "" {
			openSessionReq.Password = &password
		}
	}
	openResp, err := client.OpenSession(ctx, openSessionReq)
	if err != nil {
		return nil, err
	}

	if !verifySuccess(openResp.Status, false) {
		return nil, &ServerError{Status: openResp.Status}
	}
	return openResp, nil
}
