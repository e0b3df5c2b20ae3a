package hive2

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/beltran/gohive/hiveserver"
)

// ErrNoTransactions is returned by Begin; HiveServer2 sessions have no client transactions.
var ErrNoTransactions = errors.New("hive2: transactions are not supported")

type hiveConn struct {
	transport  thrift.TTransport
	client     *hiveserver.TCLIServiceClient
	sessHandle *hiveserver.TSessionHandle
	protocol   hiveserver.TProtocolVersion
	fetchSize  int64
	params     *ConnParams
	hostPort   string
	closed     bool
}

func (hc *hiveConn) Prepare(query string) (driver.Stmt, error) {
	return hc.PrepareContext(context.Background(), query)
}

func (hc *hiveConn) PrepareContext(_ context.Context, query string) (driver.Stmt, error) {
	if hc.closed {
		return nil, driver.ErrBadConn
	}
	return &hiveStmt{
		hc:  hc,
		sql: query,
	}, nil
}

func (hc *hiveConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	stmt, err := hc.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.(*hiveStmt).QueryContext(ctx, args)
}

func (hc *hiveConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	stmt, err := hc.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.(*hiveStmt).ExecContext(ctx, args)
}

// Ping asks the server for its name, which needs a live session.
func (hc *hiveConn) Ping(ctx context.Context) error {
	if hc.closed {
		return driver.ErrBadConn
	}
	req := hiveserver.NewTGetInfoReq()
	req.SessionHandle = hc.sessHandle
	req.InfoType = hiveserver.TGetInfoType_CLI_SERVER_NAME
	resp, err := hc.client.GetInfo(ctx, req)
	if err != nil {
		return driver.ErrBadConn
	}
	if !verifySuccessWithInfo(resp.GetStatus()) {
		return &ServerError{Status: resp.Status}
	}
	return nil
}

func (hc *hiveConn) Close() error {
	if hc.closed {
		return nil
	}
	hc.closed = true
	closeReq := hiveserver.NewTCloseSessionReq()
	closeReq.SessionHandle = hc.sessHandle
	_, err := hc.client.CloseSession(context.Background(), closeReq)
	if hc.transport != nil {
		if cerr := hc.transport.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing transport to %s: %w", hc.hostPort, cerr)
		}
	}
	return err
}

func (hc *hiveConn) Begin() (driver.Tx, error) {
	return nil, ErrNoTransactions
}

func (hc *hiveConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return nil, ErrNoTransactions
}

var (
	_ driver.Conn               = (*hiveConn)(nil)
	_ driver.ConnPrepareContext = (*hiveConn)(nil)
	_ driver.QueryerContext     = (*hiveConn)(nil)
	_ driver.ExecerContext      = (*hiveConn)(nil)
	_ driver.Pinger             = (*hiveConn)(nil)
	_ driver.ConnBeginTx        = (*hiveConn)(nil)
)
