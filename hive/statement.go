package hive2

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/beltran/gohive/hiveserver"
)

const (
	minPollInterval = 10 * time.Millisecond
	maxPollInterval = 500 * time.Millisecond
)

type hiveStmt struct {
	hc         *hiveConn
	sql        string
	stmtHandle *hiveserver.TOperationHandle

	isQueryClosed, isOperationComplete bool
}

func (hs *hiveStmt) closeClientOperation() error {
	if hs.stmtHandle != nil {
		closeReq := hiveserver.NewTCloseOperationReq()
		closeReq.OperationHandle = hs.stmtHandle
		closeResp, err := hs.hc.client.CloseOperation(context.Background(), closeReq)
		if err != nil {
			return err
		}
		if !verifySuccessWithInfo(closeResp.GetStatus()) {
			return &ServerError{Status: closeResp.Status}
		}
	}
	hs.isQueryClosed = true
	hs.stmtHandle = nil
	return nil
}

func (hs *hiveStmt) Close() error {
	return hs.closeClientOperation()
}

func (hs *hiveStmt) runAsyncOnServer(ctx context.Context, sql string) error {
	if err := hs.closeClientOperation(); err != nil {
		return err
	}
	hs.isQueryClosed = false
	hs.isOperationComplete = false

	execReq := hiveserver.NewTExecuteStatementReq()
	execReq.SessionHandle = hs.hc.sessHandle
	execReq.Statement = sql
	execReq.RunAsync = true
	logger.WithContext(ctx).Debugf("executing on %s: %s", hs.hc.hostPort, sql)
	execResp, err := hs.hc.client.ExecuteStatement(ctx, execReq)
	if err != nil {
		return err
	}
	if !verifySuccessWithInfo(execResp.GetStatus()) {
		return &ServerError{Status: execResp.Status}
	}
	hs.stmtHandle = execResp.OperationHandle
	return nil
}

func (hs *hiveStmt) cancel() {
	if hs.stmtHandle == nil {
		return
	}
	req := hiveserver.NewTCancelOperationReq()
	req.OperationHandle = hs.stmtHandle
	if _, err := hs.hc.client.CancelOperation(context.Background(), req); err != nil {
		logger.Warnf("cancel operation on %s: %v", hs.hc.hostPort, err)
	}
}

// waitForOperationToComplete polls the operation state with backoff. The
// operation is cancelled on the server when ctx ends first.
func (hs *hiveStmt) waitForOperationToComplete(ctx context.Context) error {
	statusReq := hiveserver.NewTGetOperationStatusReq()
	statusReq.OperationHandle = hs.stmtHandle

	interval := minPollInterval
	for !hs.isOperationComplete {
		statusResp, err := hs.hc.client.GetOperationStatus(ctx, statusReq)
		if err != nil {
			if ctx.Err() != nil {
				hs.cancel()
				return ctx.Err()
			}
			return err
		}
		if !verifySuccessWithInfo(statusResp.GetStatus()) {
			return &ServerError{Status: statusResp.Status}
		}
		if statusResp.IsSetOperationState() {
			switch statusResp.GetOperationState() {
			case hiveserver.TOperationState_CLOSED_STATE, hiveserver.TOperationState_FINISHED_STATE:
				hs.isOperationComplete = true
				continue
			case hiveserver.TOperationState_CANCELED_STATE:
				return errors.New("query was cancelled")
			case hiveserver.TOperationState_TIMEDOUT_STATE:
				return errors.New("query timed out")
			case hiveserver.TOperationState_ERROR_STATE:
				return &ServerError{Status: &hiveserver.TStatus{
					StatusCode:   hiveserver.TStatusCode_ERROR_STATUS,
					ErrorMessage: statusResp.ErrorMessage,
					SqlState:     statusResp.SqlState,
					ErrorCode:    statusResp.ErrorCode,
				}}
			case hiveserver.TOperationState_UKNOWN_STATE:
				return errors.New("unknown query state (HY000)")
			}
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			hs.cancel()
			return ctx.Err()
		case <-timer.C:
		}
		if interval *= 2; interval > maxPollInterval {
			interval = maxPollInterval
		}
	}
	return nil
}

// NumInput is -1: placeholders are counted when the query is bound.
func (hs *hiveStmt) NumInput() int {
	return -1
}

func (hs *hiveStmt) Exec(args []driver.Value) (driver.Result, error) {
	return hs.ExecContext(context.Background(), valuesToNamed(args))
}

func (hs *hiveStmt) Query(args []driver.Value) (driver.Rows, error) {
	return hs.QueryContext(context.Background(), valuesToNamed(args))
}

// ExecContext runs the statement to completion and releases the operation.
func (hs *hiveStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	query, err := interpolate(hs.sql, args)
	if err != nil {
		return nil, err
	}
	if err := hs.runAsyncOnServer(ctx, query); err != nil {
		return nil, err
	}
	if err := hs.waitForOperationToComplete(ctx); err != nil {
		hs.closeClientOperation()
		return nil, err
	}
	if err := hs.closeClientOperation(); err != nil {
		return nil, err
	}
	return driver.ResultNoRows, nil
}

func (hs *hiveStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	query, err := interpolate(hs.sql, args)
	if err != nil {
		return nil, err
	}
	if err := hs.runAsyncOnServer(ctx, query); err != nil {
		return nil, err
	}
	if err := hs.waitForOperationToComplete(ctx); err != nil {
		hs.closeClientOperation()
		return nil, err
	}
	hr := &hiveRows{stmt: hs}
	if err := hr.retrieveSchema(ctx); err != nil {
		hs.closeClientOperation()
		return nil, fmt.Errorf("retrieving result schema: %w", err)
	}
	return hr, nil
}

func valuesToNamed(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return named
}

var (
	_ driver.StmtExecContext  = (*hiveStmt)(nil)
	_ driver.StmtQueryContext = (*hiveStmt)(nil)
)
