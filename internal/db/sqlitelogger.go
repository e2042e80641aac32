package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// loggingConnector opens sqlite3 connections whose statements are logged at
// debug level with their arguments and duration.
type loggingConnector struct {
	dsn    string
	logger *slog.Logger
	driver *sqlite3.SQLiteDriver
}

type loggingConn struct {
	driver.Conn
	logger *slog.Logger
}

type loggingStmt struct {
	driver.Stmt
	query  string
	logger *slog.Logger
}

// NewLoggingConnector returns a driver.Connector for sql.OpenDB. A nil logger
// means slog.Default().
func NewLoggingConnector(dsn string, logger *slog.Logger) (driver.Connector, error) {
	if dsn == "" {
		return nil, errors.New("sqlite dsn is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingConnector{dsn: dsn, logger: logger, driver: &sqlite3.SQLiteDriver{}}, nil
}

func (c *loggingConnector) Driver() driver.Driver { return c.driver }

func (c *loggingConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.driver.Open(c.dsn)
	if err != nil {
		return nil, err
	}
	return &loggingConn{Conn: conn, logger: c.logger}, nil
}

func (c *loggingConn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *loggingConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	var (
		stmt driver.Stmt
		err  error
	)
	if prep, ok := c.Conn.(driver.ConnPrepareContext); ok {
		stmt, err = prep.PrepareContext(ctx, query)
	} else {
		stmt, err = c.Conn.Prepare(query)
	}
	if err != nil {
		return nil, err
	}
	return &loggingStmt{Stmt: stmt, query: query, logger: c.logger}, nil
}

func (c *loggingConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if beginTx, ok := c.Conn.(driver.ConnBeginTx); ok {
		return beginTx.BeginTx(ctx, opts)
	}
	//nolint:staticcheck // SA1019 – fallback when the conn has no BeginTx
	return c.Conn.Begin()
}

// ExecContext runs the whole statement list through the underlying conn;
// prepared statements would stop after the first statement.
func (c *loggingConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := c.Conn.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	start := time.Now()
	res, err := execer.ExecContext(ctx, query, args)
	logSQL(c.logger, "exec", query, args, start, err)
	return res, err
}

func (c *loggingConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := c.Conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	start := time.Now()
	rows, err := queryer.QueryContext(ctx, query, args)
	logSQL(c.logger, "query", query, args, start, err)
	return rows, err
}

func (s *loggingStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	var (
		res driver.Result
		err error
	)
	if execCtx, ok := s.Stmt.(driver.StmtExecContext); ok {
		res, err = execCtx.ExecContext(ctx, args)
	} else {
		//nolint:staticcheck // SA1019 – fallback when the stmt has no ExecContext
		res, err = s.Stmt.Exec(namedValuesToValues(args))
	}
	logSQL(s.logger, "exec", s.query, args, start, err)
	return res, err
}

func (s *loggingStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	start := time.Now()
	var (
		rows driver.Rows
		err  error
	)
	if queryCtx, ok := s.Stmt.(driver.StmtQueryContext); ok {
		rows, err = queryCtx.QueryContext(ctx, args)
	} else {
		//nolint:staticcheck // SA1019 – fallback when the stmt has no QueryContext
		rows, err = s.Stmt.Query(namedValuesToValues(args))
	}
	logSQL(s.logger, "query", s.query, args, start, err)
	return rows, err
}

func logSQL(logger *slog.Logger, op, query string, args []driver.NamedValue, start time.Time, err error) {
	attrs := []any{
		"op", op,
		"sql", query,
		"args", formatArgs(args),
		"duration", time.Since(start),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	logger.Debug("sql", attrs...)
}

func namedValuesToValues(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i := range args {
		out[i] = args[i].Value
	}
	return out
}

func formatArgs(args []driver.NamedValue) []string {
	out := make([]string, len(args))
	for i, a := range args {
		v := formatArg(a.Value)
		if a.Name != "" {
			v = a.Name + "=" + v
		}
		out[i] = v
	}
	return out
}

func formatArg(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
