package connector

import (
	"context"
	stdsql "database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
	"github.com/syssam/osql/dialect/sql"
)

// idleTimeout closes the idle connection of a non-persistent connector.
const idleTimeout = 5 * time.Minute

// conn holds the state shared by every backend connector.
type conn struct {
	driverName string
	dsn        string
	persistent bool
	dialect    dialect.Dialect
	codes      codeTable
	opts       options
	log        *slog.Logger

	// setEncoding renders the statement switching the client encoding;
	// nil when the backend has none.
	setEncoding func(d dialect.Dialect, encoding string) string

	db           *stdsql.DB
	drv          dialect.Driver
	stats        *sql.StatsDriver
	lastInsertID int64
}

func newConn(driverName string, dsn func(encoding string) string, persistent bool, d dialect.Dialect, codes codeTable, opts []Option) *conn {
	o := buildOptions(opts)
	return &conn{
		driverName: driverName,
		dsn:        dsn(o.encoding),
		persistent: persistent,
		dialect:    d,
		codes:      codes,
		opts:       o,
		log:        o.logger.With("connector", uuid.NewString(), "dialect", d.Name()),
	}
}

// Connect implements Connector.
func (c *conn) Connect(ctx context.Context) error {
	if c.db != nil {
		return nil
	}
	db, err := stdsql.Open(c.driverName, c.dsn)
	if err != nil {
		return osql.NewConnectionError(c.dialect.Name(), err)
	}
	c.configure(db)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		c.log.ErrorContext(ctx, "connect failed", "error", err)
		return osql.NewConnectionError(c.dialect.Name(), err)
	}
	c.attach(db)
	c.log.InfoContext(ctx, "connected", "persistent", c.persistent)
	return nil
}

// configure applies the single-connection policy.
func (c *conn) configure(db *stdsql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if !c.persistent {
		db.SetConnMaxIdleTime(idleTimeout)
	}
}

// attach takes ownership of an open handle.
func (c *conn) attach(db *stdsql.DB) {
	var drv dialect.Driver = sql.OpenDB(c.driverName, db)
	if c.opts.stats {
		opts := append([]sql.StatsOption{sql.WithSlowQueryLog(c.log)}, c.opts.statsOpts...)
		c.stats = sql.NewStatsDriver(drv, opts...)
		drv = c.stats
	}
	if c.opts.debug {
		drv = sql.NewDebugDriver(drv, sql.DebugWithLogger(c.log))
	}
	c.db, c.drv = db, drv
}

// Disconnect implements Connector.
func (c *conn) Disconnect() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db, c.drv = nil, nil
	if err != nil {
		c.log.Warn("disconnect failed", "error", err)
		return err
	}
	c.log.Info("disconnected")
	return nil
}

// IsConnected implements Connector.
func (c *conn) IsConnected() bool {
	return c.db != nil
}

// Dialect implements Connector.
func (c *conn) Dialect() dialect.Dialect {
	return c.dialect
}

// DB returns the underlying handle, or nil when disconnected.
func (c *conn) DB() *stdsql.DB {
	return c.db
}

// Stats returns the statistics collected since connect. ok is false unless
// the connector was built with WithStats and is connected.
func (c *conn) Stats() (_ sql.StatsSnapshot, ok bool) {
	if c.stats == nil || c.db == nil {
		return sql.StatsSnapshot{}, false
	}
	return c.stats.QueryStats().Stats(), true
}

// HasQueue implements Connector.
func (c *conn) HasQueue() bool {
	return false
}

// SetEncoding implements Connector. The setting belongs to the session, so
// the connection is no longer closed when idle.
func (c *conn) SetEncoding(ctx context.Context, encoding string) error {
	if c.setEncoding == nil {
		return osql.NewUnsupportedMethodError("SetEncoding")
	}
	if _, err := c.QueryRaw(ctx, c.setEncoding(c.dialect, encoding)); err != nil {
		return err
	}
	c.db.SetConnMaxIdleTime(0)
	return nil
}

// LastInsertID implements Connector.
func (c *conn) LastInsertID() int64 {
	return c.lastInsertID
}

func (c *conn) ensure() error {
	if c.db == nil {
		return osql.NewConnectionError(c.dialect.Name(), nil)
	}
	return nil
}

// QueryRaw implements Connector.
func (c *conn) QueryRaw(ctx context.Context, text string) (stdsql.Result, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	var res stdsql.Result
	if err := c.drv.Exec(ctx, text, nil, &res); err != nil {
		return nil, c.fail(ctx, text, err)
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		c.lastInsertID = id
	}
	return res, nil
}

// fail classifies a backend failure and logs it.
func (c *conn) fail(ctx context.Context, query string, err error) error {
	err = c.codes.classify(query, err)
	c.log.WarnContext(ctx, "query failed", "query", query, "error", err)
	return err
}

// QueryNull implements Connector.
func (c *conn) QueryNull(ctx context.Context, q sql.Query) error {
	text, err := q.Render(c.dialect)
	if err != nil {
		return err
	}
	_, err = c.QueryRaw(ctx, text)
	return err
}

// QueryCount implements Connector.
func (c *conn) QueryCount(ctx context.Context, q sql.Query) (int64, error) {
	text, err := q.Render(c.dialect)
	if err != nil {
		return 0, err
	}
	res, err := c.QueryRaw(ctx, text)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, c.fail(ctx, text, err)
	}
	return n, nil
}

// query renders and runs q, returning its columns and rows.
func (c *conn) query(ctx context.Context, q sql.Query) ([]string, [][]any, error) {
	text, err := q.Render(c.dialect)
	if err != nil {
		return nil, nil, err
	}
	if err := c.ensure(); err != nil {
		return nil, nil, err
	}
	rows := &sql.Rows{}
	if err := c.drv.Query(ctx, text, nil, rows); err != nil {
		return nil, nil, c.fail(ctx, text, err)
	}
	columns, values, err := sql.ScanValues(rows)
	if err != nil {
		return nil, nil, c.fail(ctx, text, err)
	}
	return columns, values, nil
}

// QueryRow implements Connector.
func (c *conn) QueryRow(ctx context.Context, q sql.Query) (map[string]any, error) {
	columns, values, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return sql.RowMaps(columns, values)[0], nil
	default:
		return nil, osql.NewTooManyRowsError(len(values))
	}
}

// QueryColumn implements Connector.
func (c *conn) QueryColumn(ctx context.Context, q sql.Query) ([]any, error) {
	_, values, err := c.query(ctx, q)
	if err != nil || len(values) == 0 {
		return nil, err
	}
	column := make([]any, len(values))
	for i, row := range values {
		column[i] = row[0]
	}
	return column, nil
}

// QuerySet implements Connector.
func (c *conn) QuerySet(ctx context.Context, q sql.Query) ([]map[string]any, error) {
	columns, values, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	return sql.RowMaps(columns, values), nil
}
