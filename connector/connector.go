// Package connector executes rendered statements against a database and
// shapes their results.
//
// A Connector owns one logical connection. It is not safe for concurrent use:
// callers serialize access or hold one Connector per worker. Disconnect is the
// only teardown path and is safe to call more than once.
//
//	c := connector.NewSQLite("app.db", connector.WithLogger(logger))
//	if err := c.Connect(ctx); err != nil {
//		return err
//	}
//	defer c.Disconnect()
//
//	row, err := c.QueryRow(ctx, sql.Select().From("users").Get("id", "name").
//		Where(sql.EQ("id", 1), sql.LogicNone))
package connector

import (
	"context"
	stdsql "database/sql"
	"log/slog"

	"ariga.io/atlas/sql/schema"

	"github.com/syssam/osql/dialect"
	"github.com/syssam/osql/dialect/sql"
)

// Connector is a connection to one backend store.
type Connector interface {
	// Connect opens the handle and verifies it. A refusal is a ConnectionError.
	Connect(ctx context.Context) error
	// Disconnect releases the handle. It is a no-op when not connected.
	Disconnect() error
	// IsConnected reports whether a live handle is held.
	IsConnected() bool
	// Dialect returns the dialect statements are rendered with.
	Dialect() dialect.Dialect

	// QueryRaw executes literal query text.
	QueryRaw(ctx context.Context, text string) (stdsql.Result, error)
	// QueryNull executes q and discards its result.
	QueryNull(ctx context.Context, q sql.Query) error
	// QueryCount executes q and returns the number of affected rows.
	QueryCount(ctx context.Context, q sql.Query) (int64, error)
	// QueryRow returns the only row of q, or nil when there is none.
	// Two or more rows are a TooManyRowsError.
	QueryRow(ctx context.Context, q sql.Query) (map[string]any, error)
	// QueryColumn returns the first column of every row, or nil for no rows.
	QueryColumn(ctx context.Context, q sql.Query) ([]any, error)
	// QuerySet returns every row, or nil for no rows.
	QuerySet(ctx context.Context, q sql.Query) ([]map[string]any, error)

	// HasQueue reports support for queued execution.
	HasQueue() bool
	// LastInsertID returns the identifier assigned by the most recent insert.
	LastInsertID() int64
	// TableInfo describes a table of the connected database.
	TableInfo(ctx context.Context, table string) (*schema.Table, error)
	// SetEncoding sets the client encoding of the connection.
	SetEncoding(ctx context.Context, encoding string) error
}

// Params are the stored connection parameters.
type Params struct {
	Host     string
	Port     int
	User     string
	Password string
	// Database is the database name, or the file path for SQLite.
	Database string
	// Persistent keeps the idle connection open between queries.
	Persistent bool
	// Options are driver-specific DSN parameters (e.g., sslmode).
	Options map[string]string
}

type options struct {
	logger    *slog.Logger
	stats     bool
	statsOpts []sql.StatsOption
	debug     bool
	encoding  string
}

// Option configures a Connector.
type Option func(*options)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithStats collects query statistics, readable through Stats.
func WithStats(opts ...sql.StatsOption) Option {
	return func(o *options) {
		o.stats = true
		o.statsOpts = append(o.statsOpts, opts...)
	}
}

// WithDebug logs every statement at debug level.
func WithDebug() Option {
	return func(o *options) {
		o.debug = true
	}
}

// WithEncoding sets the client encoding in the connection string, so every
// connection the pool opens uses it. Backends without a settable encoding
// and connectors over an already open handle ignore it.
func WithEncoding(encoding string) Option {
	return func(o *options) {
		o.encoding = encoding
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
