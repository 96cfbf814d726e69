package dialect

import (
	"context"
	"strings"

	"github.com/syssam/osql"
)

// Dialect names.
const (
	Postgres  = "postgres"
	MySQL     = "mysql"
	SQLite    = "sqlite"
	Imaginary = "imaginary"
)

// Dialect translates query fragments into an engine's SQL text and reports
// the engine's capabilities.
type Dialect interface {
	// Name returns the dialect name (e.g., "postgres").
	Name() string
	// QuoteField quotes a column identifier.
	QuoteField(name string) string
	// QuoteTable quotes a table identifier. Schema-qualified names are quoted per part.
	QuoteTable(name string) string
	// QuoteValue renders a Go value as a SQL literal.
	QuoteValue(v any) string
	// HasReturning reports whether write statements accept a RETURNING clause.
	HasReturning() bool
	// LimitClause renders the LIMIT/OFFSET tail, with a leading space, or "".
	LimitClause(limit, offset int) string
}

// ExecQuerier wraps the two query execution methods.
type ExecQuerier interface {
	// Exec executes a statement that returns no rows. v is nil or a *sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows into v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for executing
// rendered statements against one backend.
type Driver interface {
	ExecQuerier
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// For returns the Dialect registered under the given name. Driver names that
// wrap a dialect (e.g., "postgresql", "sqlite3") resolve to it.
func For(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case Postgres, "postgresql", "pgx":
		return PostgresDialect{}, nil
	case MySQL, "mariadb":
		return MySQLDialect{}, nil
	case SQLite, "sqlite3":
		return LiteDialect{}, nil
	case Imaginary:
		return ImaginaryDialect{}, nil
	default:
		return nil, osql.NewArgumentError("unknown dialect %q", name)
	}
}
