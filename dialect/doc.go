// Package dialect defines how SQL fragments are rendered for a specific
// database engine and how rendered statements reach that engine.
//
// # Dialects
//
// A Dialect quotes identifiers and literal values and reports the engine's
// capabilities. The following dialects are provided:
//
//   - PostgresDialect: PostgreSQL, supports RETURNING
//   - MySQLDialect: MySQL/MariaDB
//   - LiteDialect: SQLite
//   - ImaginaryDialect: unquoted rendering for diagnostics and query identity
//
// Each engine is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// For resolves a dialect by name:
//
//	d, err := dialect.For(dialect.Postgres)
//	d.QuoteField("name") // "name"
//	d.QuoteValue("o'k")  // 'o''k'
//	d.HasReturning()     // true
//
// # Driver Interface
//
// The Driver interface executes rendered statements:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Close() error
//	    Dialect() string
//	}
//
// # Sub-packages
//
//   - dialect/sql: expressions, the query skeleton, concrete queries and the
//     database/sql driver implementation
package dialect
