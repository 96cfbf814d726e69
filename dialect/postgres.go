package dialect

import "encoding/hex"

var pgLiterals = literals{
	trueLit:    "TRUE",
	falseLit:   "FALSE",
	timeLayout: "2006-01-02 15:04:05.999999-07:00",
	escape:     escapeQuotes,
	bytes: func(b []byte) string {
		return `'\x` + hex.EncodeToString(b) + `'`
	},
}

// PostgresDialect renders SQL for PostgreSQL.
type PostgresDialect struct{}

// Name implements Dialect.
func (PostgresDialect) Name() string { return Postgres }

// QuoteField implements Dialect.
func (PostgresDialect) QuoteField(name string) string { return quoteIdent(name, '"') }

// QuoteTable implements Dialect.
func (PostgresDialect) QuoteTable(name string) string { return quoteQualified(name, '"') }

// QuoteValue implements Dialect.
func (PostgresDialect) QuoteValue(v any) string { return quoteValue(v, pgLiterals) }

// HasReturning implements Dialect.
func (PostgresDialect) HasReturning() bool { return true }

// LimitClause implements Dialect.
func (PostgresDialect) LimitClause(limit, offset int) string {
	return limitClause(limit, offset, "")
}

var _ Dialect = PostgresDialect{}
