package dialect

var liteLiterals = literals{
	trueLit:    "1",
	falseLit:   "0",
	timeLayout: "2006-01-02 15:04:05.999999999-07:00",
	escape:     escapeQuotes,
	bytes:      hexBytes,
}

// LiteDialect renders SQL for SQLite.
//
// RETURNING is reported as unsupported: queries are written against the
// lowest common SQLite feature set the connector targets.
type LiteDialect struct{}

// Name implements Dialect.
func (LiteDialect) Name() string { return SQLite }

// QuoteField implements Dialect.
func (LiteDialect) QuoteField(name string) string { return quoteIdent(name, '"') }

// QuoteTable implements Dialect.
func (LiteDialect) QuoteTable(name string) string { return quoteQualified(name, '"') }

// QuoteValue implements Dialect.
func (LiteDialect) QuoteValue(v any) string { return quoteValue(v, liteLiterals) }

// HasReturning implements Dialect.
func (LiteDialect) HasReturning() bool { return false }

// LimitClause implements Dialect. SQLite requires LIMIT before OFFSET.
func (LiteDialect) LimitClause(limit, offset int) string {
	return limitClause(limit, offset, "-1")
}

var _ Dialect = LiteDialect{}
