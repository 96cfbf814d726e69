package dialect

var myLiterals = literals{
	trueLit:    "1",
	falseLit:   "0",
	timeLayout: "2006-01-02 15:04:05.999999",
	escape:     escapeStringValue,
	bytes:      hexBytes,
}

// MySQLDialect renders SQL for MySQL and MariaDB.
type MySQLDialect struct{}

// Name implements Dialect.
func (MySQLDialect) Name() string { return MySQL }

// QuoteField implements Dialect.
func (MySQLDialect) QuoteField(name string) string { return quoteIdent(name, '`') }

// QuoteTable implements Dialect.
func (MySQLDialect) QuoteTable(name string) string { return quoteQualified(name, '`') }

// QuoteValue implements Dialect.
func (MySQLDialect) QuoteValue(v any) string { return quoteValue(v, myLiterals) }

// HasReturning implements Dialect.
func (MySQLDialect) HasReturning() bool { return false }

// LimitClause implements Dialect. MySQL has no standalone OFFSET.
func (MySQLDialect) LimitClause(limit, offset int) string {
	return limitClause(limit, offset, "18446744073709551615")
}

var _ Dialect = MySQLDialect{}
