package dialect

var imaginaryLiterals = literals{
	trueLit:    "true",
	falseLit:   "false",
	timeLayout: "2006-01-02T15:04:05.999999999Z07:00",
	escape:     escapeQuotes,
	bytes:      hexBytes,
}

// ImaginaryDialect renders identifiers unquoted. Its output is meant for
// humans and for query identity, never for a backend.
type ImaginaryDialect struct{}

// Name implements Dialect.
func (ImaginaryDialect) Name() string { return Imaginary }

// QuoteField implements Dialect.
func (ImaginaryDialect) QuoteField(name string) string { return name }

// QuoteTable implements Dialect.
func (ImaginaryDialect) QuoteTable(name string) string { return name }

// QuoteValue implements Dialect.
func (ImaginaryDialect) QuoteValue(v any) string { return quoteValue(v, imaginaryLiterals) }

// HasReturning implements Dialect. Every feature renders in the imaginary dialect.
func (ImaginaryDialect) HasReturning() bool { return true }

// LimitClause implements Dialect.
func (ImaginaryDialect) LimitClause(limit, offset int) string {
	return limitClause(limit, offset, "")
}

var _ Dialect = ImaginaryDialect{}
