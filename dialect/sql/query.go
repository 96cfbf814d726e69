package sql

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// Query is a complete statement.
type Query interface {
	// Render returns the statement text for the dialect. Build errors
	// recorded on the query are returned before any text is produced.
	Render(d dialect.Dialect) (string, error)
}

// Tabler is implemented by queries targeting a single table.
type Tabler interface {
	Table() string
}

// QueryID identifies a query by the SHA-1 of its imaginary-dialect rendering.
// Equal queries share an ID regardless of the backend they run on.
func QueryID(q Query) (string, error) {
	s, err := q.Render(dialect.ImaginaryDialect{})
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

// renderValue renders an assigned value: expressions as themselves, anything
// else as a literal.
func renderValue(d dialect.Dialect, v any) string {
	return operand(v).ToDialectString(d)
}

// assignments is an ordered column-to-value list for INSERT and UPDATE.
type assignments struct {
	columns []string
	values  []any
}

// set assigns v to col, replacing an earlier assignment of col.
func (a *assignments) set(col string, v any) error {
	if err := checkFieldName(col); err != nil {
		return err
	}
	for i, c := range a.columns {
		if c == col {
			a.values[i] = v
			return nil
		}
	}
	a.columns = append(a.columns, col)
	a.values = append(a.values, v)
	return nil
}

func (a *assignments) clone() assignments {
	return assignments{
		columns: append([]string(nil), a.columns...),
		values:  append([]any(nil), a.values...),
	}
}

func (a *assignments) len() int {
	return len(a.columns)
}

// renderSet renders `"a" = 1, "b" = 'x'`.
func (a *assignments) renderSet(d dialect.Dialect) string {
	parts := make([]string, len(a.columns))
	for i, c := range a.columns {
		parts[i] = d.QuoteField(c) + " = " + renderValue(d, a.values[i])
	}
	return strings.Join(parts, ", ")
}

// renderInsert renders `("a", "b") VALUES (1, 'x')`.
func (a *assignments) renderInsert(d dialect.Dialect) string {
	cols := make([]string, len(a.columns))
	vals := make([]string, len(a.values))
	for i, c := range a.columns {
		cols[i] = d.QuoteField(c)
		vals[i] = renderValue(d, a.values[i])
	}
	return "(" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ")"
}

// errNoTable is returned by writes without a target table.
func errNoTable(stmt string) error {
	return osql.NewArgumentError("%s query without table", stmt)
}
