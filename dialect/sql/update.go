package sql

import (
	"slices"
	"strings"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// UpdateQuery is an UPDATE statement builder.
type UpdateQuery struct {
	QuerySkeleton
	assignments
}

// Update returns an UPDATE statement of table.
func Update(table string) *UpdateQuery {
	return &UpdateQuery{QuerySkeleton: QuerySkeleton{table: table}}
}

// Set assigns a value to a column. Expressions are rendered as is, so
// Set("hits", sql.Raw(`"hits" + 1`)) increments.
func (q *UpdateQuery) Set(col string, v any) *UpdateQuery {
	q.AddError(q.assignments.set(col, v))
	return q
}

// SetMap assigns every entry of m, in sorted column order.
func (q *UpdateQuery) SetMap(m map[string]any) *UpdateQuery {
	for _, col := range sortedKeys(m) {
		q.Set(col, m[col])
	}
	return q
}

// Where appends a predicate. See QuerySkeleton.Where.
func (q *UpdateQuery) Where(exp Expr, logic Logic) *UpdateQuery {
	q.QuerySkeleton.Where(exp, logic)
	return q
}

// AndWhere appends a predicate joined with AND.
func (q *UpdateQuery) AndWhere(exp Expr) *UpdateQuery {
	q.QuerySkeleton.AndWhere(exp)
	return q
}

// OrWhere appends a predicate joined with OR.
func (q *UpdateQuery) OrWhere(exp Expr) *UpdateQuery {
	q.QuerySkeleton.OrWhere(exp)
	return q
}

// Returning appends a field to the RETURNING clause.
func (q *UpdateQuery) Returning(field any) *UpdateQuery {
	q.QuerySkeleton.Returning(field)
	return q
}

// ReturningAs appends a field to the RETURNING clause under the given alias.
func (q *UpdateQuery) ReturningAs(field any, alias string) *UpdateQuery {
	q.QuerySkeleton.ReturningAs(field, alias)
	return q
}

// DropReturning clears the RETURNING clause.
func (q *UpdateQuery) DropReturning() *UpdateQuery {
	q.QuerySkeleton.DropReturning()
	return q
}

// Spawn returns an independent copy of the query.
func (q *UpdateQuery) Spawn() *UpdateQuery {
	return &UpdateQuery{QuerySkeleton: q.QuerySkeleton.clone(), assignments: q.assignments.clone()}
}

// Render implements Query.
func (q *UpdateQuery) Render(d dialect.Dialect) (string, error) {
	if err := q.Err(); err != nil {
		return "", err
	}
	if err := q.CheckReturning(d); err != nil {
		return "", err
	}
	if q.table == "" {
		return "", errNoTable("UPDATE")
	}
	if q.assignments.len() == 0 {
		return "", osql.NewArgumentError("UPDATE of %s without assignments", q.table)
	}
	returning, err := q.renderReturning(d)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(d.QuoteTable(q.table))
	b.WriteString(" SET ")
	b.WriteString(q.renderSet(d))
	b.WriteString(q.RenderWhere(d))
	b.WriteString(returning)
	return b.String(), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var _ Query = (*UpdateQuery)(nil)
