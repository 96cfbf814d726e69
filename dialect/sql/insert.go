package sql

import (
	"strings"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// InsertQuery is an INSERT statement builder.
//
//	q := sql.Insert("users").
//	    Set("name", "a8m").
//	    Set("age", 30).
//	    Returning("id")
type InsertQuery struct {
	QuerySkeleton
	assignments
}

// Insert returns an INSERT statement into table.
func Insert(table string) *InsertQuery {
	return &InsertQuery{QuerySkeleton: QuerySkeleton{table: table}}
}

// Into sets the target table.
func (q *InsertQuery) Into(table string) *InsertQuery {
	q.table = table
	return q
}

// Set assigns a value to a column. Assigning the same column twice keeps
// the last value.
func (q *InsertQuery) Set(col string, v any) *InsertQuery {
	q.AddError(q.assignments.set(col, v))
	return q
}

// SetMap assigns every entry of m, in sorted column order.
func (q *InsertQuery) SetMap(m map[string]any) *InsertQuery {
	for _, col := range sortedKeys(m) {
		q.Set(col, m[col])
	}
	return q
}

// Columns returns the assigned columns in order.
func (q *InsertQuery) Columns() []string {
	return append([]string(nil), q.columns...)
}

// Returning appends a field to the RETURNING clause.
func (q *InsertQuery) Returning(field any) *InsertQuery {
	q.QuerySkeleton.Returning(field)
	return q
}

// ReturningAs appends a field to the RETURNING clause under the given alias.
func (q *InsertQuery) ReturningAs(field any, alias string) *InsertQuery {
	q.QuerySkeleton.ReturningAs(field, alias)
	return q
}

// DropReturning clears the RETURNING clause.
func (q *InsertQuery) DropReturning() *InsertQuery {
	q.QuerySkeleton.DropReturning()
	return q
}

// Spawn returns an independent copy of the query.
func (q *InsertQuery) Spawn() *InsertQuery {
	return &InsertQuery{QuerySkeleton: q.QuerySkeleton.clone(), assignments: q.assignments.clone()}
}

// Render implements Query.
func (q *InsertQuery) Render(d dialect.Dialect) (string, error) {
	if err := q.Err(); err != nil {
		return "", err
	}
	if err := q.CheckReturning(d); err != nil {
		return "", err
	}
	if q.table == "" {
		return "", errNoTable("INSERT")
	}
	if len(q.where) > 0 {
		return "", osql.NewArgumentError("WHERE is meaningless for INSERT")
	}
	if q.assignments.len() == 0 {
		return "", osql.NewArgumentError("INSERT into %s without columns", q.table)
	}
	returning, err := q.renderReturning(d)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.QuoteTable(q.table))
	b.WriteByte(' ')
	b.WriteString(q.renderInsert(d))
	b.WriteString(returning)
	return b.String(), nil
}

var _ Query = (*InsertQuery)(nil)
