package sql

import (
	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// DeleteQuery is a DELETE statement builder. A delete without a surviving
// predicate is refused; truncating a table goes through QueryRaw.
type DeleteQuery struct {
	QuerySkeleton
}

// Delete returns a DELETE statement from table.
func Delete(table string) *DeleteQuery {
	return &DeleteQuery{QuerySkeleton: QuerySkeleton{table: table}}
}

// Where appends a predicate. See QuerySkeleton.Where.
func (q *DeleteQuery) Where(exp Expr, logic Logic) *DeleteQuery {
	q.QuerySkeleton.Where(exp, logic)
	return q
}

// AndWhere appends a predicate joined with AND.
func (q *DeleteQuery) AndWhere(exp Expr) *DeleteQuery {
	q.QuerySkeleton.AndWhere(exp)
	return q
}

// OrWhere appends a predicate joined with OR.
func (q *DeleteQuery) OrWhere(exp Expr) *DeleteQuery {
	q.QuerySkeleton.OrWhere(exp)
	return q
}

// Returning appends a field to the RETURNING clause.
func (q *DeleteQuery) Returning(field any) *DeleteQuery {
	q.QuerySkeleton.Returning(field)
	return q
}

// ReturningAs appends a field to the RETURNING clause under the given alias.
func (q *DeleteQuery) ReturningAs(field any, alias string) *DeleteQuery {
	q.QuerySkeleton.ReturningAs(field, alias)
	return q
}

// DropReturning clears the RETURNING clause.
func (q *DeleteQuery) DropReturning() *DeleteQuery {
	q.QuerySkeleton.DropReturning()
	return q
}

// Spawn returns an independent copy of the query.
func (q *DeleteQuery) Spawn() *DeleteQuery {
	return &DeleteQuery{QuerySkeleton: q.clone()}
}

// Render implements Query.
func (q *DeleteQuery) Render(d dialect.Dialect) (string, error) {
	if err := q.Err(); err != nil {
		return "", err
	}
	if err := q.CheckReturning(d); err != nil {
		return "", err
	}
	if q.table == "" {
		return "", errNoTable("DELETE")
	}
	where := q.RenderWhere(d)
	if where == "" {
		return "", osql.NewArgumentError("leave at least one sane expression in DELETE from %s", q.table)
	}
	returning, err := q.renderReturning(d)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + d.QuoteTable(q.table) + where + returning, nil
}

var _ Query = (*DeleteQuery)(nil)
