package sql

import (
	"slices"
	"strings"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

type orderBy struct {
	field Expr
	desc  bool
}

// SelectQuery is a SELECT statement builder.
//
//	q := sql.Select().From("users").
//	    Get("id", "name").
//	    Where(sql.EQ("active", true), sql.LogicNone).
//	    OrderByDesc("id").
//	    Limit(10)
type SelectQuery struct {
	QuerySkeleton
	name     string
	distinct bool
	fields   []SelectField
	order    []orderBy
	limit    int
	offset   int
}

// Select returns an empty SELECT statement.
func Select() *SelectQuery {
	return &SelectQuery{}
}

// From sets the table. Fields added afterwards resolve against it.
func (q *SelectQuery) From(table string) *SelectQuery {
	q.table = table
	return q
}

// Named sets the name under which the query is embedded as a derived column.
func (q *SelectQuery) Named(name string) *SelectQuery {
	q.name = name
	return q
}

// Name returns the query name.
func (q *SelectQuery) Name() string {
	return q.name
}

// Distinct makes the statement SELECT DISTINCT.
func (q *SelectQuery) Distinct() *SelectQuery {
	q.distinct = true
	return q
}

// Get appends fields to the projection.
func (q *SelectQuery) Get(fields ...any) *SelectQuery {
	for _, f := range fields {
		q.GetAs(f, "")
	}
	return q
}

// GetAs appends a field to the projection under the given alias.
func (q *SelectQuery) GetAs(field any, alias string) *SelectQuery {
	f, err := resolveSelectField(field, alias, q.table)
	if err != nil {
		q.AddError(err)
		return q
	}
	q.fields = append(q.fields, f)
	if a := resolveAliasByField(field, alias); a != "" {
		q.registerAlias(a)
	}
	return q
}

// FieldsCount returns the number of projected fields.
func (q *SelectQuery) FieldsCount() int {
	return len(q.fields)
}

// DropFields clears the projection.
func (q *SelectQuery) DropFields() *SelectQuery {
	q.fields = nil
	return q
}

// Where appends a predicate. See QuerySkeleton.Where.
func (q *SelectQuery) Where(exp Expr, logic Logic) *SelectQuery {
	q.QuerySkeleton.Where(exp, logic)
	return q
}

// AndWhere appends a predicate joined with AND.
func (q *SelectQuery) AndWhere(exp Expr) *SelectQuery {
	q.QuerySkeleton.AndWhere(exp)
	return q
}

// OrWhere appends a predicate joined with OR.
func (q *SelectQuery) OrWhere(exp Expr) *SelectQuery {
	q.QuerySkeleton.OrWhere(exp)
	return q
}

// OrderBy sorts ascending by a column name or expression.
func (q *SelectQuery) OrderBy(field any) *SelectQuery {
	return q.addOrder(field, false)
}

// OrderByDesc sorts descending by a column name or expression.
func (q *SelectQuery) OrderByDesc(field any) *SelectQuery {
	return q.addOrder(field, true)
}

func (q *SelectQuery) addOrder(field any, desc bool) *SelectQuery {
	switch f := field.(type) {
	case string:
		if err := checkFieldName(f); err != nil {
			q.AddError(err)
			return q
		}
		q.order = append(q.order, orderBy{field: DBField{Name: f, Table: q.table}, desc: desc})
	case Expr:
		q.order = append(q.order, orderBy{field: f, desc: desc})
	default:
		q.AddError(osql.NewArgumentError("unknown order field type %T", field))
	}
	return q
}

// Limit limits the number of returned rows. Zero means no limit.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.limit = n
	return q
}

// Offset skips the first n rows.
func (q *SelectQuery) Offset(n int) *SelectQuery {
	q.offset = n
	return q
}

// Spawn returns an independent copy of the query.
func (q *SelectQuery) Spawn() *SelectQuery {
	c := *q
	c.QuerySkeleton = q.clone()
	c.fields = slices.Clone(q.fields)
	c.order = slices.Clone(q.order)
	return &c
}

// Render implements Query.
func (q *SelectQuery) Render(d dialect.Dialect) (string, error) {
	if err := q.Err(); err != nil {
		return "", err
	}
	if len(q.returning) > 0 {
		return "", osql.NewArgumentError("RETURNING is meaningless for SELECT")
	}
	if len(q.fields) == 0 {
		return "", osql.NewArgumentError("select what? no fields to get")
	}
	fields, err := renderFields(d, q.fields)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	if q.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(fields)
	if q.table != "" {
		b.WriteString(" FROM ")
		b.WriteString(d.QuoteTable(q.table))
	}
	b.WriteString(q.RenderWhere(d))
	if len(q.order) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range q.order {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(o.field.ToDialectString(d))
			if o.desc {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}
	b.WriteString(d.LimitClause(q.limit, q.offset))
	return b.String(), nil
}

var _ Query = (*SelectQuery)(nil)
