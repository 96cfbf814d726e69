package sql

import "slices"

// Tables returns the tables a SELECT reads: its own first, then those of
// embedded sub-queries and of table-bound columns anywhere in the statement.
// ok is false when the statement holds raw fragments, whose tables can not
// be known.
func (q *SelectQuery) Tables() (tables []string, ok bool) {
	var w tableWalker
	w.query(q)
	return w.names, !w.opaque
}

type tableWalker struct {
	names  []string
	opaque bool
}

func (w *tableWalker) add(table string) {
	if table != "" && !slices.Contains(w.names, table) {
		w.names = append(w.names, table)
	}
}

func (w *tableWalker) query(q *SelectQuery) {
	w.add(q.table)
	for _, f := range q.fields {
		w.field(f)
	}
	for _, e := range q.where {
		w.expr(e)
	}
	for _, o := range q.order {
		w.expr(o.field)
	}
}

func (w *tableWalker) field(f SelectField) {
	switch f.kind {
	case PlainColumn:
		w.add(f.field.Table)
	case DerivedSubquery:
		w.query(f.query)
	case DialectExpression:
		w.expr(f.expr)
	}
}

func (w *tableWalker) expr(e Expr) {
	switch e := e.(type) {
	case interface{ ref() DBField }:
		w.add(e.ref().Table)
	case DBValue, star:
	case *BinaryExpression:
		w.expr(e.left)
		w.expr(e.right)
	case *PostfixUnaryExpression:
		w.expr(e.subject)
	case *NotExpression:
		w.expr(e.subject)
	case *InExpression:
		w.expr(e.subject)
		for _, v := range e.values {
			w.expr(operand(v))
		}
	case *LogicalChain:
		for _, m := range e.exprs {
			w.expr(m)
		}
	case *SQLFunction:
		for _, a := range e.args {
			w.expr(a)
		}
	case *AliasedExpr:
		w.expr(e.expr)
	default:
		w.opaque = true
	}
}
