package sql

import (
	"strings"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// FieldKind tags the shape of a resolved field descriptor.
type FieldKind uint8

// Field descriptor kinds.
const (
	PlainColumn       FieldKind = iota // a column bound to a table
	DerivedSubquery                    // a named sub-query used as a column
	DialectExpression                  // any renderable expression
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case PlainColumn:
		return "column"
	case DerivedSubquery:
		return "subquery"
	case DialectExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// SelectField is a resolved, renderable description of one projected column.
type SelectField struct {
	kind  FieldKind
	field DBField
	query *SelectQuery
	expr  Expr
	alias string
}

// Kind returns the field descriptor kind.
func (f SelectField) Kind() FieldKind {
	return f.kind
}

// Alias returns the output alias. For a sub-query it is the query name.
func (f SelectField) Alias() string {
	if f.kind == DerivedSubquery {
		return f.query.Name()
	}
	return f.alias
}

// Column returns the referenced column of a PlainColumn field.
func (f SelectField) Column() DBField {
	return f.field
}

// ToDialectString renders the field. A sub-query without a name can not be
// embedded as a column.
func (f SelectField) ToDialectString(d dialect.Dialect) (string, error) {
	var s string
	switch f.kind {
	case PlainColumn:
		s = f.field.ToDialectString(d)
	case DialectExpression:
		s = f.expr.ToDialectString(d)
	case DerivedSubquery:
		name := f.query.Name()
		if name == "" {
			diag, _ := f.query.Render(dialect.ImaginaryDialect{})
			return "", osql.NewArgumentError("can not use SelectQuery without name as a field: %s", diag)
		}
		sub, err := f.query.Render(d)
		if err != nil {
			return "", err
		}
		return "(" + sub + ") AS " + d.QuoteField(name), nil
	}
	if f.alias != "" {
		s += " AS " + d.QuoteField(f.alias)
	}
	return s, nil
}

// checkFieldName rejects raw SQL fragments passed as column names.
func checkFieldName(name string) error {
	switch {
	case name == "":
		return osql.NewArgumentError("empty field name")
	case strings.Contains(name, "*"):
		return osql.NewArgumentError("do not use '*' in %q: specify fields explicitly", name)
	case strings.Contains(name, "."):
		return osql.NewArgumentError("forget about dot in %q: use DBField", name)
	}
	return nil
}

// resolveSelectField determines the canonical descriptor of a raw field:
// a column name, a DBField, a *SelectQuery or any Expr. Columns without a
// table are bound to table.
func resolveSelectField(field any, alias, table string) (SelectField, error) {
	switch f := field.(type) {
	case string:
		if err := checkFieldName(f); err != nil {
			return SelectField{}, err
		}
		return SelectField{kind: PlainColumn, field: DBField{Name: f, Table: table}, alias: alias}, nil
	case DBField:
		if f.Table == "" {
			f.Table = table
		}
		return SelectField{kind: PlainColumn, field: f, alias: alias}, nil
	case *SelectQuery:
		if f == nil {
			return SelectField{}, osql.NewArgumentError("nil sub-query")
		}
		return SelectField{kind: DerivedSubquery, query: f}, nil
	case *AliasedExpr:
		if f == nil {
			return SelectField{}, osql.NewArgumentError("nil expression")
		}
		if f.alias == "" {
			return SelectField{kind: DialectExpression, expr: f.expr, alias: alias}, nil
		}
		return SelectField{kind: DialectExpression, expr: f.expr, alias: f.alias}, nil
	case Expr:
		if isNil(f) {
			return SelectField{}, osql.NewArgumentError("nil expression")
		}
		return SelectField{kind: DialectExpression, expr: f, alias: alias}, nil
	default:
		return SelectField{}, osql.NewArgumentError("unknown field type %T", field)
	}
}

// resolveAliasByField returns the alias to register for a field: none for a
// column already bound to a table, the field's own alias when it has one,
// else the caller's alias.
func resolveAliasByField(field any, alias string) string {
	switch f := field.(type) {
	case DBField:
		if f.Table != "" {
			return ""
		}
	case *SelectQuery:
		if f != nil && f.Name() != "" {
			return f.Name()
		}
	case Aliased:
		if a := f.Alias(); a != "" {
			return a
		}
	}
	return alias
}
