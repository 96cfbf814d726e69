package sql

import (
	"strings"

	"github.com/syssam/osql/dialect"
)

// Expr is a SQL fragment that renders itself for a dialect.
// An empty rendering means the expression is absent, not false: a WHERE list
// drops it together with its join word.
type Expr interface {
	ToDialectString(d dialect.Dialect) string
}

// Aliased is implemented by expressions that carry their own output alias.
type Aliased interface {
	Alias() string
}

// Logic is the join word placed between two WHERE predicates.
type Logic string

// Join words.
const (
	LogicNone Logic = ""
	LogicAnd  Logic = "AND"
	LogicOr   Logic = "OR"
)

// DBField references a column, optionally bound to a table.
type DBField struct {
	Name  string
	Table string
}

// Field returns a reference to the named column.
func Field(name string) DBField {
	return DBField{Name: name}
}

// TableField returns a reference to a column of the given table.
func TableField(table, name string) DBField {
	return DBField{Name: name, Table: table}
}

func (f DBField) ref() DBField {
	return f
}

// ToDialectString implements Expr.
func (f DBField) ToDialectString(d dialect.Dialect) string {
	if f.Table != "" {
		return d.QuoteTable(f.Table) + "." + d.QuoteField(f.Name)
	}
	return d.QuoteField(f.Name)
}

// DBValue is a literal value.
type DBValue struct {
	V any
}

// Value returns a literal value expression.
func Value(v any) DBValue {
	return DBValue{V: v}
}

// ToDialectString implements Expr.
func (v DBValue) ToDialectString(d dialect.Dialect) string {
	return d.QuoteValue(v.V)
}

// raw is literal SQL text.
type raw string

// Raw returns an expression that renders s unchanged. The text is not
// escaped; it must never carry user input.
func Raw(s string) Expr {
	return raw(s)
}

// ToDialectString implements Expr.
func (r raw) ToDialectString(dialect.Dialect) string {
	return string(r)
}

// star is the every-column projection.
type star struct{}

// Star returns the `*` projection.
func Star() Expr {
	return star{}
}

// ToDialectString implements Expr.
func (star) ToDialectString(dialect.Dialect) string {
	return "*"
}

// operand turns a predicate argument into an expression.
func operand(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return DBValue{V: v}
}

// BinaryExpression compares two operands.
type BinaryExpression struct {
	left  Expr
	op    string
	right Expr
}

// Binary returns the expression `left op right`. Non-Expr operands are
// rendered as literals.
func Binary(left any, op string, right any) *BinaryExpression {
	return &BinaryExpression{left: operand(left), op: op, right: operand(right)}
}

// ToDialectString implements Expr.
func (e *BinaryExpression) ToDialectString(d dialect.Dialect) string {
	return e.left.ToDialectString(d) + " " + e.op + " " + e.right.ToDialectString(d)
}

// PostfixUnaryExpression is an operand followed by an operator, e.g. IS NULL.
type PostfixUnaryExpression struct {
	subject Expr
	op      string
}

// ToDialectString implements Expr.
func (e *PostfixUnaryExpression) ToDialectString(d dialect.Dialect) string {
	return e.subject.ToDialectString(d) + " " + e.op
}

// NotExpression negates its subject. It is absent when the subject is.
type NotExpression struct {
	subject Expr
}

// ToDialectString implements Expr.
func (e *NotExpression) ToDialectString(d dialect.Dialect) string {
	s := e.subject.ToDialectString(d)
	if s == "" {
		return ""
	}
	return "NOT (" + s + ")"
}

// InExpression matches an operand against a list of literal values.
type InExpression struct {
	subject Expr
	values  []any
	not     bool
}

// ToDialectString implements Expr. An empty list never matches for IN and
// always matches for NOT IN.
func (e *InExpression) ToDialectString(d dialect.Dialect) string {
	if len(e.values) == 0 {
		if e.not {
			return "1 = 1"
		}
		return "1 = 0"
	}
	var b strings.Builder
	b.WriteString(e.subject.ToDialectString(d))
	if e.not {
		b.WriteString(" NOT")
	}
	b.WriteString(" IN (")
	for i, v := range e.values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(operand(v).ToDialectString(d))
	}
	b.WriteByte(')')
	return b.String()
}

// LogicalChain joins expressions with one logic word.
type LogicalChain struct {
	logic Logic
	exprs []Expr
}

// And returns a chain joining exprs with AND.
func And(exprs ...Expr) *LogicalChain {
	return &LogicalChain{logic: LogicAnd, exprs: exprs}
}

// Or returns a chain joining exprs with OR.
func Or(exprs ...Expr) *LogicalChain {
	return &LogicalChain{logic: LogicOr, exprs: exprs}
}

// Add appends an expression to the chain.
func (c *LogicalChain) Add(e Expr) *LogicalChain {
	c.exprs = append(c.exprs, e)
	return c
}

// Len returns the number of chained expressions.
func (c *LogicalChain) Len() int {
	return len(c.exprs)
}

// ToDialectString implements Expr. Members rendering empty are skipped, and
// a chain with no surviving member is itself absent.
func (c *LogicalChain) ToDialectString(d dialect.Dialect) string {
	parts := make([]string, 0, len(c.exprs))
	for _, e := range c.exprs {
		if s := e.ToDialectString(d); s != "" {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return "(" + strings.Join(parts, " "+string(c.logic)+" ") + ")"
	}
}

// SQLFunction is a function call such as COUNT("id").
type SQLFunction struct {
	name string
	args []Expr
}

// Func returns a call of the named SQL function. Non-Expr arguments are
// rendered as literals.
func Func(name string, args ...any) *SQLFunction {
	f := &SQLFunction{name: name, args: make([]Expr, len(args))}
	for i, a := range args {
		f.args[i] = operand(a)
	}
	return f
}

// ToDialectString implements Expr.
func (f *SQLFunction) ToDialectString(d dialect.Dialect) string {
	args := make([]string, len(f.args))
	for i, a := range f.args {
		args[i] = a.ToDialectString(d)
	}
	return f.name + "(" + strings.Join(args, ", ") + ")"
}

// AliasedExpr is an expression with its own output alias.
type AliasedExpr struct {
	expr  Expr
	alias string
}

// As attaches an output alias to an expression.
func As(e Expr, alias string) *AliasedExpr {
	return &AliasedExpr{expr: e, alias: alias}
}

// Alias implements Aliased.
func (a *AliasedExpr) Alias() string {
	return a.alias
}

// Unwrap returns the aliased expression.
func (a *AliasedExpr) Unwrap() Expr {
	return a.expr
}

// ToDialectString implements Expr.
func (a *AliasedExpr) ToDialectString(d dialect.Dialect) string {
	s := a.expr.ToDialectString(d)
	if a.alias == "" {
		return s
	}
	return s + " AS " + d.QuoteField(a.alias)
}

var (
	_ Expr    = DBField{}
	_ Expr    = star{}
	_ Expr    = DBValue{}
	_ Expr    = (*BinaryExpression)(nil)
	_ Expr    = (*LogicalChain)(nil)
	_ Expr    = (*AliasedExpr)(nil)
	_ Aliased = (*AliasedExpr)(nil)
)
