package sql

// EQ returns a predicate that checks if the column equals the given value.
func EQ(col string, v any) Expr { return Binary(Field(col), "=", v) }

// NEQ returns a predicate that checks if the column does not equal the given value.
func NEQ(col string, v any) Expr { return Binary(Field(col), "<>", v) }

// GT returns a predicate that checks if the column is greater than the given value.
func GT(col string, v any) Expr { return Binary(Field(col), ">", v) }

// GTE returns a predicate that checks if the column is greater than or equal to the given value.
func GTE(col string, v any) Expr { return Binary(Field(col), ">=", v) }

// LT returns a predicate that checks if the column is less than the given value.
func LT(col string, v any) Expr { return Binary(Field(col), "<", v) }

// LTE returns a predicate that checks if the column is less than or equal to the given value.
func LTE(col string, v any) Expr { return Binary(Field(col), "<=", v) }

// Like returns a predicate matching the column against a LIKE pattern.
// The pattern is passed through as is, wildcards included.
func Like(col, pattern string) Expr { return Binary(Field(col), "LIKE", pattern) }

// ILike is the case-insensitive form of Like (PostgreSQL).
func ILike(col, pattern string) Expr { return Binary(Field(col), "ILIKE", pattern) }

// In returns a predicate that checks if the column value is in the given list.
func In(col string, vs ...any) Expr {
	return &InExpression{subject: Field(col), values: vs}
}

// NotIn returns a predicate that checks if the column value is not in the given list.
func NotIn(col string, vs ...any) Expr {
	return &InExpression{subject: Field(col), values: vs, not: true}
}

// IsNull returns a predicate that checks if the column is NULL.
func IsNull(col string) Expr {
	return &PostfixUnaryExpression{subject: Field(col), op: "IS NULL"}
}

// NotNull returns a predicate that checks if the column is not NULL.
func NotNull(col string) Expr {
	return &PostfixUnaryExpression{subject: Field(col), op: "IS NOT NULL"}
}

// Not negates a predicate.
func Not(e Expr) Expr {
	return &NotExpression{subject: e}
}

// Column is a typed column that builds predicates with compile-time value
// types.
//
// Usage:
//
//	var Age = sql.NewColumn[int]("users", "age")
//	query.AndWhere(Age.GTE(18))
type Column[T any] struct {
	DBField
}

// NewColumn returns a typed column of the given table.
func NewColumn[T any](table, name string) Column[T] {
	return Column[T]{DBField: TableField(table, name)}
}

// EQ returns a predicate that checks if the column equals the given value.
func (c Column[T]) EQ(v T) Expr { return Binary(c.DBField, "=", v) }

// NEQ returns a predicate that checks if the column does not equal the given value.
func (c Column[T]) NEQ(v T) Expr { return Binary(c.DBField, "<>", v) }

// GT returns a predicate that checks if the column is greater than the given value.
func (c Column[T]) GT(v T) Expr { return Binary(c.DBField, ">", v) }

// GTE returns a predicate that checks if the column is greater than or equal to the given value.
func (c Column[T]) GTE(v T) Expr { return Binary(c.DBField, ">=", v) }

// LT returns a predicate that checks if the column is less than the given value.
func (c Column[T]) LT(v T) Expr { return Binary(c.DBField, "<", v) }

// LTE returns a predicate that checks if the column is less than or equal to the given value.
func (c Column[T]) LTE(v T) Expr { return Binary(c.DBField, "<=", v) }

// In returns a predicate that checks if the column value is in the given list.
func (c Column[T]) In(vs ...T) Expr {
	return &InExpression{subject: c.DBField, values: toAny(vs)}
}

// NotIn returns a predicate that checks if the column value is not in the given list.
func (c Column[T]) NotIn(vs ...T) Expr {
	return &InExpression{subject: c.DBField, values: toAny(vs), not: true}
}

// IsNull returns a predicate that checks if the column is NULL.
func (c Column[T]) IsNull() Expr {
	return &PostfixUnaryExpression{subject: c.DBField, op: "IS NULL"}
}

// NotNull returns a predicate that checks if the column is not NULL.
func (c Column[T]) NotNull() Expr {
	return &PostfixUnaryExpression{subject: c.DBField, op: "IS NOT NULL"}
}

// StringColumn is a typed text column with pattern matching.
type StringColumn struct {
	Column[string]
}

// NewStringColumn returns a text column of the given table.
func NewStringColumn(table, name string) StringColumn {
	return StringColumn{Column: NewColumn[string](table, name)}
}

// Like returns a predicate matching the column against a LIKE pattern.
func (c StringColumn) Like(pattern string) Expr { return Binary(c.DBField, "LIKE", pattern) }

// ILike is the case-insensitive form of Like (PostgreSQL).
func (c StringColumn) ILike(pattern string) Expr { return Binary(c.DBField, "ILIKE", pattern) }

func toAny[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
