package sql

import (
	"errors"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// QuerySkeleton accumulates the clauses shared by every statement: WHERE
// predicates with their join words, and RETURNING fields with the aliases
// they introduce. Concrete queries embed it.
//
// Builder methods are chainable. Contract violations (a missing join word, a
// raw field name) do not change the skeleton; they are recorded and returned
// by Err and by every render path.
type QuerySkeleton struct {
	table      string
	where      []Expr
	whereLogic []Logic
	aliases    map[string]struct{}
	returning  []SelectField
	errs       []error
}

// Table returns the relation bare column names resolve against.
func (s *QuerySkeleton) Table() string {
	return s.table
}

// WhereExprs returns a copy of the WHERE predicates in insertion order.
func (s *QuerySkeleton) WhereExprs() []Expr {
	return slices.Clone(s.where)
}

// WhereLogic returns a copy of the join words, index-aligned with WhereExprs.
// The first entry is always LogicNone.
func (s *QuerySkeleton) WhereLogic() []Logic {
	return slices.Clone(s.whereLogic)
}

// Aliases returns the registered aliases in sorted order.
func (s *QuerySkeleton) Aliases() []string {
	return slices.Sorted(maps.Keys(s.aliases))
}

// ReturningFields returns a copy of the RETURNING fields in output order.
func (s *QuerySkeleton) ReturningFields() []SelectField {
	return slices.Clone(s.returning)
}

// AddError records a build error.
func (s *QuerySkeleton) AddError(err error) *QuerySkeleton {
	if err != nil {
		s.errs = append(s.errs, err)
	}
	return s
}

// Err returns the recorded build errors, or nil.
func (s *QuerySkeleton) Err() error {
	return errors.Join(s.errs...)
}

// Where appends a predicate joined to the previous one by logic. The first
// predicate has nothing to join against, so its logic is discarded; any later
// predicate without logic is an ArgumentError.
func (s *QuerySkeleton) Where(exp Expr, logic Logic) *QuerySkeleton {
	switch {
	case isNil(exp):
		return s.AddError(osql.NewArgumentError("nil where expression"))
	case logic != LogicNone && logic != LogicAnd && logic != LogicOr:
		return s.AddError(osql.NewArgumentError("unknown expression logic %q", logic))
	case len(s.where) > 0 && logic == LogicNone:
		return s.AddError(osql.NewArgumentError("you have to specify expression logic"))
	case len(s.where) == 0:
		logic = LogicNone
	}
	s.whereLogic = append(s.whereLogic, logic)
	s.where = append(s.where, exp)
	return s
}

// AndWhere appends a predicate joined with AND.
func (s *QuerySkeleton) AndWhere(exp Expr) *QuerySkeleton {
	return s.Where(exp, LogicAnd)
}

// OrWhere appends a predicate joined with OR.
func (s *QuerySkeleton) OrWhere(exp Expr) *QuerySkeleton {
	return s.Where(exp, LogicOr)
}

// Returning appends a field to the RETURNING clause.
func (s *QuerySkeleton) Returning(field any) *QuerySkeleton {
	return s.ReturningAs(field, "")
}

// ReturningAs appends a field to the RETURNING clause under the given alias.
// A sub-query or an aliased expression keeps its own alias.
func (s *QuerySkeleton) ReturningAs(field any, alias string) *QuerySkeleton {
	f, err := resolveSelectField(field, alias, s.table)
	if err != nil {
		return s.AddError(err)
	}
	s.returning = append(s.returning, f)
	if a := resolveAliasByField(field, alias); a != "" {
		s.registerAlias(a)
	}
	return s
}

// DropReturning clears the RETURNING clause.
func (s *QuerySkeleton) DropReturning() *QuerySkeleton {
	s.returning = nil
	return s
}

// Spawn returns an independent copy of the skeleton. Expressions are shared;
// the clause lists and the alias set are not.
func (s *QuerySkeleton) Spawn() *QuerySkeleton {
	c := s.clone()
	return &c
}

func (s *QuerySkeleton) clone() QuerySkeleton {
	return QuerySkeleton{
		table:      s.table,
		where:      slices.Clone(s.where),
		whereLogic: slices.Clone(s.whereLogic),
		aliases:    maps.Clone(s.aliases),
		returning:  slices.Clone(s.returning),
		errs:       slices.Clone(s.errs),
	}
}

func (s *QuerySkeleton) registerAlias(alias string) {
	if s.aliases == nil {
		s.aliases = make(map[string]struct{})
	}
	s.aliases[alias] = struct{}{}
}

// RenderWhere renders the WHERE clause with a leading space, or "" when no
// predicate survives rendering.
//
// A predicate rendering empty is dropped. While nothing has been written yet,
// dropping it also drops the join word staged for the next predicate, so the
// clause never starts with AND or OR. Only that single look-ahead is applied.
func (s *QuerySkeleton) RenderWhere(d dialect.Dialect) string {
	if len(s.where) == 0 {
		return ""
	}
	logic := slices.Clone(s.whereLogic)
	var (
		b      strings.Builder
		output bool
	)
	b.WriteString(" WHERE")
	for i, exp := range s.where {
		if text := exp.ToDialectString(d); text != "" {
			b.WriteString(string(logic[i]))
			b.WriteByte(' ')
			b.WriteString(text)
			b.WriteByte(' ')
			output = true
		} else if !output && i+1 < len(logic) && logic[i+1] != LogicNone {
			logic[i+1] = LogicNone
		}
	}
	if !output {
		return ""
	}
	return strings.TrimRight(b.String(), " ")
}

// CheckReturning fails with UnsupportedFeatureError when RETURNING fields
// are set and the dialect has no RETURNING clause.
func (s *QuerySkeleton) CheckReturning(d dialect.Dialect) error {
	if len(s.returning) > 0 && !d.HasReturning() {
		return osql.NewUnsupportedFeatureError("RETURNING clause", d.Name())
	}
	return nil
}

// renderReturning renders the RETURNING clause with a leading space, or "".
func (s *QuerySkeleton) renderReturning(d dialect.Dialect) (string, error) {
	if len(s.returning) == 0 {
		return "", nil
	}
	fields, err := renderFields(d, s.returning)
	if err != nil {
		return "", err
	}
	return " RETURNING " + fields, nil
}

func renderFields(d dialect.Dialect, fields []SelectField) (string, error) {
	parts := make([]string, len(fields))
	for i, f := range fields {
		s, err := f.ToDialectString(d)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// isNil reports whether e is nil or a nil pointer behind the interface.
func isNil(e Expr) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
