// Package dao stores entities through a connector: it inserts their fields,
// reads the assigned identity back and fetches or drops rows by identity.
package dao

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"

	"github.com/syssam/osql"
	"github.com/syssam/osql/connector"
	"github.com/syssam/osql/dialect/sql"
)

// IDColumn is the identity column of every table.
const IDColumn = "id"

// Entity is a record with a numeric identity.
type Entity interface {
	GetID() int64
	SetID(int64)
	// Record returns the column values to insert. The identity column is
	// ignored while the entity has no identity.
	Record() map[string]any
}

// DAO reads and writes the rows of one table.
type DAO struct {
	conn  connector.Connector
	table string
}

// New returns a DAO of table.
func New(conn connector.Connector, table string) *DAO {
	return &DAO{conn: conn, table: table}
}

// For returns a DAO of the table named after the entity type: UserProfile
// is stored in user_profiles.
func For(conn connector.Connector, e Entity) *DAO {
	return New(conn, TableName(e))
}

// TableName returns the table name derived from the entity type.
func TableName(e Entity) string {
	t := reflect.TypeOf(e)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return snake(rules.Pluralize(t.Name()))
}

// Table returns the table name.
func (d *DAO) Table() string {
	return d.table
}

// Take inserts e and returns the identity assigned by the backend. The
// identity is also set on e.
func (d *DAO) Take(ctx context.Context, e Entity) (int64, error) {
	record := e.Record()
	if e.GetID() == 0 {
		delete(record, IDColumn)
	}
	q := sql.Insert(d.table).SetMap(record)
	var id int64
	if d.conn.Dialect().HasReturning() {
		row, err := d.conn.QueryRow(ctx, q.Returning(IDColumn))
		if err != nil {
			return 0, osql.NewMutationError(d.table, "take", err)
		}
		if id, err = toInt64(row[IDColumn]); err != nil {
			return 0, osql.NewMutationError(d.table, "take", err)
		}
	} else {
		if err := d.conn.QueryNull(ctx, q); err != nil {
			return 0, osql.NewMutationError(d.table, "take", err)
		}
		id = d.conn.LastInsertID()
	}
	e.SetID(id)
	return id, nil
}

// GetByID returns the row with the given identity, or nil when there is none.
func (d *DAO) GetByID(ctx context.Context, id int64) (map[string]any, error) {
	q := sql.Select().From(d.table).Get(sql.Star()).Where(sql.EQ(IDColumn, id), sql.LogicNone)
	row, err := d.conn.QueryRow(ctx, q)
	if err != nil {
		return nil, osql.NewQueryError(d.table, "get", err)
	}
	return row, nil
}

// DropByID deletes the row with the given identity and reports whether it
// existed.
func (d *DAO) DropByID(ctx context.Context, id int64) (bool, error) {
	n, err := d.conn.QueryCount(ctx, sql.Delete(d.table).Where(sql.EQ(IDColumn, id), sql.LogicNone))
	if err != nil {
		return false, osql.NewQueryError(d.table, "drop", err)
	}
	return n > 0, nil
}

func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, osql.NewArgumentError("no %s returned", IDColumn)
	default:
		return 0, fmt.Errorf("dao: unexpected %s type %T", IDColumn, v)
	}
}

var rules = ruleset()

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{"API", "DNS", "HTML", "HTTP", "ID", "IP", "JSON", "SQL", "URL", "UUID"} {
		rules.AddAcronym(w)
	}
	return rules
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is
		// uppercase, and previous is lowercase (cases like: "UserInfo"), or
		// next letter is also a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
