package connector

import (
	"errors"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/syssam/osql"
)

// errorKind is the domain error a native code maps to.
type errorKind uint8

const (
	kindDatabase errorKind = iota
	kindDuplicate
)

// codeTable maps native backend error codes to error kinds. Codes missing
// from the table are plain database errors.
type codeTable struct {
	// native extracts the backend code from an error chain.
	native func(error) (string, bool)
	kinds  map[string]errorKind
}

// lookup returns the native code of err and its kind.
func (t codeTable) lookup(err error) (string, errorKind) {
	if t.native == nil {
		return "", kindDatabase
	}
	code, ok := t.native(err)
	if !ok {
		return "", kindDatabase
	}
	return code, t.kinds[code]
}

// classify wraps a failed query into its domain error.
func (t codeTable) classify(query string, err error) error {
	if _, kind := t.lookup(err); kind == kindDuplicate {
		return osql.NewDuplicateEntityError(query, err)
	}
	return osql.NewDatabaseError(query, err)
}

// sqliteCoder is implemented by modernc.org/sqlite errors.
type sqliteCoder interface {
	Code() int
}

// SQLITE_CONSTRAINT. Extended codes carry the primary code in the low byte.
var sqliteCodes = codeTable{
	native: func(err error) (string, bool) {
		var e sqliteCoder
		if !errors.As(err, &e) {
			return "", false
		}
		return strconv.Itoa(e.Code() & 0xff), true
	},
	kinds: map[string]errorKind{
		"19": kindDuplicate,
	},
}

var postgresCodes = codeTable{
	native: func(err error) (string, bool) {
		var e *pq.Error
		if !errors.As(err, &e) {
			return "", false
		}
		return string(e.Code), true
	},
	kinds: map[string]errorKind{
		"23505": kindDuplicate, // unique_violation
	},
}

var mysqlCodes = codeTable{
	native: func(err error) (string, bool) {
		var e *mysql.MySQLError
		if !errors.As(err, &e) {
			return "", false
		}
		return strconv.Itoa(int(e.Number)), true
	},
	kinds: map[string]errorKind{
		"1062": kindDuplicate, // ER_DUP_ENTRY
		"1586": kindDuplicate, // ER_DUP_ENTRY_WITH_KEY_NAME
	},
}
