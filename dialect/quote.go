package dialect

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// literals describes how one dialect spells literal values.
type literals struct {
	trueLit    string
	falseLit   string
	timeLayout string
	escape     func(string) string
	bytes      func([]byte) string
}

// quoteIdent wraps an identifier in q, doubling any embedded q.
func quoteIdent(name string, q byte) string {
	s := string(q)
	return s + strings.ReplaceAll(name, s, s+s) + s
}

// quoteQualified quotes each dot-separated part of a table name.
func quoteQualified(name string, q byte) string {
	if !strings.Contains(name, ".") {
		return quoteIdent(name, q)
	}
	parts := strings.Split(name, ".")
	for i := range parts {
		parts[i] = quoteIdent(parts[i], q)
	}
	return strings.Join(parts, ".")
}

// escapeQuotes doubles single quotes, the standard SQL string escape.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// escapeStringValue escapes a string value for safe use in SQL.
// It escapes both single quotes (by doubling) and backslashes (for MySQL compatibility).
func escapeStringValue(s string) string {
	// Fast path: if no escaping needed, return as-is
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	// Escape backslashes first, then single quotes
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}

// hexBytes renders X'..' blob literals.
func hexBytes(b []byte) string {
	return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}

// quoteValue renders v as a literal according to l.
func quoteValue(v any, l literals) string {
	if vr, ok := v.(driver.Valuer); ok {
		dv, err := vr.Value()
		if err == nil {
			v = dv
		}
	}
	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return l.trueLit
		}
		return l.falseLit
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return "'" + l.escape(v) + "'"
	case []byte:
		return l.bytes(v)
	case time.Time:
		return "'" + v.Format(l.timeLayout) + "'"
	default:
		return "'" + l.escape(fmt.Sprint(v)) + "'"
	}
}

// limitClause renders LIMIT/OFFSET. noLimit is the value a dialect needs in
// LIMIT when only an offset is given; "" means OFFSET may stand alone.
func limitClause(limit, offset int, noLimit string) string {
	var b strings.Builder
	switch {
	case limit > 0:
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(limit))
	case offset > 0 && noLimit != "":
		b.WriteString(" LIMIT ")
		b.WriteString(noLimit)
	}
	if offset > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(offset))
	}
	return b.String()
}
