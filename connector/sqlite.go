package connector

import (
	"context"

	"ariga.io/atlas/sql/schema"
	_ "modernc.org/sqlite"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// SQLite is a connector to an SQLite database file.
type SQLite struct {
	*conn
}

// NewSQLite returns an unconnected connector to the database at path.
// SetEncoding is unsupported: SQLite has no settable connection encoding.
// ":memory:" opens a private in-memory database, which lives exactly as long
// as the connection and is therefore always persistent.
func NewSQLite(path string, opts ...Option) *SQLite {
	return newSQLite(Params{Database: path, Persistent: true}, opts)
}

func newSQLite(p Params, opts []Option) *SQLite {
	persistent := p.Persistent || p.Database == ":memory:"
	return &SQLite{conn: newConn("sqlite", func(string) string { return p.Database }, persistent, dialect.LiteDialect{}, sqliteCodes, opts)}
}

// TableInfo implements Connector. SQLite table introspection is not
// implemented.
func (*SQLite) TableInfo(context.Context, string) (*schema.Table, error) {
	return nil, osql.NewUnimplementedFeatureError("SQLite table info")
}

var _ Connector = (*SQLite)(nil)
