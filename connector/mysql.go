package connector

import (
	"context"
	"net"
	"strconv"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/schema"
	driver "github.com/go-sql-driver/mysql"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// MySQL is a connector to a MySQL or MariaDB server.
type MySQL struct {
	*conn
}

// NewMySQL returns an unconnected MySQL connector.
func NewMySQL(p Params, opts ...Option) *MySQL {
	c := newConn("mysql", func(encoding string) string { return mysqlDSN(p, encoding) }, p.Persistent, dialect.MySQLDialect{}, mysqlCodes, opts)
	c.setEncoding = func(d dialect.Dialect, encoding string) string {
		return "SET NAMES " + d.QuoteValue(encoding)
	}
	return &MySQL{conn: c}
}

// mysqlDSN builds a go-sql-driver/mysql DSN. The driver sends SET NAMES for
// the encoding on every connection it opens.
func mysqlDSN(p Params, encoding string) string {
	cfg := driver.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.DBName = p.Database
	cfg.Net = "tcp"
	host, port := p.Host, p.Port
	if host == "" {
		host = "127.0.0.1"
	}
	if port == 0 {
		port = 3306
	}
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	if len(p.Options) > 0 {
		cfg.Params = make(map[string]string, len(p.Options))
		for k, v := range p.Options {
			cfg.Params[k] = v
		}
	}
	if encoding != "" {
		_ = cfg.Apply(driver.Charset(encoding, ""))
	}
	return cfg.FormatDSN()
}

// TableInfo implements Connector.
func (c *MySQL) TableInfo(ctx context.Context, table string) (*schema.Table, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	drv, err := mysql.Open(c.db)
	if err != nil {
		return nil, osql.NewDatabaseError("inspect "+table, err)
	}
	return inspectTable(ctx, drv, table)
}

var _ Connector = (*MySQL)(nil)
