package connector

import (
	"context"
	"net"
	"net/url"
	"strconv"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

// Postgres is a connector to a PostgreSQL server.
type Postgres struct {
	*conn
}

// NewPostgres returns an unconnected PostgreSQL connector.
func NewPostgres(p Params, opts ...Option) *Postgres {
	c := newConn("postgres", func(encoding string) string { return postgresDSN(p, encoding) }, p.Persistent, dialect.PostgresDialect{}, postgresCodes, opts)
	c.setEncoding = func(d dialect.Dialect, encoding string) string {
		return "SET client_encoding TO " + d.QuoteValue(encoding)
	}
	return &Postgres{conn: c}
}

// postgresDSN builds a lib/pq connection URL. The encoding travels as the
// client_encoding parameter, so every pooled connection starts with it.
func postgresDSN(p Params, encoding string) string {
	u := url.URL{Scheme: "postgres", Path: "/" + p.Database}
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	if p.Port != 0 {
		host = net.JoinHostPort(host, strconv.Itoa(p.Port))
	}
	u.Host = host
	if p.User != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.User, p.Password)
		} else {
			u.User = url.User(p.User)
		}
	}
	q := url.Values{}
	for k, v := range p.Options {
		q.Set(k, v)
	}
	if encoding != "" {
		q.Set("client_encoding", encoding)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// TableInfo implements Connector.
func (c *Postgres) TableInfo(ctx context.Context, table string) (*schema.Table, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	drv, err := postgres.Open(c.db)
	if err != nil {
		return nil, osql.NewDatabaseError("inspect "+table, err)
	}
	return inspectTable(ctx, drv, table)
}

// inspectTable reads a single table of the current schema.
func inspectTable(ctx context.Context, in schema.Inspector, table string) (*schema.Table, error) {
	s, err := in.InspectSchema(ctx, "", &schema.InspectOptions{Tables: []string{table}})
	if err != nil {
		return nil, osql.NewDatabaseError("inspect "+table, err)
	}
	t, ok := s.Table(table)
	if !ok {
		return nil, osql.NewArgumentError("table %q does not exist", table)
	}
	return t, nil
}

var _ Connector = (*Postgres)(nil)
