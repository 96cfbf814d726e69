package connector

import (
	"context"
	stdsql "database/sql"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect/sql"
)

// Cache operations, the middle part of a cache key.
const (
	opRow    = "row"
	opColumn = "column"
	opSet    = "set"
)

// CachedConnector serves repeated SELECT statements from a cache. Results
// are stored msgpack-encoded under "<table>:<op>:<query id>" for every table
// the statement reads, and a hit needs all of them. A write drops every entry
// of its table; QueryRaw drops them all. Statements holding raw fragments
// are never cached.
type CachedConnector struct {
	Connector
	cache osql.Cache
	ttl   time.Duration
}

// Cached wraps c with a result cache. A zero ttl keeps entries until they
// are invalidated.
func Cached(c Connector, cache osql.Cache, ttl time.Duration) *CachedConnector {
	return &CachedConnector{Connector: c, cache: cache, ttl: ttl}
}

// QueryRaw implements Connector.
func (c *CachedConnector) QueryRaw(ctx context.Context, text string) (stdsql.Result, error) {
	res, err := c.Connector.QueryRaw(ctx, text)
	if err != nil {
		return nil, err
	}
	return res, c.cache.Clear(ctx)
}

// QueryNull implements Connector.
func (c *CachedConnector) QueryNull(ctx context.Context, q sql.Query) error {
	if err := c.Connector.QueryNull(ctx, q); err != nil {
		return err
	}
	return c.invalidate(ctx, q)
}

// QueryCount implements Connector.
func (c *CachedConnector) QueryCount(ctx context.Context, q sql.Query) (int64, error) {
	n, err := c.Connector.QueryCount(ctx, q)
	if err != nil {
		return 0, err
	}
	return n, c.invalidate(ctx, q)
}

// QueryRow implements Connector.
func (c *CachedConnector) QueryRow(ctx context.Context, q sql.Query) (map[string]any, error) {
	return cached(ctx, c, q, opRow, c.Connector.QueryRow)
}

// QueryColumn implements Connector.
func (c *CachedConnector) QueryColumn(ctx context.Context, q sql.Query) ([]any, error) {
	return cached(ctx, c, q, opColumn, c.Connector.QueryColumn)
}

// QuerySet implements Connector.
func (c *CachedConnector) QuerySet(ctx context.Context, q sql.Query) ([]map[string]any, error) {
	return cached(ctx, c, q, opSet, c.Connector.QuerySet)
}

func (c *CachedConnector) invalidate(ctx context.Context, q sql.Query) error {
	t, ok := q.(sql.Tabler)
	if !ok || t.Table() == "" {
		return c.cache.Clear(ctx)
	}
	return c.cache.DeletePrefix(ctx, osql.CacheKey{Table: t.Table()}.Prefix())
}

// cacheKeys returns the keys of q under op, the first holding the result
// and the rest marking the other tables read. Only SELECT statements with
// known tables are cached.
func cacheKeys(q sql.Query, op string) ([]string, error) {
	sel, ok := q.(*sql.SelectQuery)
	if !ok || sel.Table() == "" {
		return nil, nil
	}
	tables, ok := sel.Tables()
	if !ok {
		return nil, nil
	}
	id, err := sql.QueryID(q)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(tables))
	for i, t := range tables {
		keys[i] = osql.CacheKey{Table: t, Operation: op, QueryID: id}.String()
	}
	return keys, nil
}

// marker is stored under the keys of the other tables a result depends on.
var marker = []byte{1}

// lookup returns the cached result under keys, or nil when any of them is
// missing.
func (c *CachedConnector) lookup(ctx context.Context, keys []string) []byte {
	data, err := c.cache.Get(ctx, keys[0])
	if err != nil || data == nil {
		return nil
	}
	for _, k := range keys[1:] {
		if m, err := c.cache.Get(ctx, k); err != nil || m == nil {
			return nil
		}
	}
	return data
}

func (c *CachedConnector) store(ctx context.Context, keys []string, data []byte) error {
	for _, k := range keys[1:] {
		if err := c.cache.Set(ctx, k, marker, c.ttl); err != nil {
			return err
		}
	}
	return c.cache.Set(ctx, keys[0], data, c.ttl)
}

// cached reads the result of q from the cache, or runs fetch and stores its
// result. Statements that are not cached write, so their table is dropped.
func cached[T any](ctx context.Context, c *CachedConnector, q sql.Query, op string, fetch func(context.Context, sql.Query) (T, error)) (T, error) {
	var zero T
	keys, err := cacheKeys(q, op)
	if err != nil {
		return zero, err
	}
	if keys == nil {
		v, err := fetch(ctx, q)
		if err != nil {
			return zero, err
		}
		if _, ok := q.(*sql.SelectQuery); ok {
			return v, nil
		}
		return v, c.invalidate(ctx, q)
	}
	if data := c.lookup(ctx, keys); data != nil {
		var v T
		if err := msgpack.Unmarshal(data, &v); err == nil {
			return v, nil
		}
	}
	v, err := fetch(ctx, q)
	if err != nil {
		return zero, err
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.store(ctx, keys, data); err != nil {
		return zero, err
	}
	return v, nil
}

var _ Connector = (*CachedConnector)(nil)
