package dao

import (
	"context"
	"errors"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect/sql"
)

// ErrNotFound is reported for an identity missing from a batch result.
var ErrNotFound = errors.New("dao: row not found")

// GetByIDs loads the rows of the given identities with a single IN query.
// The result has the length and order of ids; a missing row is nil with
// ErrNotFound at its index. A failed query is reported as a single error,
// the way batch loaders expect it:
//
//	rows, errs := users.GetByIDs(ctx, []int64{3, 1, 2})
func (d *DAO) GetByIDs(ctx context.Context, ids []int64) ([]map[string]any, []error) {
	if len(ids) == 0 {
		return nil, nil
	}
	vs := make([]any, len(ids))
	for i, id := range ids {
		vs[i] = id
	}
	q := sql.Select().From(d.table).Get(sql.Star()).Where(sql.In(IDColumn, vs...), sql.LogicNone)
	rows, err := d.conn.QuerySet(ctx, q)
	if err != nil {
		return nil, []error{osql.NewQueryError(d.table, "get", err)}
	}
	return orderByKeys(ids, rows, func(row map[string]any) int64 {
		id, _ := toInt64(row[IDColumn])
		return id
	})
}

// orderByKeys reorders values to match the order of keys. Keys without a
// value get the zero value and ErrNotFound.
func orderByKeys[K comparable, V any](keys []K, values []V, keyFn func(V) K) ([]V, []error) {
	lookup := make(map[K]V, len(values))
	for _, v := range values {
		lookup[keyFn(v)] = v
	}
	result := make([]V, len(keys))
	errs := make([]error, len(keys))
	for i, key := range keys {
		if v, ok := lookup[key]; ok {
			result[i] = v
		} else {
			errs[i] = ErrNotFound
		}
	}
	return result, errs
}
