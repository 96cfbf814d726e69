package dao

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
)

func TestOrderByKeys(t *testing.T) {
	values := []string{"b", "a"}
	result, errs := orderByKeys([]byte{'a', 'c', 'b'}, values, func(v string) byte { return v[0] })
	assert.Equal(t, []string{"a", "", "b"}, result)
	assert.Equal(t, []error{nil, ErrNotFound, nil}, errs)

	result, errs = orderByKeys([]byte{}, values, func(v string) byte { return v[0] })
	assert.Empty(t, result)
	assert.Empty(t, errs)
}

func TestGetByIDs(t *testing.T) {
	ctx := context.Background()
	c, m := mock(t, dialect.Postgres)
	d := New(c, "users")

	m.ExpectQuery(`SELECT * FROM "users" WHERE "id" IN (3, 1, 2)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "a8m").
			AddRow(int64(3), "nati"))
	rows, errs := d.GetByIDs(ctx, []int64{3, 1, 2})
	require.Len(t, rows, 3)
	assert.Equal(t, "nati", rows[0]["name"])
	assert.Equal(t, "a8m", rows[1]["name"])
	assert.Nil(t, rows[2])
	assert.Equal(t, []error{nil, nil, ErrNotFound}, errs)

	m.ExpectQuery(`SELECT * FROM "users" WHERE "id" IN (4)`).WillReturnError(assert.AnError)
	rows, errs = d.GetByIDs(ctx, []int64{4})
	assert.Nil(t, rows)
	require.Len(t, errs, 1)
	assert.True(t, osql.IsQueryError(errs[0]))
	require.NoError(t, m.ExpectationsWereMet())

	rows, errs = d.GetByIDs(ctx, nil)
	assert.Nil(t, rows)
	assert.Nil(t, errs)
}
