package connector

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
	"github.com/syssam/osql/dialect/sql"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockConnector returns a connector of the given dialect over a sqlmock
// handle that matches statements literally.
func mockConnector(t *testing.T, name string, opts ...Option) (Connector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	c, err := OpenDB(name, db, append([]Option{WithLogger(discard())}, opts...)...)
	require.NoError(t, err)
	return c, mock
}

func usersByID(id int) *sql.SelectQuery {
	return sql.Select().From("users").Get("id", "name").Where(sql.EQ("id", id), sql.LogicNone)
}

func TestQueryRow(t *testing.T) {
	const query = `SELECT "users"."id", "users"."name" FROM "users" WHERE "id" = 1`
	t.Run("none", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.Postgres)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
		row, err := c.QueryRow(context.Background(), usersByID(1))
		require.NoError(t, err)
		assert.Nil(t, row)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("one", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.Postgres)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), []byte("a8m")))
		row, err := c.QueryRow(context.Background(), usersByID(1))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": int64(1), "name": "a8m"}, row)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("many", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.Postgres)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "a8m").
			AddRow(int64(1), "nati"))
		row, err := c.QueryRow(context.Background(), usersByID(1))
		require.Error(t, err)
		assert.Nil(t, row)
		assert.True(t, osql.IsTooManyRows(err))
		var e *osql.TooManyRowsError
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 2, e.Count())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQueryColumn(t *testing.T) {
	const query = "SELECT `users`.`name`, `users`.`id` FROM `users`"
	q := sql.Select().From("users").Get("name", "id")
	t.Run("rows", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.MySQL)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"name", "id"}).
			AddRow("a8m", int64(1)).
			AddRow("nati", int64(2)))
		column, err := c.QueryColumn(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, []any{"a8m", "nati"}, column)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("empty", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.MySQL)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"name", "id"}))
		column, err := c.QueryColumn(context.Background(), q)
		require.NoError(t, err)
		assert.Nil(t, column)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuerySet(t *testing.T) {
	c, mock := mockConnector(t, dialect.SQLite)
	mock.ExpectQuery(`SELECT "users"."id" FROM "users" ORDER BY "users"."id" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))
	set, err := c.QuerySet(context.Background(), sql.Select().From("users").Get("id").OrderBy("id"))
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": int64(1)}, {"id": int64(2)}}, set)

	mock.ExpectQuery(`SELECT "users"."id" FROM "users" WHERE "id" > 9`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	set, err = c.QuerySet(context.Background(), sql.Select().From("users").Get("id").Where(sql.GT("id", 9), sql.LogicNone))
	require.NoError(t, err)
	assert.Nil(t, set)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryCount(t *testing.T) {
	c, mock := mockConnector(t, dialect.Postgres)
	mock.ExpectExec(`UPDATE "users" SET "active" = FALSE WHERE "seen_at" < 100`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := c.QueryCount(context.Background(), sql.Update("users").Set("active", false).Where(sql.LT("seen_at", 100), sql.LogicNone))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Zero(t, c.LastInsertID())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryNullLastInsertID(t *testing.T) {
	c, mock := mockConnector(t, dialect.MySQL)
	mock.ExpectExec("INSERT INTO `users` (`name`) VALUES ('a8m')").
		WillReturnResult(sqlmock.NewResult(42, 1))
	require.NoError(t, c.QueryNull(context.Background(), sql.Insert("users").Set("name", "a8m")))
	assert.EqualValues(t, 42, c.LastInsertID())

	// Statements without an assigned id keep the previous one.
	mock.ExpectExec("DELETE FROM `users` WHERE `id` = 42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, c.QueryNull(context.Background(), sql.Delete("users").Where(sql.EQ("id", 42), sql.LogicNone)))
	assert.EqualValues(t, 42, c.LastInsertID())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRaw(t *testing.T) {
	c, mock := mockConnector(t, dialect.SQLite)
	mock.ExpectExec("CREATE TABLE t (id INTEGER)").WillReturnResult(sqlmock.NewResult(0, 0))
	res, err := c.QueryRaw(context.Background(), "CREATE TABLE t (id INTEGER)")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFailure(t *testing.T) {
	const query = `INSERT INTO "users" ("email") VALUES ('a@b.c')`
	t.Run("duplicate", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.Postgres)
		native := &pq.Error{Code: "23505", Message: "duplicate key value"}
		mock.ExpectExec(query).WillReturnError(native)
		err := c.QueryNull(context.Background(), sql.Insert("users").Set("email", "a@b.c"))
		require.Error(t, err)
		assert.True(t, osql.IsDuplicateEntity(err))
		assert.ErrorIs(t, err, native)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("database", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.Postgres)
		mock.ExpectExec(query).WillReturnError(errors.New("relation does not exist"))
		err := c.QueryNull(context.Background(), sql.Insert("users").Set("email", "a@b.c"))
		require.Error(t, err)
		assert.True(t, osql.IsDatabaseError(err))
		assert.False(t, osql.IsDuplicateEntity(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("query", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.Postgres)
		mock.ExpectQuery(`SELECT "users"."id", "users"."name" FROM "users" WHERE "id" = 1`).
			WillReturnError(errors.New("timeout"))
		_, err := c.QuerySet(context.Background(), usersByID(1))
		assert.True(t, osql.IsDatabaseError(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("render", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.Postgres)
		err := c.QueryNull(context.Background(), sql.Delete("users"))
		assert.True(t, osql.IsArgumentError(err))
		_, err = c.QueryRow(context.Background(), sql.Select().From("users"))
		assert.True(t, osql.IsArgumentError(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDisconnected(t *testing.T) {
	c, mock := mockConnector(t, dialect.SQLite)
	assert.True(t, c.IsConnected())
	assert.False(t, c.HasQueue())
	mock.ExpectClose()
	require.NoError(t, c.Disconnect())
	require.NoError(t, c.Disconnect())
	assert.False(t, c.IsConnected())
	require.NoError(t, mock.ExpectationsWereMet())

	ctx := context.Background()
	_, err := c.QueryRaw(ctx, "SELECT 1")
	assert.True(t, osql.IsConnectionError(err))
	assert.EqualError(t, err, "osql: can not connect to sqlite base")
	_, err = c.QueryRow(ctx, usersByID(1))
	assert.True(t, osql.IsConnectionError(err))
	_, err = c.QueryCount(ctx, sql.Update("users").Set("a", 1))
	assert.True(t, osql.IsConnectionError(err))
}

func TestSetEncoding(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.Postgres)
		mock.ExpectExec("SET client_encoding TO 'UTF8'").WillReturnResult(sqlmock.NewResult(0, 0))
		require.NoError(t, c.SetEncoding(context.Background(), "UTF8"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("mysql", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.MySQL)
		mock.ExpectExec("SET NAMES 'utf8mb4'").WillReturnResult(sqlmock.NewResult(0, 0))
		require.NoError(t, c.SetEncoding(context.Background(), "utf8mb4"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("sqlite", func(t *testing.T) {
		c, mock := mockConnector(t, dialect.SQLite)
		err := c.SetEncoding(context.Background(), "UTF8")
		assert.True(t, osql.IsUnsupportedMethod(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDialectOf(t *testing.T) {
	for name, want := range map[string]dialect.Dialect{
		dialect.SQLite:   dialect.LiteDialect{},
		dialect.Postgres: dialect.PostgresDialect{},
		dialect.MySQL:    dialect.MySQLDialect{},
	} {
		c, _ := mockConnector(t, name)
		assert.Equal(t, want, c.Dialect())
	}
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	_, err = OpenDB("oracle", db)
	require.Error(t, err)
	_, err = OpenDB(dialect.Imaginary, db)
	assert.True(t, osql.IsUnsupportedFeature(err))
}

func TestStatsAndDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	c, err := OpenDB(dialect.Postgres, db, WithLogger(logger), WithStats(), WithDebug())
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT "users"."id", "users"."name" FROM "users" WHERE "id" = 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectExec(`DELETE FROM "users" WHERE "id" = 1`).WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = c.QueryRow(context.Background(), usersByID(1))
	require.NoError(t, err)
	_, err = c.QueryCount(context.Background(), sql.Delete("users").Where(sql.EQ("id", 1), sql.LogicNone))
	require.NoError(t, err)

	stats, ok := c.(*Postgres).Stats()
	require.True(t, ok)
	assert.EqualValues(t, 1, stats.TotalQueries)
	assert.EqualValues(t, 1, stats.TotalExecs)
	assert.Contains(t, buf.String(), `DELETE FROM \"users\"`)
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	require.NoError(t, c.Disconnect())
	_, ok = c.(*Postgres).Stats()
	assert.False(t, ok)
}
