package sql

import (
	"testing"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGolden(t *testing.T) {
	tests := []struct {
		name  string
		query func() Query
	}{
		{
			name: "select_filtered",
			query: func() Query {
				return Select().From("users").
					Get("id", "name").
					GetAs("email", "mail").
					Where(EQ("active", true), LogicNone).
					AndWhere(Or(GT("age", 18), IsNull("age"))).
					AndWhere(In("role", "admin", "owner")).
					OrderByDesc("id").
					OrderBy("name").
					Limit(10).
					Offset(20)
			},
		},
		{
			name: "insert",
			query: func() Query {
				return Insert("users").
					Set("name", "O'Brien").
					Set("age", 30).
					Set("admin", false).
					Set("avatar", []byte{0xde, 0xad})
			},
		},
		{
			name: "update",
			query: func() Query {
				return Update("users").
					Set("name", "a8m").
					Set("hits", Binary(Field("hits"), "+", 1)).
					Where(EQ("id", 7), LogicNone)
			},
		},
		{
			name: "delete",
			query: func() Query {
				return Delete("sessions").
					Where(LT("expires_at", 100), LogicNone).
					OrWhere(IsNull("user_id"))
			},
		},
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		for _, d := range []dialect.Dialect{pg, my, lite} {
			name := tt.name + "_" + d.Name()
			t.Run(name, func(t *testing.T) {
				text, err := tt.query().Render(d)
				require.NoError(t, err)
				g.Assert(t, name, []byte(text+"\n"))
			})
		}
	}
}

func TestSelectQuery(t *testing.T) {
	t.Run("distinct", func(t *testing.T) {
		text, err := Select().From("users").Distinct().Get("country").Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `SELECT DISTINCT "users"."country" FROM "users"`, text)
	})
	t.Run("no_fields", func(t *testing.T) {
		_, err := Select().From("users").Render(pg)
		require.Error(t, err)
		assert.True(t, osql.IsArgumentError(err))
	})
	t.Run("returning_refused", func(t *testing.T) {
		q := Select().From("users").Get("id")
		q.Returning("id")
		_, err := q.Render(pg)
		assert.True(t, osql.IsArgumentError(err))
	})
	t.Run("build_error", func(t *testing.T) {
		_, err := Select().From("users").Get("users.id").Render(pg)
		require.Error(t, err)
		assert.True(t, osql.IsArgumentError(err))
		_, err = Select().From("users").Get("id").OrderBy("*").Render(pg)
		assert.True(t, osql.IsArgumentError(err))
		_, err = Select().From("users").Get("id").OrderBy(3).Render(pg)
		assert.True(t, osql.IsArgumentError(err))
	})
	t.Run("without_table", func(t *testing.T) {
		text, err := Select().Get(As(Func("now"), "ts")).Render(lite)
		require.NoError(t, err)
		assert.Equal(t, `SELECT now() AS "ts"`, text)
	})
	t.Run("offset_only", func(t *testing.T) {
		q := Select().From("users").Get("id").Offset(5)
		text, err := q.Render(lite)
		require.NoError(t, err)
		assert.Equal(t, `SELECT "users"."id" FROM "users" LIMIT -1 OFFSET 5`, text)
		text, err = q.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `SELECT "users"."id" FROM "users" OFFSET 5`, text)
	})
	t.Run("derived_column", func(t *testing.T) {
		posts := Select().From("posts").
			Get(Func("COUNT", Field("id"))).
			Where(Binary(TableField("posts", "user_id"), "=", TableField("users", "id")), LogicNone).
			Named("posts")
		q := Select().From("users").Get("id", posts)
		text, err := q.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `SELECT "users"."id", (SELECT COUNT("id") FROM "posts" WHERE "posts"."user_id" = "users"."id") AS "posts" FROM "users"`, text)
		assert.Equal(t, []string{"posts"}, q.Aliases())
		assert.Equal(t, 2, q.FieldsCount())
	})
	t.Run("vanishing_where", func(t *testing.T) {
		text, err := Select().From("users").Get("id").Where(And(), LogicNone).Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `SELECT "users"."id" FROM "users"`, text)
	})
	t.Run("spawn", func(t *testing.T) {
		base := Select().From("users").Get("id").Where(EQ("active", true), LogicNone)
		admins := base.Spawn().AndWhere(EQ("role", "admin")).Get("name").Limit(1)
		text, err := base.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `SELECT "users"."id" FROM "users" WHERE "active" = TRUE`, text)
		text, err = admins.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `SELECT "users"."id", "users"."name" FROM "users" WHERE "active" = TRUE AND "role" = 'admin' LIMIT 1`, text)
	})
	t.Run("drop_fields", func(t *testing.T) {
		q := Select().From("users").Get("id", "name").DropFields().Get("email")
		assert.Equal(t, 1, q.FieldsCount())
	})
}

func TestSelectTables(t *testing.T) {
	posts := Select().From("posts").
		Get(Func("COUNT", Star())).
		Where(Binary(TableField("posts", "user_id"), "=", TableField("users", "id")), LogicNone).
		Named("posts")
	tests := []struct {
		name   string
		q      *SelectQuery
		tables []string
		ok     bool
	}{
		{
			name:   "plain",
			q:      Select().From("users").Get("id").Where(EQ("id", 1), LogicNone),
			tables: []string{"users"},
			ok:     true,
		},
		{
			name:   "star",
			q:      Select().From("users").Get(Star()),
			tables: []string{"users"},
			ok:     true,
		},
		{
			name:   "derived_column",
			q:      Select().From("users").Get("id", posts),
			tables: []string{"users", "posts"},
			ok:     true,
		},
		{
			name: "bound_columns",
			q: Select().From("users").Get(TableField("teams", "name")).
				Where(NewColumn[int]("groups", "id").In(1, 2), LogicNone).
				OrderBy(TableField("pets", "age")),
			tables: []string{"users", "teams", "groups", "pets"},
			ok:     true,
		},
		{
			name:   "raw_predicate",
			q:      Select().From("users").Get("id").Where(Raw(`"id" IN (SELECT "user_id" FROM "posts")`), LogicNone),
			tables: []string{"users"},
		},
		{
			name:   "raw_field",
			q:      Select().From("users").Get(Raw("COUNT(*)")),
			tables: []string{"users"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, ok := tt.q.Tables()
			assert.Equal(t, tt.tables, tables)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestInsertQuery(t *testing.T) {
	t.Run("returning", func(t *testing.T) {
		q := Insert("users").Set("name", "a8m").Returning("id")
		text, err := q.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `INSERT INTO "users" ("name") VALUES ('a8m') RETURNING "users"."id"`, text)

		_, err = q.Render(lite)
		require.Error(t, err)
		assert.True(t, osql.IsUnsupportedFeature(err))

		text, err = q.DropReturning().Render(lite)
		require.NoError(t, err)
		assert.Equal(t, `INSERT INTO "users" ("name") VALUES ('a8m')`, text)
	})
	t.Run("set_replaces", func(t *testing.T) {
		q := Insert("users").Set("name", "a").Set("age", 1).Set("name", "b")
		assert.Equal(t, []string{"name", "age"}, q.Columns())
		text, err := q.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `INSERT INTO "users" ("name", "age") VALUES ('b', 1)`, text)
	})
	t.Run("set_map", func(t *testing.T) {
		text, err := Insert("users").SetMap(map[string]any{"b": 2, "a": nil}).Render(my)
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO `users` (`a`, `b`) VALUES (NULL, 2)", text)
	})
	t.Run("no_columns", func(t *testing.T) {
		_, err := Insert("users").Render(pg)
		assert.True(t, osql.IsArgumentError(err))
	})
	t.Run("no_table", func(t *testing.T) {
		_, err := Insert("").Set("a", 1).Render(pg)
		assert.True(t, osql.IsArgumentError(err))
		text, err := Insert("").Into("t").Set("a", 1).Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `INSERT INTO "t" ("a") VALUES (1)`, text)
	})
	t.Run("where_refused", func(t *testing.T) {
		q := Insert("users").Set("a", 1)
		q.AndWhere(EQ("a", 1))
		_, err := q.Render(pg)
		assert.True(t, osql.IsArgumentError(err))
	})
	t.Run("bad_column", func(t *testing.T) {
		_, err := Insert("users").Set("users.a", 1).Render(pg)
		assert.True(t, osql.IsArgumentError(err))
	})
	t.Run("spawn", func(t *testing.T) {
		q := Insert("users").Set("a", 1)
		c := q.Spawn().Set("b", 2).Set("a", 3)
		assert.Equal(t, []string{"a"}, q.Columns())
		text, err := q.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `INSERT INTO "users" ("a") VALUES (1)`, text)
		assert.Equal(t, []string{"a", "b"}, c.Columns())
	})
}

func TestUpdateQuery(t *testing.T) {
	t.Run("returning", func(t *testing.T) {
		q := Update("users").Set("age", 31).Where(EQ("id", 1), LogicNone).ReturningAs("age", "new_age")
		text, err := q.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `UPDATE "users" SET "age" = 31 WHERE "id" = 1 RETURNING "users"."age" AS "new_age"`, text)
		_, err = q.Render(my)
		assert.True(t, osql.IsUnsupportedFeature(err))
	})
	t.Run("without_where", func(t *testing.T) {
		text, err := Update("users").Set("active", false).Render(lite)
		require.NoError(t, err)
		assert.Equal(t, `UPDATE "users" SET "active" = 0`, text)
	})
	t.Run("no_assignments", func(t *testing.T) {
		_, err := Update("users").Where(EQ("id", 1), LogicNone).Render(pg)
		assert.True(t, osql.IsArgumentError(err))
	})
	t.Run("or_where", func(t *testing.T) {
		text, err := Update("users").SetMap(map[string]any{"x": 1}).
			Where(EQ("a", 1), LogicNone).
			OrWhere(EQ("b", 2)).
			Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `UPDATE "users" SET "x" = 1 WHERE "a" = 1 OR "b" = 2`, text)
	})
}

func TestDeleteQuery(t *testing.T) {
	t.Run("returning", func(t *testing.T) {
		q := Delete("users").Where(EQ("id", 1), LogicNone).Returning("id")
		text, err := q.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `DELETE FROM "users" WHERE "id" = 1 RETURNING "users"."id"`, text)
		_, err = q.Render(lite)
		assert.True(t, osql.IsUnsupportedFeature(err))
	})
	t.Run("refuses_empty_where", func(t *testing.T) {
		_, err := Delete("users").Render(pg)
		assert.True(t, osql.IsArgumentError(err))
		_, err = Delete("users").Where(Or(), LogicNone).Render(pg)
		assert.True(t, osql.IsArgumentError(err))
	})
	t.Run("spawn", func(t *testing.T) {
		q := Delete("users").Where(EQ("id", 1), LogicNone)
		c := q.Spawn().AndWhere(EQ("b", 2))
		text, err := q.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `DELETE FROM "users" WHERE "id" = 1`, text)
		text, err = c.Render(pg)
		require.NoError(t, err)
		assert.Equal(t, `DELETE FROM "users" WHERE "id" = 1 AND "b" = 2`, text)
	})
}

func TestQueryID(t *testing.T) {
	a := Select().From("users").Get("id").Where(EQ("id", 1), LogicNone)
	b := Select().From("users").Get("id").Where(EQ("id", 1), LogicNone)
	c := Select().From("users").Get("id").Where(EQ("id", 2), LogicNone)

	ida, err := QueryID(a)
	require.NoError(t, err)
	idb, err := QueryID(b)
	require.NoError(t, err)
	idc, err := QueryID(c)
	require.NoError(t, err)
	assert.Len(t, ida, 40)
	assert.Equal(t, ida, idb)
	assert.NotEqual(t, ida, idc)

	id, err := QueryID(Insert("users").Set("a", 1).Returning("id"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = QueryID(Select())
	assert.True(t, osql.IsArgumentError(err))
}
