// Package sql builds dialect-independent SQL statements and executes them
// through database/sql.
//
// # Expressions
//
// Every clause fragment implements Expr and renders itself for a
// dialect.Dialect. Values are rendered as literals by the dialect, so the
// produced text is complete and carries no placeholders:
//
//	sql.EQ("name", "john")             // "name" = 'john'
//	sql.In("status", "active", "new")  // "status" IN ('active', 'new')
//	sql.Or(sql.IsNull("deleted_at"), sql.GT("age", 18))
//
// An expression that renders to the empty string is absent. Logical chains
// drop absent members and WHERE lists drop absent predicates together with
// their join word.
//
// # Statements
//
// QuerySkeleton holds the WHERE predicates and RETURNING fields shared by
// SelectQuery, InsertQuery, UpdateQuery and DeleteQuery:
//
//	q := sql.Update("users").
//	    Set("active", false).
//	    Where(sql.LT("seen_at", cutoff), sql.LogicNone).
//	    AndWhere(sql.NotNull("email")).
//	    Returning("id")
//	text, err := q.Render(dialect.PostgresDialect{})
//
// Builder methods never fail on their own. Invalid input is recorded on the
// query and returned by Render.
//
// # Drivers
//
// Driver adapts a *database/sql.DB to dialect.Driver. StatsDriver and
// DebugDriver wrap any dialect.Driver with statistics and statement logging.
package sql
