// Package osql builds SQL statements as object trees and renders them for a
// concrete database dialect.
//
// The statement builders live in dialect/sql, the dialects in dialect, and
// the execution layer in connector. This package holds what they share: the
// typed errors every layer reports and the result cache contract.
//
//	q := sql.Select().From("users").Get("id", "name").
//		Where(sql.EQ("active", true), sql.LogicNone).
//		OrderByDesc("id").
//		Limit(10)
//	text, err := q.Render(dialect.PostgresDialect{})
//	// SELECT "users"."id", "users"."name" FROM "users" WHERE "active" = TRUE
//	// ORDER BY "users"."id" DESC LIMIT 10
//
// Errors are matched with the IsXxx helpers or errors.Is against the
// sentinels:
//
//	if osql.IsDuplicateEntity(err) {
//		return ErrEmailTaken
//	}
package osql
