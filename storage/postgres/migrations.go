package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Canonical pair ordering in matches is enforced by the match engine, not
// the schema, so the table carries only the composite primary key.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username    varchar PRIMARY KEY,
		password    varchar NOT NULL,
		lat         float8,
		long        float8,
		bio         text,
		profile_pic text
	)`,
	`CREATE TABLE IF NOT EXISTS swipes (
		swiper varchar NOT NULL REFERENCES users (username),
		swiped varchar NOT NULL REFERENCES users (username),
		status boolean NOT NULL,
		PRIMARY KEY (swiper, swiped)
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		username1 varchar NOT NULL,
		username2 varchar NOT NULL,
		PRIMARY KEY (username1, username2)
	)`,
}

// Migrate applies the schema statements in order. Statements are
// idempotent, so running at every startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
