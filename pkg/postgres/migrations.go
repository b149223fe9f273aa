package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// RunMigrations creates the tables the service needs if they are missing.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations() {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`,
	}
}
