package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order on every start; each statement is idempotent.
var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL,
		password_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		email_verified_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		username VARCHAR(30),
		phone_number VARCHAR(32),
		birthday DATE,
		is_vip BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT profiles_username_key UNIQUE (username)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title VARCHAR(50) NOT NULL,
		description VARCHAR(200),
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		created_by UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT events_interval_check CHECK (start_date <= end_date)
	)`,
	`CREATE INDEX IF NOT EXISTS events_range_idx ON events (start_date, end_date)`,
	`CREATE INDEX IF NOT EXISTS events_created_by_idx ON events (created_by, created_at)`,
	`CREATE TABLE IF NOT EXISTS auth_codes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL,
		purpose VARCHAR(32) NOT NULL,
		code_hash TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// One live code per email and purpose; keep the newest of any duplicates.
	`DELETE FROM auth_codes a USING auth_codes b
		WHERE a.email = b.email AND a.purpose = b.purpose
		AND (a.created_at, a.id) < (b.created_at, b.id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS auth_codes_email_purpose_key ON auth_codes (email, purpose)`,
	`DROP INDEX IF EXISTS auth_codes_lookup_idx`,
}

// RunMigrations executes the schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
