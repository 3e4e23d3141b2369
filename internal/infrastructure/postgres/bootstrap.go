package postgres

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
	)`,
	`CREATE TABLE IF NOT EXISTS email_verifications (
		id BIGSERIAL PRIMARY KEY,
		user_id VARCHAR(128) NOT NULL,
		email VARCHAR(255) NOT NULL,
		otp VARCHAR(10) NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('registration', 'pre_registration', 'password_reset')),
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
	)`,
	`CREATE INDEX IF NOT EXISTS idx_email_verifications_email ON email_verifications (email)`,
	`CREATE INDEX IF NOT EXISTS idx_email_verifications_user_id ON email_verifications (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_email_verifications_type ON email_verifications (type)`,
	`CREATE INDEX IF NOT EXISTS idx_email_verifications_expires_at ON email_verifications (expires_at)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id BIGINT,
		username TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		pre_registration JSONB,
		created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
		updated_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id BIGSERIAL PRIMARY KEY,
		flight_number TEXT NOT NULL,
		airline TEXT NOT NULL,
		departure TEXT NOT NULL,
		arrival TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		duration TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL,
		total_seats INT NOT NULL,
		available_seats INT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flights_route ON flights (departure, arrival, date)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		flight_id BIGINT NOT NULL REFERENCES flights (id),
		return_flight_id BIGINT,
		passengers INT NOT NULL,
		total_price NUMERIC(10,2) NOT NULL,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'confirmed',
		created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings (user_id)`,
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
	)`,
	`CREATE TABLE IF NOT EXISTS faqs (
		id BIGSERIAL PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		position INT NOT NULL DEFAULT 0
	)`,
}

// Bootstrap creates the tables if they don't exist. Statements are idempotent
// so repeated startups are safe.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	slog.Info("database schema ready")
	return nil
}
