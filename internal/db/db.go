// Package db opens the PostgreSQL connection used for job history.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS inspection_jobs (
	id                 UUID PRIMARY KEY,
	recording_id       TEXT,
	status             TEXT NOT NULL,
	raw_transcript     TEXT NOT NULL,
	cleaned_text       TEXT,
	structured_data    JSONB,
	error_message      TEXT,
	failed_stage       TEXT,
	processing_time_ms INTEGER,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS inspection_jobs_created_at_idx ON inspection_jobs (created_at DESC);
`

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
