package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables if they are missing. Safe to call on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL,
    sap_id TEXT NOT NULL DEFAULT '',
    year TEXT NOT NULL DEFAULT '',
    registered_chapters TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS chapters (
    chapter_id TEXT PRIMARY KEY,
    chapter_name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    head_email TEXT NOT NULL DEFAULT '',
    head_name TEXT NOT NULL DEFAULT '',
    member_count INTEGER,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
    registration_open BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_chapters_name ON chapters (LOWER(chapter_name));

CREATE TABLE IF NOT EXISTS chapter_heads (
    email TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    chapter_id TEXT,
    chapter_name TEXT,
    chapters TEXT[] NOT NULL DEFAULT '{}'
);

-- No uniqueness on (user_id, chapter_id): history is kept and the
-- one-active-request rule is checked by the application.
CREATE TABLE IF NOT EXISTS registration_requests (
    registration_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    student_name TEXT NOT NULL DEFAULT '',
    student_email TEXT NOT NULL,
    chapter_id TEXT NOT NULL,
    chapter_name TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'rejected', 'kicked', 'left')),
    applied_at TIMESTAMPTZ NOT NULL,
    processed_at TIMESTAMPTZ,
    processed_by TEXT,
    notes TEXT,
    sap_id TEXT NOT NULL DEFAULT '',
    year TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_registration_requests_chapter ON registration_requests (chapter_id, status);
CREATE INDEX IF NOT EXISTS idx_registration_requests_user ON registration_requests (user_id, chapter_id);

CREATE TABLE IF NOT EXISTS activities (
    activity_id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    occurred_at TIMESTAMPTZ NOT NULL,
    chapter_id TEXT NOT NULL,
    user_id TEXT,
    metadata JSONB
);

CREATE INDEX IF NOT EXISTS idx_activities_chapter ON activities (chapter_id, occurred_at DESC);
`
