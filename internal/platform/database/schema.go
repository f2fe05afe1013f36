package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Cascade contract: deleting a user removes their assignments and submissions;
// deleting an assignment removes its submissions. Services state this as a
// postcondition of their delete operations and rely on the FKs below for it.
//
// The unique constraints on users.username, users.email and
// submissions(assignment_id, student_id) are the authoritative guard against
// concurrent duplicate creation; service-level existence checks only exist to
// produce friendlier messages on the common path.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              UUID PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		full_name       TEXT NOT NULL,
		email           TEXT UNIQUE,
		role            TEXT NOT NULL,
		enabled         BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		slug        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		due_date    TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		teacher_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id            UUID PRIMARY KEY,
		content       TEXT NOT NULL DEFAULT '',
		submitted_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		assignment_id UUID NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
		student_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		grade         INTEGER,
		feedback      TEXT,
		UNIQUE (assignment_id, student_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_teacher ON assignments(teacher_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_assignment ON submissions(assignment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_student ON submissions(student_id)`,
}

// EnsureSchema creates the tables on first run. Idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database.EnsureSchema: %w", err)
		}
	}
	return nil
}
