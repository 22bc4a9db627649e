// Package sqlitestore provides SQLite-backed store implementations.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id               TEXT PRIMARY KEY,
	reporter_id      TEXT NOT NULL,
	reported_user_id TEXT NOT NULL,
	content_id       TEXT NOT NULL,
	content_type     TEXT NOT NULL,
	reason           TEXT NOT NULL,
	details          TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'pending',
	moderator_id     TEXT NOT NULL DEFAULT '',
	moderator_notes  TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL,
	resolved_at      TEXT
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status, created_at);
CREATE INDEX IF NOT EXISTS idx_reports_resolved_at ON reports(resolved_at);

CREATE TABLE IF NOT EXISTS blocks (
	blocker_id TEXT NOT NULL,
	blocked_id TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (blocker_id, blocked_id)
);

CREATE TABLE IF NOT EXISTS audit_log (
	id        TEXT PRIMARY KEY,
	action    TEXT NOT NULL,
	actor_id  TEXT NOT NULL,
	target_id TEXT NOT NULL,
	report_id TEXT NOT NULL DEFAULT '',
	notes     TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
`

// Open opens (or creates) the SQLite database at path and applies the
// schema. The connection is instrumented with otelsql so queries show
// up in traces.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := otelsql.Open("sqlite", path,
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
