package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// AuditStore implements moderation.AuditStore using SQLite.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates an AuditStore backed by the given database.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

var _ moderation.AuditStore = (*AuditStore)(nil)

func (s *AuditStore) LogAction(ctx context.Context, entry moderation.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, actor_id, target_id, report_id, notes, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, string(entry.Action), entry.ActorID, entry.TargetID,
		entry.ReportID, entry.Notes, entry.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

func (s *AuditStore) ListAuditLog(ctx context.Context, limit int) ([]moderation.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, actor_id, target_id, report_id, notes, timestamp
		FROM audit_log ORDER BY timestamp DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []moderation.AuditEntry
	for rows.Next() {
		var e moderation.AuditEntry
		var action, timestampStr string
		if err := rows.Scan(&e.ID, &action, &e.ActorID, &e.TargetID, &e.ReportID, &e.Notes, &timestampStr); err != nil {
			continue
		}
		e.Action = moderation.AuditAction(action)
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, timestampStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
