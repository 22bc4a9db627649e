package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// AuditStore implements moderation.AuditStore on Postgres.
type AuditStore struct {
	db *gorm.DB
}

var _ moderation.AuditStore = (*AuditStore)(nil)

func (s *AuditStore) LogAction(ctx context.Context, entry moderation.AuditEntry) error {
	row := auditRow{
		ID:        entry.ID,
		Action:    string(entry.Action),
		ActorID:   entry.ActorID,
		TargetID:  entry.TargetID,
		ReportID:  entry.ReportID,
		Notes:     entry.Notes,
		Timestamp: entry.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

func (s *AuditStore) ListAuditLog(ctx context.Context, limit int) ([]moderation.AuditEntry, error) {
	var rows []auditRow
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]moderation.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, moderation.AuditEntry{
			ID:        row.ID,
			Action:    moderation.AuditAction(row.Action),
			ActorID:   row.ActorID,
			TargetID:  row.TargetID,
			ReportID:  row.ReportID,
			Notes:     row.Notes,
			Timestamp: row.Timestamp,
		})
	}
	return entries, nil
}
