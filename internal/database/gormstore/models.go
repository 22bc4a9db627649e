package gormstore

import (
	"time"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// reportRow is the GORM row shape for reports.
type reportRow struct {
	ID             string `gorm:"primaryKey"`
	ReporterID     string `gorm:"index;not null"`
	ReportedUserID string `gorm:"not null"`
	ContentID      string `gorm:"not null"`
	ContentType    string `gorm:"not null"`
	Reason         string `gorm:"not null"`
	Details        string
	Status         string `gorm:"index:idx_reports_status,priority:1;not null;default:pending"`
	ModeratorID    string
	ModeratorNotes string
	CreatedAt      time.Time  `gorm:"index:idx_reports_status,priority:2;not null"`
	ResolvedAt     *time.Time `gorm:"index"`
}

func (reportRow) TableName() string { return "reports" }

func (r reportRow) toModel() moderation.Report {
	return moderation.Report{
		ID:             r.ID,
		ReporterID:     r.ReporterID,
		ReportedUserID: r.ReportedUserID,
		ContentID:      r.ContentID,
		ContentType:    moderation.ContentType(r.ContentType),
		Reason:         moderation.ReportReason(r.Reason),
		Details:        r.Details,
		Status:         moderation.ReportStatus(r.Status),
		ModeratorID:    r.ModeratorID,
		ModeratorNotes: r.ModeratorNotes,
		CreatedAt:      r.CreatedAt,
		ResolvedAt:     r.ResolvedAt,
	}
}

func toReportRow(r moderation.Report) reportRow {
	return reportRow{
		ID:             r.ID,
		ReporterID:     r.ReporterID,
		ReportedUserID: r.ReportedUserID,
		ContentID:      r.ContentID,
		ContentType:    string(r.ContentType),
		Reason:         string(r.Reason),
		Details:        r.Details,
		Status:         string(r.Status),
		ModeratorID:    r.ModeratorID,
		ModeratorNotes: r.ModeratorNotes,
		CreatedAt:      r.CreatedAt,
		ResolvedAt:     r.ResolvedAt,
	}
}

// blockRow is the GORM row shape for block relationships.
type blockRow struct {
	BlockerID string    `gorm:"primaryKey"`
	BlockedID string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

func (blockRow) TableName() string { return "blocks" }

// auditRow is the GORM row shape for audit log entries.
type auditRow struct {
	ID        string `gorm:"primaryKey"`
	Action    string `gorm:"not null"`
	ActorID   string `gorm:"not null"`
	TargetID  string `gorm:"not null"`
	ReportID  string
	Notes     string
	Timestamp time.Time `gorm:"index;not null"`
}

func (auditRow) TableName() string { return "audit_log" }
