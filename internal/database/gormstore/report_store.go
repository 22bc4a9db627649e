package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// ReportStore implements moderation.ReportStore on Postgres.
type ReportStore struct {
	db *gorm.DB
}

var _ moderation.ReportStore = (*ReportStore)(nil)

func (s *ReportStore) CreateReport(ctx context.Context, report moderation.Report) error {
	row := toReportRow(report)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *ReportStore) GetReport(ctx context.Context, id string) (*moderation.Report, error) {
	var row reportRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	report := row.toModel()
	return &report, nil
}

func (s *ReportStore) ListPendingReports(ctx context.Context) ([]moderation.Report, error) {
	var rows []reportRow
	err := s.db.WithContext(ctx).
		Where("status = ?", string(moderation.ReportStatusPending)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

// TransitionReport applies res iff the report is still pending. The
// conditional UPDATE lets the database arbitrate concurrent resolvers:
// RowsAffected is 1 for exactly one of them.
func (s *ReportStore) TransitionReport(ctx context.Context, id string, res moderation.Resolution) (*moderation.Report, bool, error) {
	result := s.db.WithContext(ctx).Model(&reportRow{}).
		Where("id = ? AND status = ?", id, string(moderation.ReportStatusPending)).
		Updates(map[string]any{
			"status":          string(res.Status),
			"moderator_id":    res.ModeratorID,
			"moderator_notes": res.Notes,
			"resolved_at":     res.ResolvedAt,
		})
	if result.Error != nil {
		return nil, false, fmt.Errorf("transition report: %w", result.Error)
	}

	report, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return report, result.RowsAffected > 0 && report != nil, nil
}

func (s *ReportStore) CountPendingReports(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&reportRow{}).
		Where("status = ?", string(moderation.ReportStatusPending)).
		Count(&count).Error
	return int(count), err
}

func (s *ReportStore) CountResolvedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&reportRow{}).
		Where("resolved_at >= ? AND resolved_at < ?", from, to).
		Count(&count).Error
	return int(count), err
}

func (s *ReportStore) ListResolvedSince(ctx context.Context, since time.Time) ([]moderation.Report, error) {
	var rows []reportRow
	err := s.db.WithContext(ctx).
		Where("resolved_at >= ?", since).
		Order("resolved_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

func toModels(rows []reportRow) []moderation.Report {
	reports := make([]moderation.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.toModel())
	}
	return reports
}
