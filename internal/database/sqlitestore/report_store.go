package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// ReportStore implements moderation.ReportStore using SQLite.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a ReportStore backed by the given database.
// The database must already have the schema applied.
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Ensure ReportStore implements the interface at compile time.
var _ moderation.ReportStore = (*ReportStore)(nil)

const reportColumns = `id, reporter_id, reported_user_id, content_id, content_type, reason, details, status, moderator_id, moderator_notes, created_at, resolved_at`

func (s *ReportStore) CreateReport(ctx context.Context, report moderation.Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.ReporterID, report.ReportedUserID, report.ContentID,
		string(report.ContentType), string(report.Reason), report.Details,
		string(report.Status), report.ModeratorID, report.ModeratorNotes,
		report.CreatedAt.Format(time.RFC3339Nano), nil)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *ReportStore) GetReport(ctx context.Context, id string) (*moderation.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+` FROM reports WHERE id = ?
	`, id)

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReportStore) ListPendingReports(ctx context.Context) ([]moderation.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM reports
		WHERE status = 'pending' ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

// TransitionReport applies res iff the report is still pending. The
// conditional UPDATE is atomic in SQLite, so RowsAffected tells us
// whether this call won the transition; a loser re-reads and returns
// the already-terminal report unchanged.
func (s *ReportStore) TransitionReport(ctx context.Context, id string, res moderation.Resolution) (*moderation.Report, bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reports
		SET status = ?, moderator_id = ?, moderator_notes = ?, resolved_at = ?
		WHERE id = ? AND status = 'pending'
	`, string(res.Status), res.ModeratorID, res.Notes,
		res.ResolvedAt.Format(time.RFC3339Nano), id)
	if err != nil {
		return nil, false, fmt.Errorf("transition report: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	report, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return report, n > 0 && report != nil, nil
}

func (s *ReportStore) CountPendingReports(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE status = 'pending'`).Scan(&count)
	return count, err
}

func (s *ReportStore) CountResolvedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reports
		WHERE resolved_at IS NOT NULL AND resolved_at >= ? AND resolved_at < ?
	`, from.Format(time.RFC3339Nano), to.Format(time.RFC3339Nano)).Scan(&count)
	return count, err
}

func (s *ReportStore) ListResolvedSince(ctx context.Context, since time.Time) ([]moderation.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM reports
		WHERE resolved_at IS NOT NULL AND resolved_at >= ?
		ORDER BY resolved_at ASC
	`, since.Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*moderation.Report, error) {
	var r moderation.Report
	var contentType, reason, status string
	var createdAtStr string
	var resolvedAtStr sql.NullString

	err := row.Scan(&r.ID, &r.ReporterID, &r.ReportedUserID, &r.ContentID,
		&contentType, &reason, &r.Details, &status, &r.ModeratorID,
		&r.ModeratorNotes, &createdAtStr, &resolvedAtStr)
	if err != nil {
		return nil, err
	}

	r.ContentType = moderation.ContentType(contentType)
	r.Reason = moderation.ReportReason(reason)
	r.Status = moderation.ReportStatus(status)
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
	if resolvedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339Nano, resolvedAtStr.String)
		r.ResolvedAt = &t
	}
	return &r, nil
}

func scanReports(rows *sql.Rows) ([]moderation.Report, error) {
	var reports []moderation.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			continue
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}
