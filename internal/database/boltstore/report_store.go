package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// ReportStore provides persistent storage for reports.
type ReportStore struct {
	db *bolt.DB
}

// CreateReport stores a new report and indexes it as pending.
func (s *ReportStore) CreateReport(ctx context.Context, report moderation.Report) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketReports)
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", BucketReports)
		}

		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}

		if err := bucket.Put([]byte(report.ID), data); err != nil {
			return err
		}

		pending := tx.Bucket(BucketReportsPending)
		if pending == nil {
			return fmt.Errorf("bucket not found: %s", BucketReportsPending)
		}
		return pending.Put([]byte(report.ID), []byte{1})
	})
}

// GetReport retrieves a report by ID. Returns (nil, nil) if not found.
func (s *ReportStore) GetReport(ctx context.Context, id string) (*moderation.Report, error) {
	var report *moderation.Report

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketReports)
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}

		report = &moderation.Report{}
		return json.Unmarshal(data, report)
	})

	return report, err
}

// ListPendingReports returns all pending reports in ascending creation
// order. Report IDs are TIDs, so the pending index iterates
// chronologically by construction.
func (s *ReportStore) ListPendingReports(ctx context.Context) ([]moderation.Report, error) {
	var reports []moderation.Report

	err := s.db.View(func(tx *bolt.Tx) error {
		pending := tx.Bucket(BucketReportsPending)
		bucket := tx.Bucket(BucketReports)
		if pending == nil || bucket == nil {
			return nil
		}

		return pending.ForEach(func(k, _ []byte) error {
			data := bucket.Get(k)
			if data == nil {
				return nil // Stale index entry
			}

			var report moderation.Report
			if err := json.Unmarshal(data, &report); err != nil {
				return err
			}
			reports = append(reports, report)
			return nil
		})
	})

	return reports, err
}

// TransitionReport atomically moves a report from pending to the given
// terminal status. BoltDB serializes Update transactions, so of two
// concurrent calls exactly one sees the pending status and applies the
// resolution; the other observes the already-terminal report and
// returns it unchanged with applied=false.
func (s *ReportStore) TransitionReport(ctx context.Context, id string, res moderation.Resolution) (*moderation.Report, bool, error) {
	var report *moderation.Report
	var applied bool

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketReports)
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", BucketReports)
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}

		report = &moderation.Report{}
		if err := json.Unmarshal(data, report); err != nil {
			return err
		}

		if report.Status != moderation.ReportStatusPending {
			return nil
		}

		resolvedAt := res.ResolvedAt
		report.Status = res.Status
		report.ModeratorID = res.ModeratorID
		report.ModeratorNotes = res.Notes
		report.ResolvedAt = &resolvedAt

		newData, err := json.Marshal(report)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(id), newData); err != nil {
			return err
		}

		pending := tx.Bucket(BucketReportsPending)
		if pending != nil {
			if err := pending.Delete([]byte(id)); err != nil {
				return err
			}
		}

		resolved := tx.Bucket(BucketReportsResolved)
		if resolved != nil {
			key := fmt.Sprintf("%d:%s", resolvedAt.UnixNano(), id)
			if err := resolved.Put([]byte(key), []byte(id)); err != nil {
				return err
			}
		}

		applied = true
		return nil
	})

	return report, applied, err
}

// CountPendingReports returns the number of pending reports.
func (s *ReportStore) CountPendingReports(ctx context.Context) (int, error) {
	var count int

	err := s.db.View(func(tx *bolt.Tx) error {
		pending := tx.Bucket(BucketReportsPending)
		if pending == nil {
			return nil
		}
		count = pending.Stats().KeyN
		return nil
	})

	return count, err
}

// CountResolvedBetween counts reports resolved in [from, to).
func (s *ReportStore) CountResolvedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int

	err := s.db.View(func(tx *bolt.Tx) error {
		resolved := tx.Bucket(BucketReportsResolved)
		if resolved == nil {
			return nil
		}

		cursor := resolved.Cursor()
		start := []byte(fmt.Sprintf("%d", from.UnixNano()))
		endNano := to.UnixNano()

		for k, _ := cursor.Seek(start); k != nil; k, _ = cursor.Next() {
			ts, ok := parseResolvedKey(k)
			if !ok {
				continue
			}
			if ts >= endNano {
				break
			}
			count++
		}

		return nil
	})

	return count, err
}

// ListResolvedSince returns reports resolved at or after since.
func (s *ReportStore) ListResolvedSince(ctx context.Context, since time.Time) ([]moderation.Report, error) {
	var reports []moderation.Report

	err := s.db.View(func(tx *bolt.Tx) error {
		resolved := tx.Bucket(BucketReportsResolved)
		bucket := tx.Bucket(BucketReports)
		if resolved == nil || bucket == nil {
			return nil
		}

		cursor := resolved.Cursor()
		start := []byte(fmt.Sprintf("%d", since.UnixNano()))

		for k, v := cursor.Seek(start); k != nil; k, v = cursor.Next() {
			data := bucket.Get(v)
			if data == nil {
				continue
			}

			var report moderation.Report
			if err := json.Unmarshal(data, &report); err != nil {
				continue // Skip malformed entries
			}
			reports = append(reports, report)
		}

		return nil
	})

	return reports, err
}

// parseResolvedKey extracts the unix-nano prefix from a "unixnano:id" key.
func parseResolvedKey(k []byte) (int64, bool) {
	var ts int64
	for i := 0; i < len(k); i++ {
		if k[i] == ':' {
			return ts, i > 0
		}
		if k[i] < '0' || k[i] > '9' {
			return 0, false
		}
		ts = ts*10 + int64(k[i]-'0')
	}
	return 0, false
}
