package boltstore

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// AuditStore provides persistent storage for the moderation audit log.
type AuditStore struct {
	db *bolt.DB
}

// LogAction stores a moderation action in the audit log.
func (s *AuditStore) LogAction(ctx context.Context, entry moderation.AuditEntry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketAuditLog)
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", BucketAuditLog)
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal audit entry: %w", err)
		}

		// Use timestamp-based key for chronological ordering
		// Format: timestamp:id for uniqueness
		key := fmt.Sprintf("%d:%s", entry.Timestamp.UnixNano(), entry.ID)

		return bucket.Put([]byte(key), data)
	})
}

// ListAuditLog returns the most recent audit log entries.
// Entries are returned in reverse chronological order (newest first).
func (s *AuditStore) ListAuditLog(ctx context.Context, limit int) ([]moderation.AuditEntry, error) {
	var entries []moderation.AuditEntry

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketAuditLog)
		if bucket == nil {
			return nil
		}

		// Collect all entries first (BoltDB cursors iterate in key order)
		var all []moderation.AuditEntry
		err := bucket.ForEach(func(k, v []byte) error {
			var entry moderation.AuditEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil // Skip malformed entries
			}
			all = append(all, entry)
			return nil
		})
		if err != nil {
			return err
		}

		// Reverse to get newest first
		for i := len(all) - 1; i >= 0 && len(entries) < limit; i-- {
			entries = append(entries, all[i])
		}

		return nil
	})

	return entries, err
}
