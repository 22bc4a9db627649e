// Package boltstore provides persistent storage using BoltDB (bbolt).
// It implements the moderation store interfaces for single-node
// deployments where an embedded database is preferred.
package boltstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names for organizing data
var (
	// BucketReports stores reports keyed by report ID (TIDs, so keys
	// iterate in creation order)
	BucketReports = []byte("reports")

	// BucketReportsPending indexes pending report IDs; rows are removed
	// when the report transitions to a terminal status
	BucketReportsPending = []byte("reports_pending")

	// BucketReportsResolved indexes resolved/dismissed reports by
	// resolution time, keyed "unixnano:id"
	BucketReportsResolved = []byte("reports_resolved")

	// BucketBlocks stores block relationships keyed "blocker:blocked"
	BucketBlocks = []byte("blocks")

	// BucketAuditLog stores the moderation action audit trail
	BucketAuditLog = []byte("audit_log")
)

// Store wraps a BoltDB database and provides access to specialized stores.
type Store struct {
	db *bolt.DB
}

// Options configures the BoltDB store.
type Options struct {
	// Path to the database file. Parent directories will be created if needed.
	Path string

	// Timeout for obtaining a file lock on the database.
	// If zero, a default of 5 seconds is used.
	Timeout time.Duration

	// FileMode for creating the database file.
	// If zero, 0600 is used.
	FileMode os.FileMode
}

// DefaultOptions returns sensible defaults for development.
func DefaultOptions() Options {
	return Options{
		Path:     "vigil.db",
		Timeout:  5 * time.Second,
		FileMode: 0600,
	}
}

// Open creates or opens a BoltDB database at the specified path.
// It creates all necessary buckets if they don't exist.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		opts.Path = "vigil.db"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.FileMode == 0 {
		opts.FileMode = 0600
	}

	// Ensure parent directory exists
	dir := filepath.Dir(opts.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := bolt.Open(opts.Path, opts.FileMode, &bolt.Options{
		Timeout: opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets if they don't exist
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			BucketReports,
			BucketReportsPending,
			BucketReportsResolved,
			BucketBlocks,
			BucketAuditLog,
		}

		for _, bucket := range buckets {
			_, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying BoltDB instance for advanced operations.
func (s *Store) DB() *bolt.DB {
	return s.db
}

// ReportStore returns a report store backed by this database.
func (s *Store) ReportStore() *ReportStore {
	return &ReportStore{db: s.db}
}

// BlockStore returns a block store backed by this database.
func (s *Store) BlockStore() *BlockStore {
	return &BlockStore{db: s.db}
}

// AuditStore returns an audit log store backed by this database.
func (s *Store) AuditStore() *AuditStore {
	return &AuditStore{db: s.db}
}

// Stats returns database statistics.
func (s *Store) Stats() bolt.Stats {
	return s.db.Stats()
}
