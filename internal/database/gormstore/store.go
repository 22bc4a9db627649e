// Package gormstore provides Postgres-backed store implementations via
// GORM, for multi-node deployments where an embedded database won't do.
package gormstore

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps a GORM connection and provides access to specialized stores.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres at dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&reportRow{}, &blockRow{}, &auditRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReportStore returns a report store backed by this connection.
func (s *Store) ReportStore() *ReportStore {
	return &ReportStore{db: s.db}
}

// BlockStore returns a block store backed by this connection.
func (s *Store) BlockStore() *BlockStore {
	return &BlockStore{db: s.db}
}

// AuditStore returns an audit log store backed by this connection.
func (s *Store) AuditStore() *AuditStore {
	return &AuditStore{db: s.db}
}
