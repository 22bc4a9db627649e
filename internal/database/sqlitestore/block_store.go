package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// BlockStore implements moderation.BlockStore using SQLite.
type BlockStore struct {
	db *sql.DB
}

// NewBlockStore creates a BlockStore backed by the given database.
func NewBlockStore(db *sql.DB) *BlockStore {
	return &BlockStore{db: db}
}

var _ moderation.BlockStore = (*BlockStore)(nil)

// PutBlock inserts the relationship if absent. ON CONFLICT DO NOTHING
// keeps the original created_at on repeated blocks; RowsAffected tells
// us whether a new row was created.
func (s *BlockStore) PutBlock(ctx context.Context, block moderation.UserBlock) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO blocks (blocker_id, blocked_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(blocker_id, blocked_id) DO NOTHING
	`, block.BlockerID, block.BlockedID, block.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("put block: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *BlockStore) DeleteBlock(ctx context.Context, blockerID, blockedID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM blocks WHERE blocker_id = ? AND blocked_id = ?
	`, blockerID, blockedID)
	return err
}

func (s *BlockStore) HasBlock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM blocks WHERE blocker_id = ? AND blocked_id = ? LIMIT 1
	`, blockerID, blockedID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (s *BlockStore) ListBlocks(ctx context.Context, blockerID string) ([]moderation.UserBlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT blocker_id, blocked_id, created_at FROM blocks
		WHERE blocker_id = ? ORDER BY created_at DESC, blocked_id ASC
	`, blockerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []moderation.UserBlock
	for rows.Next() {
		var b moderation.UserBlock
		var createdAtStr string
		if err := rows.Scan(&b.BlockerID, &b.BlockedID, &createdAtStr); err != nil {
			continue
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}
