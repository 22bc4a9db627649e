package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// BlockStore implements moderation.BlockStore on Postgres.
type BlockStore struct {
	db *gorm.DB
}

var _ moderation.BlockStore = (*BlockStore)(nil)

func (s *BlockStore) PutBlock(ctx context.Context, block moderation.UserBlock) (bool, error) {
	row := blockRow{
		BlockerID: block.BlockerID,
		BlockedID: block.BlockedID,
		CreatedAt: block.CreatedAt,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return false, fmt.Errorf("put block: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *BlockStore) DeleteBlock(ctx context.Context, blockerID, blockedID string) error {
	return s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&blockRow{}).Error
}

func (s *BlockStore) HasBlock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var row blockRow
	err := s.db.WithContext(ctx).
		First(&row, "blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *BlockStore) ListBlocks(ctx context.Context, blockerID string) ([]moderation.UserBlock, error) {
	var rows []blockRow
	err := s.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC, blocked_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	blocks := make([]moderation.UserBlock, 0, len(rows))
	for _, row := range rows {
		blocks = append(blocks, moderation.UserBlock{
			BlockerID: row.BlockerID,
			BlockedID: row.BlockedID,
			CreatedAt: row.CreatedAt,
		})
	}
	return blocks, nil
}
