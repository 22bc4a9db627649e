package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	bolt "go.etcd.io/bbolt"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// BlockStore provides persistent storage for block relationships.
type BlockStore struct {
	db *bolt.DB
}

// blockKey builds the bucket key for the ordered (blocker, blocked) pair.
func blockKey(blockerID, blockedID string) []byte {
	return []byte(blockerID + ":" + blockedID)
}

// PutBlock records the relationship if absent. An existing row is left
// untouched so its original CreatedAt survives repeated blocks.
func (s *BlockStore) PutBlock(ctx context.Context, block moderation.UserBlock) (bool, error) {
	var created bool

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketBlocks)
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", BucketBlocks)
		}

		key := blockKey(block.BlockerID, block.BlockedID)
		if bucket.Get(key) != nil {
			return nil
		}

		data, err := json.Marshal(block)
		if err != nil {
			return fmt.Errorf("failed to marshal block: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return err
		}
		created = true
		return nil
	})

	return created, err
}

// DeleteBlock removes the relationship. Deleting a non-existent
// relationship succeeds silently.
func (s *BlockStore) DeleteBlock(ctx context.Context, blockerID, blockedID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketBlocks)
		if bucket == nil {
			return nil
		}

		return bucket.Delete(blockKey(blockerID, blockedID))
	})
}

// HasBlock checks whether blockerID has blocked blockedID.
func (s *BlockStore) HasBlock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var blocked bool

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketBlocks)
		if bucket == nil {
			return nil
		}

		blocked = bucket.Get(blockKey(blockerID, blockedID)) != nil
		return nil
	})

	return blocked, err
}

// ListBlocks returns all blocks created by blockerID, newest first.
func (s *BlockStore) ListBlocks(ctx context.Context, blockerID string) ([]moderation.UserBlock, error) {
	var blocks []moderation.UserBlock

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketBlocks)
		if bucket == nil {
			return nil
		}

		cursor := bucket.Cursor()
		prefix := []byte(blockerID + ":")

		for k, v := cursor.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = cursor.Next() {
			var block moderation.UserBlock
			if err := json.Unmarshal(v, &block); err != nil {
				continue // Skip malformed entries
			}
			blocks = append(blocks, block)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Keys iterate by blocked ID, not by creation time
	sort.Slice(blocks, func(i, j int) bool {
		if !blocks[i].CreatedAt.Equal(blocks[j].CreatedAt) {
			return blocks[i].CreatedAt.After(blocks[j].CreatedAt)
		}
		return blocks[i].BlockedID < blocks[j].BlockedID
	})

	return blocks, nil
}

// hasPrefix checks if a byte slice has a given prefix.
func hasPrefix(s, prefix []byte) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i, b := range prefix {
		if s[i] != b {
			return false
		}
	}
	return true
}
