package boltstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

func TestBlockStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("put and check block", func(t *testing.T) {
		store := setupTestStore(t).BlockStore()

		created, err := store.PutBlock(ctx, moderation.UserBlock{
			BlockerID: "alice",
			BlockedID: "bob",
			CreatedAt: now,
		})
		require.NoError(t, err)
		assert.True(t, created)

		blocked, err := store.HasBlock(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.True(t, blocked)

		// Directional: the reverse pair is untouched
		reverse, err := store.HasBlock(ctx, "bob", "alice")
		require.NoError(t, err)
		assert.False(t, reverse)
	})

	t.Run("repeated put keeps original timestamp", func(t *testing.T) {
		store := setupTestStore(t).BlockStore()

		created, err := store.PutBlock(ctx, moderation.UserBlock{
			BlockerID: "alice", BlockedID: "bob", CreatedAt: now,
		})
		require.NoError(t, err)
		require.True(t, created)

		created, err = store.PutBlock(ctx, moderation.UserBlock{
			BlockerID: "alice", BlockedID: "bob", CreatedAt: now.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.False(t, created)

		blocks, err := store.ListBlocks(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.True(t, now.Equal(blocks[0].CreatedAt))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := setupTestStore(t).BlockStore()

		_, err := store.PutBlock(ctx, moderation.UserBlock{
			BlockerID: "alice", BlockedID: "bob", CreatedAt: now,
		})
		require.NoError(t, err)

		require.NoError(t, store.DeleteBlock(ctx, "alice", "bob"))
		require.NoError(t, store.DeleteBlock(ctx, "alice", "bob"))

		blocked, err := store.HasBlock(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("list returns newest first for the blocker only", func(t *testing.T) {
		store := setupTestStore(t).BlockStore()

		for i, blocked := range []string{"bob", "carol", "dave"} {
			_, err := store.PutBlock(ctx, moderation.UserBlock{
				BlockerID: "alice",
				BlockedID: blocked,
				CreatedAt: now.Add(time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}
		_, err := store.PutBlock(ctx, moderation.UserBlock{
			BlockerID: "eve", BlockedID: "alice", CreatedAt: now,
		})
		require.NoError(t, err)

		blocks, err := store.ListBlocks(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, blocks, 3)
		assert.Equal(t, "dave", blocks[0].BlockedID)
		assert.Equal(t, "carol", blocks[1].BlockedID)
		assert.Equal(t, "bob", blocks[2].BlockedID)
	})
}

func TestAuditStore(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t).AuditStore()
	now := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.LogAction(ctx, moderation.AuditEntry{
			ID:        string(rune('a' + i)),
			Action:    moderation.AuditActionResolveReport,
			ActorID:   "mod-1",
			TargetID:  "post-1",
			Timestamp: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := store.ListAuditLog(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first
	assert.Equal(t, "e", entries[0].ID)
	assert.Equal(t, "d", entries[1].ID)
	assert.Equal(t, "c", entries[2].ID)
}
