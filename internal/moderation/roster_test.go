package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moderators.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewRoster(t *testing.T) {
	t.Run("empty path disables moderation", func(t *testing.T) {
		r, err := NewRoster("")
		require.NoError(t, err)

		assert.False(t, r.IsEnabled())
		assert.False(t, r.IsModerator("anyone"))
		assert.False(t, r.HasPermission("anyone", PermissionViewQueue))
	})

	t.Run("missing file disables moderation", func(t *testing.T) {
		r, err := NewRoster(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.False(t, r.IsEnabled())
	})

	t.Run("malformed json fails", func(t *testing.T) {
		path := writeRoster(t, `{not json`)
		_, err := NewRoster(path)
		assert.Error(t, err)
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		path := writeRoster(t, `{
			"roles": {"admin": {"permissions": ["view_queue"]}},
			"moderators": [{"actor_id": "x", "role": "superuser"}]
		}`)
		_, err := NewRoster(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown role")
	})
}

func TestRosterPermissions(t *testing.T) {
	path := writeRoster(t, testRosterJSON)
	r, err := NewRoster(path)
	require.NoError(t, err)

	assert.True(t, r.IsEnabled())

	t.Run("admin role", func(t *testing.T) {
		assert.True(t, r.IsAdmin("admin-1"))
		assert.True(t, r.IsModerator("admin-1"))
		assert.True(t, r.HasPermission("admin-1", PermissionBanUser))
		assert.True(t, r.HasPermission("admin-1", PermissionViewAuditLog))
	})

	t.Run("moderator role", func(t *testing.T) {
		assert.False(t, r.IsAdmin("mod-1"))
		assert.True(t, r.IsModerator("mod-1"))
		assert.True(t, r.HasPermission("mod-1", PermissionViewQueue))
		assert.True(t, r.HasPermission("mod-1", PermissionResolveReport))
		assert.False(t, r.HasPermission("mod-1", PermissionBanUser))
	})

	t.Run("unlisted actor", func(t *testing.T) {
		assert.False(t, r.IsModerator("stranger"))
		assert.False(t, r.HasPermission("stranger", PermissionViewQueue))
	})

	t.Run("list moderators returns a copy", func(t *testing.T) {
		mods := r.ListModerators()
		require.Len(t, mods, 2)
		mods[0].ActorID = "mutated"
		assert.NotEqual(t, "mutated", r.ListModerators()[0].ActorID)
	})
}

func TestRosterReload(t *testing.T) {
	path := writeRoster(t, `{
		"roles": {"moderator": {"permissions": ["view_queue"]}},
		"moderators": [{"actor_id": "mod-1", "role": "moderator"}]
	}`)

	r, err := NewRoster(path)
	require.NoError(t, err)
	assert.True(t, r.IsModerator("mod-1"))
	assert.False(t, r.IsModerator("mod-2"))

	expanded := `{
		"roles": {"moderator": {"permissions": ["view_queue"]}},
		"moderators": [
			{"actor_id": "mod-1", "role": "moderator"},
			{"actor_id": "mod-2", "role": "moderator"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(expanded), 0600))
	require.NoError(t, r.Reload())

	assert.True(t, r.IsModerator("mod-2"))
}
