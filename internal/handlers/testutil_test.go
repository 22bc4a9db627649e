package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tangled.org/vigil.social/vigil/internal/database/boltstore"
	"tangled.org/vigil.social/vigil/internal/middleware"
	"tangled.org/vigil.social/vigil/internal/moderation"
)

const testRosterJSON = `{
	"roles": {
		"admin": {
			"description": "Full moderation access",
			"permissions": ["view_queue", "resolve_report", "ban_user", "view_stats", "view_audit_log"]
		},
		"moderator": {
			"description": "Queue review",
			"permissions": ["view_queue", "resolve_report", "view_stats"]
		}
	},
	"moderators": [
		{"actor_id": "admin-1", "role": "admin"},
		{"actor_id": "mod-1", "role": "moderator"}
	]
}`

// fakeContent answers content lookups from a fixed table.
type fakeContent struct {
	owners map[string]string
}

func (f *fakeContent) ResolveContent(ctx context.Context, viewerID, contentID string, contentType moderation.ContentType) (string, bool, error) {
	owner, ok := f.owners[contentID]
	return owner, ok, nil
}

// fakeUsers answers user directory queries from fixed data.
type fakeUsers struct {
	existing map[string]bool
}

func (f *fakeUsers) UserExists(ctx context.Context, userID string) (bool, error) {
	return f.existing[userID], nil
}

func (f *fakeUsers) UserCounts(ctx context.Context) (int, int, error) {
	return 250, 7, nil
}

// recordingSink captures commands the engine issues.
type recordingSink struct {
	mu       sync.Mutex
	commands []moderation.Command
}

func (s *recordingSink) Enqueue(cmd moderation.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commands)
}

// TestContext contains test dependencies
type TestContext struct {
	Handler *Handler
	Engine  *moderation.Engine
	Sink    *recordingSink
}

// NewTestContext builds a handler over a real bolt store in a temp dir.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	store, err := boltstore.Open(boltstore.Options{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rosterPath := filepath.Join(t.TempDir(), "moderators.json")
	require.NoError(t, os.WriteFile(rosterPath, []byte(testRosterJSON), 0600))
	roster, err := moderation.NewRoster(rosterPath)
	require.NoError(t, err)

	sink := &recordingSink{}
	engine := moderation.NewEngine(
		store.ReportStore(),
		store.BlockStore(),
		store.AuditStore(),
		roster,
		&fakeContent{owners: map[string]string{"post-1": "author-1"}},
		&fakeUsers{existing: map[string]bool{"author-1": true}},
		sink,
	)

	return &TestContext{
		Handler: NewHandler(engine, DefaultConfig()),
		Engine:  engine,
		Sink:    sink,
	}
}

// NewActorRequest creates a request carrying the given actor identity.
func NewActorRequest(actorID, method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req = req.WithContext(middleware.WithActorID(req.Context(), actorID))
	}
	return req
}

// fileTestReport creates a pending report directly through the engine.
func (tc *TestContext) fileTestReport(t *testing.T) *moderation.Report {
	t.Helper()
	report, err := tc.Engine.FileReport(context.Background(), "reporter-1", "post-1",
		moderation.ContentTypePost, moderation.ReasonSpam, "")
	require.NoError(t, err)
	return report
}
