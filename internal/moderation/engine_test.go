package moderation

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memReportStore is an in-memory ReportStore with the same CAS
// semantics as the real backends.
type memReportStore struct {
	mu      sync.Mutex
	reports map[string]Report
}

func newMemReportStore() *memReportStore {
	return &memReportStore{reports: make(map[string]Report)}
}

func (s *memReportStore) CreateReport(ctx context.Context, report Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	return nil
}

func (s *memReportStore) GetReport(ctx context.Context, id string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *memReportStore) ListPendingReports(ctx context.Context) ([]Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Report
	for _, r := range s.reports {
		if r.Status == ReportStatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memReportStore) TransitionReport(ctx context.Context, id string, res Resolution) (*Report, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, false, nil
	}
	if r.Status != ReportStatusPending {
		return &r, false, nil
	}
	resolvedAt := res.ResolvedAt
	r.Status = res.Status
	r.ModeratorID = res.ModeratorID
	r.ModeratorNotes = res.Notes
	r.ResolvedAt = &resolvedAt
	s.reports[id] = r
	return &r, true, nil
}

func (s *memReportStore) CountPendingReports(ctx context.Context) (int, error) {
	reports, _ := s.ListPendingReports(ctx)
	return len(reports), nil
}

func (s *memReportStore) CountResolvedBetween(ctx context.Context, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, r := range s.reports {
		if r.ResolvedAt != nil && !r.ResolvedAt.Before(from) && r.ResolvedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (s *memReportStore) ListResolvedSince(ctx context.Context, since time.Time) ([]Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Report
	for _, r := range s.reports {
		if r.ResolvedAt != nil && !r.ResolvedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

// memBlockStore is an in-memory BlockStore.
type memBlockStore struct {
	mu     sync.Mutex
	blocks map[string]UserBlock
}

func newMemBlockStore() *memBlockStore {
	return &memBlockStore{blocks: make(map[string]UserBlock)}
}

func (s *memBlockStore) PutBlock(ctx context.Context, block UserBlock) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := block.BlockerID + ":" + block.BlockedID
	if _, ok := s.blocks[key]; ok {
		return false, nil
	}
	s.blocks[key] = block
	return true, nil
}

func (s *memBlockStore) DeleteBlock(ctx context.Context, blockerID, blockedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks, blockerID+":"+blockedID)
	return nil
}

func (s *memBlockStore) HasBlock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blocks[blockerID+":"+blockedID]
	return ok, nil
}

func (s *memBlockStore) ListBlocks(ctx context.Context, blockerID string) ([]UserBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []UserBlock
	for _, b := range s.blocks {
		if b.BlockerID == blockerID {
			out = append(out, b)
		}
	}
	// Newest first, matching the store contract
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

// memAuditStore is an in-memory AuditStore.
type memAuditStore struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (s *memAuditStore) LogAction(ctx context.Context, entry AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memAuditStore) ListAuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []AuditEntry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// fakeContent answers visibility queries from a fixed table.
type fakeContent struct {
	owners    map[string]string
	invisible map[string]bool
}

func (f *fakeContent) ResolveContent(ctx context.Context, viewerID, contentID string, contentType ContentType) (string, bool, error) {
	owner, ok := f.owners[contentID]
	if !ok || f.invisible[contentID] {
		return "", false, nil
	}
	return owner, true, nil
}

// fakeUsers answers user directory queries from fixed data.
type fakeUsers struct {
	existing map[string]bool
	total    int
	banned   int
}

func (f *fakeUsers) UserExists(ctx context.Context, userID string) (bool, error) {
	return f.existing[userID], nil
}

func (f *fakeUsers) UserCounts(ctx context.Context) (int, int, error) {
	return f.total, f.banned, nil
}

// recordingSink captures enqueued commands for assertions.
type recordingSink struct {
	mu       sync.Mutex
	commands []Command
}

func (s *recordingSink) Enqueue(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
}

func (s *recordingSink) all() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Command, len(s.commands))
	copy(out, s.commands)
	return out
}

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

type testEngine struct {
	engine  *Engine
	reports *memReportStore
	blocks  *memBlockStore
	audit   *memAuditStore
	sink    *recordingSink
	content *fakeContent
	users   *fakeUsers
	now     time.Time
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	rosterPath := filepath.Join(t.TempDir(), "moderators.json")
	require.NoError(t, os.WriteFile(rosterPath, []byte(testRosterJSON), 0600))
	roster, err := NewRoster(rosterPath)
	require.NoError(t, err)

	te := &testEngine{
		reports: newMemReportStore(),
		blocks:  newMemBlockStore(),
		audit:   &memAuditStore{},
		sink:    &recordingSink{},
		content: &fakeContent{
			owners:    map[string]string{"post-1": "author-1", "post-2": "author-2"},
			invisible: map[string]bool{},
		},
		users: &fakeUsers{
			existing: map[string]bool{"author-1": true, "author-2": true},
			total:    100,
			banned:   3,
		},
		now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	te.engine = NewEngine(te.reports, te.blocks, te.audit, roster, te.content, te.users, te.sink)
	te.engine.SetClock(func() time.Time { return te.now })
	return te
}

func (te *testEngine) fileReport(t *testing.T, contentID string, age time.Duration) *Report {
	t.Helper()
	saved := te.now
	te.now = saved.Add(-age)
	report, err := te.engine.FileReport(context.Background(), "reporter-1", contentID, ContentTypePost, ReasonSpam, "")
	require.NoError(t, err)
	te.now = saved
	return report
}

func TestFileReport(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending report with owner from content service", func(t *testing.T) {
		te := newTestEngine(t)

		report, err := te.engine.FileReport(ctx, "reporter-1", "post-1", ContentTypePost, ReasonHarassment, "  threatening replies  ")
		require.NoError(t, err)

		assert.NotEmpty(t, report.ID)
		assert.Equal(t, "reporter-1", report.ReporterID)
		assert.Equal(t, "author-1", report.ReportedUserID)
		assert.Equal(t, ReportStatusPending, report.Status)
		assert.Equal(t, "threatening replies", report.Details)
		assert.Equal(t, te.now, report.CreatedAt)
		assert.Nil(t, report.ResolvedAt)

		stored, err := te.reports.GetReport(ctx, report.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, report.ID, stored.ID)
	})

	t.Run("rejects invalid reason", func(t *testing.T) {
		te := newTestEngine(t)

		_, err := te.engine.FileReport(ctx, "reporter-1", "post-1", ContentTypePost, "bogus", "")
		assert.ErrorIs(t, err, ErrInvalidReason)
	})

	t.Run("rejects invalid content type", func(t *testing.T) {
		te := newTestEngine(t)

		_, err := te.engine.FileReport(ctx, "reporter-1", "post-1", "video", ReasonSpam, "")
		assert.ErrorIs(t, err, ErrInvalidContentType)
	})

	t.Run("rejects content the reporter cannot see", func(t *testing.T) {
		te := newTestEngine(t)
		te.content.invisible["post-1"] = true

		_, err := te.engine.FileReport(ctx, "reporter-1", "post-1", ContentTypePost, ReasonSpam, "")
		assert.ErrorIs(t, err, ErrNotVisible)
	})

	t.Run("other reason with empty details is accepted", func(t *testing.T) {
		te := newTestEngine(t)

		report, err := te.engine.FileReport(ctx, "reporter-1", "post-1", ContentTypePost, ReasonOther, "")
		require.NoError(t, err)
		assert.Equal(t, ReasonOther, report.Reason)
		assert.Empty(t, report.Details)
	})

	t.Run("duplicate reports from the same reporter accumulate", func(t *testing.T) {
		te := newTestEngine(t)

		first, err := te.engine.FileReport(ctx, "reporter-1", "post-1", ContentTypePost, ReasonSpam, "")
		require.NoError(t, err)
		second, err := te.engine.FileReport(ctx, "reporter-1", "post-1", ContentTypePost, ReasonSpam, "")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		n, err := te.reports.CountPendingReports(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestListPending(t *testing.T) {
	ctx := context.Background()

	t.Run("requires queue permission", func(t *testing.T) {
		te := newTestEngine(t)

		_, err := te.engine.ListPending(ctx, "random-user", 1, 10)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("rejects invalid pagination", func(t *testing.T) {
		te := newTestEngine(t)

		_, err := te.engine.ListPending(ctx, "mod-1", 0, 10)
		assert.ErrorIs(t, err, ErrInvalidPagination)

		_, err = te.engine.ListPending(ctx, "mod-1", 1, 0)
		assert.ErrorIs(t, err, ErrInvalidPagination)
	})

	t.Run("orders by tier then age", func(t *testing.T) {
		te := newTestEngine(t)

		fresh := te.fileReport(t, "post-1", 1*time.Hour)
		urgent := te.fileReport(t, "post-1", 21*time.Hour)
		overdue := te.fileReport(t, "post-1", 30*time.Hour)
		olderOverdue := te.fileReport(t, "post-2", 40*time.Hour)

		page, err := te.engine.ListPending(ctx, "mod-1", 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Reports, 4)

		// Overdue first (oldest leading), then urgent, then normal
		assert.Equal(t, olderOverdue.ID, page.Reports[0].ID)
		assert.Equal(t, TierOverdue, page.Reports[0].Tier)
		assert.Equal(t, overdue.ID, page.Reports[1].ID)
		assert.Equal(t, urgent.ID, page.Reports[2].ID)
		assert.Equal(t, TierUrgent, page.Reports[2].Tier)
		assert.Equal(t, fresh.ID, page.Reports[3].ID)
		assert.Equal(t, TierNormal, page.Reports[3].Tier)

		// Deadline is always creation + review window
		assert.Equal(t, page.Reports[3].CreatedAt.Add(ReviewWindow), page.Reports[3].Deadline)
	})

	t.Run("paginates with totals", func(t *testing.T) {
		te := newTestEngine(t)

		for i := 0; i < 5; i++ {
			te.fileReport(t, "post-1", time.Duration(i+1)*time.Hour)
		}

		page, err := te.engine.ListPending(ctx, "mod-1", 1, 2)
		require.NoError(t, err)
		assert.Len(t, page.Reports, 2)
		assert.Equal(t, 5, page.Total)
		assert.True(t, page.HasMore)

		last, err := te.engine.ListPending(ctx, "mod-1", 3, 2)
		require.NoError(t, err)
		assert.Len(t, last.Reports, 1)
		assert.False(t, last.HasMore)

		empty, err := te.engine.ListPending(ctx, "mod-1", 9, 2)
		require.NoError(t, err)
		assert.Empty(t, empty.Reports)
		assert.Equal(t, 5, empty.Total)
	})

	t.Run("excludes resolved reports", func(t *testing.T) {
		te := newTestEngine(t)

		keep := te.fileReport(t, "post-1", 1*time.Hour)
		done := te.fileReport(t, "post-1", 2*time.Hour)

		_, err := te.engine.Resolve(ctx, "mod-1", done.ID, Action{Kind: ActionDismiss})
		require.NoError(t, err)

		page, err := te.engine.ListPending(ctx, "mod-1", 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Reports, 1)
		assert.Equal(t, keep.ID, page.Reports[0].ID)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("approve issues removal and suspension once", func(t *testing.T) {
		te := newTestEngine(t)
		report := te.fileReport(t, "post-1", time.Hour)

		outcome, err := te.engine.Resolve(ctx, "mod-1", report.ID, Action{Kind: ActionApprove, Notes: "clear violation"})
		require.NoError(t, err)

		assert.True(t, outcome.Applied)
		assert.Equal(t, ReportStatusResolved, outcome.Report.Status)
		assert.Equal(t, "mod-1", outcome.Report.ModeratorID)
		assert.Equal(t, "clear violation", outcome.Report.ModeratorNotes)
		require.NotNil(t, outcome.Report.ResolvedAt)

		cmds := te.sink.all()
		require.Len(t, cmds, 2)
		assert.Equal(t, CommandRemoveContent, cmds[0].Kind)
		assert.Equal(t, report.ID, cmds[0].IdempotencyKey)
		assert.Equal(t, "post-1", cmds[0].ContentID)
		assert.Equal(t, CommandSuspendUser, cmds[1].Kind)
		assert.Equal(t, report.ID, cmds[1].IdempotencyKey)
		assert.Equal(t, "author-1", cmds[1].UserID)
	})

	t.Run("dismiss issues no commands", func(t *testing.T) {
		te := newTestEngine(t)
		report := te.fileReport(t, "post-1", time.Hour)

		outcome, err := te.engine.Resolve(ctx, "mod-1", report.ID, Action{Kind: ActionDismiss})
		require.NoError(t, err)

		assert.True(t, outcome.Applied)
		assert.Equal(t, ReportStatusDismissed, outcome.Report.Status)
		assert.Empty(t, te.sink.all())
	})

	t.Run("replay returns recorded outcome without new side effects", func(t *testing.T) {
		te := newTestEngine(t)
		report := te.fileReport(t, "post-1", time.Hour)

		first, err := te.engine.Resolve(ctx, "mod-1", report.ID, Action{Kind: ActionApprove})
		require.NoError(t, err)
		require.True(t, first.Applied)

		// Same call again, as a client retry after timeout would do.
		second, err := te.engine.Resolve(ctx, "mod-1", report.ID, Action{Kind: ActionApprove})
		require.NoError(t, err)

		assert.False(t, second.Applied)
		assert.Equal(t, ReportStatusResolved, second.Report.Status)
		assert.Equal(t, first.Report.ResolvedAt, second.Report.ResolvedAt)
		assert.Len(t, te.sink.all(), 2)

		// A different verdict on a terminal report is also absorbed.
		third, err := te.engine.Resolve(ctx, "admin-1", report.ID, Action{Kind: ActionDismiss})
		require.NoError(t, err)
		assert.False(t, third.Applied)
		assert.Equal(t, ReportStatusResolved, third.Report.Status)
		assert.Equal(t, "mod-1", third.Report.ModeratorID)
	})

	t.Run("unknown report", func(t *testing.T) {
		te := newTestEngine(t)

		_, err := te.engine.Resolve(ctx, "mod-1", "missing", Action{Kind: ActionApprove})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid action", func(t *testing.T) {
		te := newTestEngine(t)
		report := te.fileReport(t, "post-1", time.Hour)

		_, err := te.engine.Resolve(ctx, "mod-1", report.ID, Action{Kind: "escalate"})
		assert.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("requires resolve permission", func(t *testing.T) {
		te := newTestEngine(t)
		report := te.fileReport(t, "post-1", time.Hour)

		_, err := te.engine.Resolve(ctx, "random-user", report.ID, Action{Kind: ActionApprove})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("writes an audit entry", func(t *testing.T) {
		te := newTestEngine(t)
		report := te.fileReport(t, "post-1", time.Hour)

		_, err := te.engine.Resolve(ctx, "mod-1", report.ID, Action{Kind: ActionApprove, Notes: "spam ring"})
		require.NoError(t, err)

		entries, err := te.engine.AuditLog(ctx, "admin-1", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, AuditActionResolveReport, entries[0].Action)
		assert.Equal(t, "mod-1", entries[0].ActorID)
		assert.Equal(t, report.ID, entries[0].ReportID)
	})
}

func TestResolveConcurrent(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	report := te.fileReport(t, "post-1", time.Hour)

	const callers = 8
	outcomes := make([]*ResolveOutcome, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			moderator := "mod-1"
			if i%2 == 0 {
				moderator = "admin-1"
			}
			outcome, err := te.engine.Resolve(ctx, moderator, report.ID, Action{Kind: ActionApprove})
			assert.NoError(t, err)
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	var applied int
	for _, o := range outcomes {
		require.NotNil(t, o)
		assert.Equal(t, ReportStatusResolved, o.Report.Status)
		if o.Applied {
			applied++
		}
	}
	assert.Equal(t, 1, applied, "exactly one caller should win the transition")
	assert.Len(t, te.sink.all(), 2, "side effects issued exactly once")
}

func TestBanUser(t *testing.T) {
	ctx := context.Background()

	t.Run("enqueues suspension for existing user", func(t *testing.T) {
		te := newTestEngine(t)

		err := te.engine.BanUser(ctx, "admin-1", "author-2", "ban evasion")
		require.NoError(t, err)

		cmds := te.sink.all()
		require.Len(t, cmds, 1)
		assert.Equal(t, CommandSuspendUser, cmds[0].Kind)
		assert.Equal(t, "author-2", cmds[0].UserID)
		assert.NotEmpty(t, cmds[0].IdempotencyKey)

		entries, err := te.engine.AuditLog(ctx, "admin-1", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, AuditActionBanUser, entries[0].Action)
		assert.Equal(t, entries[0].ID, cmds[0].IdempotencyKey)
	})

	t.Run("unknown user", func(t *testing.T) {
		te := newTestEngine(t)

		err := te.engine.BanUser(ctx, "admin-1", "ghost", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("plain moderators cannot ban", func(t *testing.T) {
		te := newTestEngine(t)

		err := te.engine.BanUser(ctx, "mod-1", "author-2", "")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestBlocks(t *testing.T) {
	ctx := context.Background()

	t.Run("block is directional", func(t *testing.T) {
		te := newTestEngine(t)

		require.NoError(t, te.engine.Block(ctx, "alice", "bob"))

		blocked, err := te.engine.IsBlocked(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.True(t, blocked)

		reverse, err := te.engine.IsBlocked(ctx, "bob", "alice")
		require.NoError(t, err)
		assert.False(t, reverse)
	})

	t.Run("self block rejected", func(t *testing.T) {
		te := newTestEngine(t)
		assert.ErrorIs(t, te.engine.Block(ctx, "alice", "alice"), ErrSelfBlock)
	})

	t.Run("double block keeps original timestamp", func(t *testing.T) {
		te := newTestEngine(t)

		require.NoError(t, te.engine.Block(ctx, "alice", "bob"))
		firstAt := te.now

		te.now = te.now.Add(time.Hour)
		require.NoError(t, te.engine.Block(ctx, "alice", "bob"))

		page, err := te.engine.ListBlocked(ctx, "alice", 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Blocked, 1)
		assert.Equal(t, firstAt, page.Blocked[0].BlockedAt)
	})

	t.Run("unblock is idempotent", func(t *testing.T) {
		te := newTestEngine(t)

		require.NoError(t, te.engine.Block(ctx, "alice", "bob"))
		require.NoError(t, te.engine.Unblock(ctx, "alice", "bob"))
		require.NoError(t, te.engine.Unblock(ctx, "alice", "bob"))

		blocked, err := te.engine.IsBlocked(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("list paginates newest first", func(t *testing.T) {
		te := newTestEngine(t)

		for _, other := range []string{"bob", "carol", "dave"} {
			require.NoError(t, te.engine.Block(ctx, "alice", other))
			te.now = te.now.Add(time.Minute)
		}

		page, err := te.engine.ListBlocked(ctx, "alice", 1, 2)
		require.NoError(t, err)
		require.Len(t, page.Blocked, 2)
		assert.Equal(t, "dave", page.Blocked[0].BlockedID)
		assert.Equal(t, "carol", page.Blocked[1].BlockedID)
		assert.Equal(t, 3, page.Total)
		assert.True(t, page.HasMore)

		_, err = te.engine.ListBlocked(ctx, "alice", 0, 2)
		assert.ErrorIs(t, err, ErrInvalidPagination)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	t.Run("requires stats permission", func(t *testing.T) {
		te := newTestEngine(t)

		_, err := te.engine.Stats(ctx, "random-user")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("aggregates pending, resolved today, and latency", func(t *testing.T) {
		te := newTestEngine(t)

		te.fileReport(t, "post-1", time.Hour)
		te.fileReport(t, "post-1", 2*time.Hour)

		// Resolved 4 hours after filing, earlier today
		aged := te.fileReport(t, "post-2", 6*time.Hour)
		saved := te.now
		te.now = saved.Add(-2 * time.Hour)
		_, err := te.engine.Resolve(ctx, "mod-1", aged.ID, Action{Kind: ActionApprove})
		require.NoError(t, err)
		te.now = saved

		stats, err := te.engine.Stats(ctx, "mod-1")
		require.NoError(t, err)

		assert.Equal(t, 2, stats.PendingReports)
		assert.Equal(t, 1, stats.ResolvedToday)
		assert.InDelta(t, 4.0, stats.AverageResponseTimeHours, 0.01)
		assert.Equal(t, 100, stats.TotalUsers)
		assert.Equal(t, 3, stats.BannedUsers)
	})

	t.Run("zero resolved reports means zero latency", func(t *testing.T) {
		te := newTestEngine(t)

		stats, err := te.engine.Stats(ctx, "mod-1")
		require.NoError(t, err)
		assert.Zero(t, stats.AverageResponseTimeHours)
		assert.Zero(t, stats.ResolvedToday)
	})
}
