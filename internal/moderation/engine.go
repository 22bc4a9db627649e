package moderation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tangled.org/vigil.social/vigil/internal/metrics"
	"tangled.org/vigil.social/vigil/internal/tracing"
)

// statsWindow is the trailing window over which mean resolution latency
// is computed.
const statsWindow = 30 * 24 * time.Hour

// ContentDirectory is the content collaborator's query surface. The
// engine never reaches into content storage directly; visibility checks
// and owner resolution are delegated here.
type ContentDirectory interface {
	// ResolveContent returns the reported content's owner and whether
	// the viewer can currently see it.
	ResolveContent(ctx context.Context, viewerID, contentID string, contentType ContentType) (ownerID string, visible bool, err error)
}

// UserDirectory is the user collaborator's query surface.
type UserDirectory interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	UserCounts(ctx context.Context) (total, banned int, err error)
}

// Engine coordinates report intake, the review queue, resolution with
// exactly-once side effects, user blocking, and the stats rollup.
// All shared mutable state lives in the stores; the engine itself is
// stateless and safe for concurrent use.
type Engine struct {
	reports  ReportStore
	blocks   BlockStore
	audit    AuditStore
	roster   *Roster
	content  ContentDirectory
	users    UserDirectory
	commands CommandSink

	now func() time.Time
}

// NewEngine creates a fully wired engine.
func NewEngine(
	reports ReportStore,
	blocks BlockStore,
	audit AuditStore,
	roster *Roster,
	content ContentDirectory,
	users UserDirectory,
	commands CommandSink,
) *Engine {
	return &Engine{
		reports:  reports,
		blocks:   blocks,
		audit:    audit,
		roster:   roster,
		content:  content,
		users:    users,
		commands: commands,
		now:      time.Now,
	}
}

// SetClock overrides the engine's time source. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Roster exposes the moderator allow-list for callers that need
// capability checks outside the engine's own operations.
func (e *Engine) Roster() *Roster {
	return e.roster
}

// generateTID generates a TID (timestamp-based identifier). TIDs sort
// lexically in creation order, which the stores rely on for
// chronological iteration.
func generateTID() string {
	return syntax.NewTIDNow(0).String()
}

// FileReport records a new report against content, a message, or a user.
// The reporter must currently be able to see the target; that check is
// delegated to the content collaborator. Duplicate reports by the same
// reporter accumulate as independent rows.
func (e *Engine) FileReport(ctx context.Context, reporterID, contentID string, contentType ContentType, reason ReportReason, details string) (*Report, error) {
	if !contentType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentType, contentType)
	}
	if !reason.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}

	ownerID, visible, err := e.content.ResolveContent(ctx, reporterID, contentID, contentType)
	if err != nil {
		return nil, fmt.Errorf("resolve reported content: %w", err)
	}
	if !visible {
		return nil, ErrNotVisible
	}

	report := Report{
		ID:             generateTID(),
		ReporterID:     reporterID,
		ReportedUserID: ownerID,
		ContentID:      contentID,
		ContentType:    contentType,
		Reason:         reason,
		Details:        strings.TrimSpace(details),
		Status:         ReportStatusPending,
		CreatedAt:      e.now(),
	}

	if err := e.reports.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	metrics.ReportsFiled.WithLabelValues(string(reason)).Inc()
	log.Info().
		Str("report_id", report.ID).
		Str("reporter_id", report.ReporterID).
		Str("reported_user_id", report.ReportedUserID).
		Str("content_type", string(report.ContentType)).
		Str("reason", string(report.Reason)).
		Msg("report filed")

	return &report, nil
}

// QueuedReport is a pending report as surfaced by the review queue,
// decorated with its urgency tier and review deadline.
type QueuedReport struct {
	Report
	Tier     Tier      `json:"tier"`
	Deadline time.Time `json:"deadline"`
}

// ReportPage is one page of the review queue.
type ReportPage struct {
	Reports []QueuedReport `json:"reports"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}

// ListPending returns one page of unresolved reports, ordered overdue
// first, then urgent, then normal, and within each tier oldest first so
// the longest-waiting report always surfaces at the top of its tier.
func (e *Engine) ListPending(ctx context.Context, moderatorID string, page, limit int) (*ReportPage, error) {
	if !e.roster.HasPermission(moderatorID, PermissionViewQueue) {
		return nil, ErrForbidden
	}
	if page < 1 || limit <= 0 {
		return nil, ErrInvalidPagination
	}

	pending, err := e.reports.ListPendingReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending reports: %w", err)
	}

	now := e.now()
	queued := make([]QueuedReport, 0, len(pending))
	for _, r := range pending {
		queued = append(queued, QueuedReport{
			Report:   r,
			Tier:     Classify(r.CreatedAt, now),
			Deadline: Deadline(r.CreatedAt),
		})
	}

	sort.SliceStable(queued, func(i, j int) bool {
		ri, rj := tierRank(queued[i].Tier), tierRank(queued[j].Tier)
		if ri != rj {
			return ri < rj
		}
		if !queued[i].CreatedAt.Equal(queued[j].CreatedAt) {
			return queued[i].CreatedAt.Before(queued[j].CreatedAt)
		}
		return queued[i].ID < queued[j].ID
	})

	total := len(queued)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &ReportPage{
		Reports: queued[start:end],
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: end < total,
	}, nil
}

// ResolveOutcome is the result of a resolve call. Applied is true only
// for the call that performed the transition; a replay of an
// already-terminal report returns the recorded outcome with
// Applied=false and issues no commands.
type ResolveOutcome struct {
	Report         *Report       `json:"report"`
	Applied        bool          `json:"applied"`
	CommandsIssued []CommandKind `json:"commands_issued,omitempty"`
}

// Resolve applies a moderator's decision to a report. The status
// transition is the durable source of truth: it happens atomically via
// compare-and-swap on the pending status, and downstream removal and
// suspension commands are issued exactly once, by the winning call,
// after the transition is durable. Downstream failures never roll the
// report back; the dispatcher retries them with the report id as
// idempotency key.
func (e *Engine) Resolve(ctx context.Context, moderatorID, reportID string, action Action) (*ResolveOutcome, error) {
	ctx, span := tracing.ResolveSpan(ctx, reportID, moderatorID)
	defer span.End()

	if !e.roster.HasPermission(moderatorID, PermissionResolveReport) {
		return nil, ErrForbidden
	}
	if !action.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action.Kind)
	}

	res := Resolution{
		Status:      action.Kind.terminalStatus(),
		ModeratorID: moderatorID,
		Notes:       strings.TrimSpace(action.Notes),
		ResolvedAt:  e.now(),
	}

	report, applied, err := e.reports.TransitionReport(ctx, reportID, res)
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("transition report: %w", err)
	}
	if report == nil {
		return nil, ErrNotFound
	}

	outcome := &ResolveOutcome{Report: report, Applied: applied}
	if !applied {
		// Retried resolution after a client timeout: return the recorded
		// outcome without re-issuing side effects.
		metrics.ResolutionReplays.Inc()
		log.Info().
			Str("report_id", reportID).
			Str("moderator_id", moderatorID).
			Str("status", string(report.Status)).
			Msg("resolve replay on terminal report, returning recorded outcome")
		return outcome, nil
	}

	if report.Status == ReportStatusResolved {
		e.commands.Enqueue(Command{
			Kind:           CommandRemoveContent,
			IdempotencyKey: report.ID,
			ContentID:      report.ContentID,
			ContentType:    report.ContentType,
		})
		e.commands.Enqueue(Command{
			Kind:           CommandSuspendUser,
			IdempotencyKey: report.ID,
			UserID:         report.ReportedUserID,
			Reason:         string(report.Reason),
		})
		outcome.CommandsIssued = []CommandKind{CommandRemoveContent, CommandSuspendUser}
	}

	metrics.ResolutionsTotal.WithLabelValues(string(action.Kind)).Inc()
	e.logAudit(ctx, AuditEntry{
		ID:        generateTID(),
		Action:    auditActionFor(action.Kind),
		ActorID:   moderatorID,
		TargetID:  report.ContentID,
		ReportID:  report.ID,
		Notes:     res.Notes,
		Timestamp: res.ResolvedAt,
	})

	log.Info().
		Str("report_id", report.ID).
		Str("moderator_id", moderatorID).
		Str("action", string(action.Kind)).
		Str("status", string(report.Status)).
		Int("commands_issued", len(outcome.CommandsIssued)).
		Msg("report resolved")

	return outcome, nil
}

func auditActionFor(kind ActionKind) AuditAction {
	if kind == ActionApprove {
		return AuditActionResolveReport
	}
	return AuditActionDismissReport
}

// BanUser issues a suspension for a user directly, outside any report.
func (e *Engine) BanUser(ctx context.Context, moderatorID, userID, reason string) error {
	if !e.roster.HasPermission(moderatorID, PermissionBanUser) {
		return ErrForbidden
	}

	exists, err := e.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	entry := AuditEntry{
		ID:        generateTID(),
		Action:    AuditActionBanUser,
		ActorID:   moderatorID,
		TargetID:  userID,
		Notes:     reason,
		Timestamp: e.now(),
	}

	e.commands.Enqueue(Command{
		Kind:           CommandSuspendUser,
		IdempotencyKey: entry.ID,
		UserID:         userID,
		Reason:         reason,
	})

	metrics.BansTotal.Inc()
	e.logAudit(ctx, entry)

	log.Info().
		Str("user_id", userID).
		Str("moderator_id", moderatorID).
		Str("reason", reason).
		Msg("user ban issued")

	return nil
}

// Block records a directed block relationship. Blocking an already
// blocked user is a no-op; the original CreatedAt is kept.
func (e *Engine) Block(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}

	created, err := e.blocks.PutBlock(ctx, UserBlock{
		BlockerID: blockerID,
		BlockedID: blockedID,
		CreatedAt: e.now(),
	})
	if err != nil {
		return fmt.Errorf("put block: %w", err)
	}

	if created {
		metrics.BlockOpsTotal.WithLabelValues("block").Inc()
		log.Info().
			Str("blocker_id", blockerID).
			Str("blocked_id", blockedID).
			Msg("block created")
	}
	return nil
}

// Unblock hard-deletes the relationship. Unblocking a user who was
// never blocked succeeds silently.
func (e *Engine) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if err := e.blocks.DeleteBlock(ctx, blockerID, blockedID); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	metrics.BlockOpsTotal.WithLabelValues("unblock").Inc()
	return nil
}

// IsBlocked reports whether a has blocked b. The check is directional:
// content-serving collaborators call this with (viewer, author), and
// messaging collaborators with (recipient, sender).
func (e *Engine) IsBlocked(ctx context.Context, a, b string) (bool, error) {
	return e.blocks.HasBlock(ctx, a, b)
}

// BlockedUser is one entry in a user's block list.
type BlockedUser struct {
	BlockedID string    `json:"blocked_id"`
	BlockedAt time.Time `json:"blocked_at"`
}

// BlockPage is one page of a user's block list.
type BlockPage struct {
	Blocked []BlockedUser `json:"blocked"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	Total   int           `json:"total"`
	HasMore bool          `json:"has_more"`
}

// ListBlocked returns one page of the users blocked by blockerID,
// newest block first.
func (e *Engine) ListBlocked(ctx context.Context, blockerID string, page, limit int) (*BlockPage, error) {
	if page < 1 || limit <= 0 {
		return nil, ErrInvalidPagination
	}

	blocks, err := e.blocks.ListBlocks(ctx, blockerID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	total := len(blocks)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	blocked := make([]BlockedUser, 0, end-start)
	for _, b := range blocks[start:end] {
		blocked = append(blocked, BlockedUser{BlockedID: b.BlockedID, BlockedAt: b.CreatedAt})
	}

	return &BlockPage{
		Blocked: blocked,
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: end < total,
	}, nil
}

// Stats recomputes the moderation rollup from the report store and the
// user collaborator. No side effects; safe to poll frequently.
func (e *Engine) Stats(ctx context.Context, moderatorID string) (*Stats, error) {
	if !e.roster.HasPermission(moderatorID, PermissionViewStats) {
		return nil, ErrForbidden
	}

	now := e.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := e.reports.CountPendingReports(gctx)
		if err != nil {
			return fmt.Errorf("count pending: %w", err)
		}
		stats.PendingReports = n
		return nil
	})

	g.Go(func() error {
		n, err := e.reports.CountResolvedBetween(gctx, startOfDay, now)
		if err != nil {
			return fmt.Errorf("count resolved today: %w", err)
		}
		stats.ResolvedToday = n
		return nil
	})

	g.Go(func() error {
		resolved, err := e.reports.ListResolvedSince(gctx, now.Add(-statsWindow))
		if err != nil {
			return fmt.Errorf("list resolved: %w", err)
		}
		stats.AverageResponseTimeHours = meanResponseHours(resolved)
		return nil
	})

	g.Go(func() error {
		total, banned, err := e.users.UserCounts(gctx)
		if err != nil {
			return fmt.Errorf("user counts: %w", err)
		}
		stats.TotalUsers = total
		stats.BannedUsers = banned
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func meanResponseHours(resolved []Report) float64 {
	var sum time.Duration
	var n int
	for _, r := range resolved {
		if r.ResolvedAt == nil {
			continue
		}
		sum += r.ResolvedAt.Sub(r.CreatedAt)
		n++
	}
	if n == 0 {
		return 0
	}
	return (sum / time.Duration(n)).Hours()
}

// AuditLog returns the most recent moderation actions, newest first.
func (e *Engine) AuditLog(ctx context.Context, moderatorID string, limit int) ([]AuditEntry, error) {
	if !e.roster.HasPermission(moderatorID, PermissionViewAuditLog) {
		return nil, ErrForbidden
	}
	if limit <= 0 {
		limit = 50
	}
	return e.audit.ListAuditLog(ctx, limit)
}

// CountOverdue counts pending reports past the review window. Used by
// the metrics collector.
func (e *Engine) CountOverdue(ctx context.Context) (int, error) {
	pending, err := e.reports.ListPendingReports(ctx)
	if err != nil {
		return 0, err
	}
	now := e.now()
	var n int
	for _, r := range pending {
		if Classify(r.CreatedAt, now) == TierOverdue {
			n++
		}
	}
	return n, nil
}

// CountPending counts pending reports. Used by the metrics collector.
func (e *Engine) CountPending(ctx context.Context) (int, error) {
	return e.reports.CountPendingReports(ctx)
}

// logAudit writes an audit entry, logging failures instead of failing
// the caller: the underlying moderation action is already durable.
func (e *Engine) logAudit(ctx context.Context, entry AuditEntry) {
	if e.audit == nil {
		return
	}
	if err := e.audit.LogAction(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("audit_action", string(entry.Action)).
			Str("target_id", entry.TargetID).
			Msg("failed to write audit entry")
	}
}
