package moderation

import (
	"context"
	"time"
)

// Resolution is the terminal state written to a report by a moderator
// action. ResolvedAt is set exactly once, by the call that wins the
// transition.
type Resolution struct {
	Status      ReportStatus
	ModeratorID string
	Notes       string
	ResolvedAt  time.Time
}

// ReportStore defines the persistence interface for reports.
// Implementations must be safe for concurrent use.
//
// Lookup methods return (nil, nil) for missing reports; the engine maps
// that to ErrNotFound.
type ReportStore interface {
	CreateReport(ctx context.Context, report Report) error
	GetReport(ctx context.Context, id string) (*Report, error)

	// ListPendingReports returns all reports with pending status, in
	// ascending creation order. Urgency ordering is layered on by the
	// engine at read time.
	ListPendingReports(ctx context.Context) ([]Report, error)

	// TransitionReport atomically applies res to the report iff its
	// status is still pending, and reports whether this call performed
	// the transition. If the report is already terminal the stored
	// report is returned unchanged with applied=false. Exactly one of
	// two concurrent calls for the same id may observe applied=true.
	TransitionReport(ctx context.Context, id string, res Resolution) (report *Report, applied bool, err error)

	CountPendingReports(ctx context.Context) (int, error)
	CountResolvedBetween(ctx context.Context, from, to time.Time) (int, error)

	// ListResolvedSince returns reports whose resolution landed at or
	// after since, for response-latency rollups.
	ListResolvedSince(ctx context.Context, since time.Time) ([]Report, error)
}

// BlockStore defines the persistence interface for directed block
// relationships. Implementations must be safe for concurrent use.
type BlockStore interface {
	// PutBlock records the relationship if absent and reports whether a
	// new row was created. An existing row is left untouched, keeping
	// its original CreatedAt.
	PutBlock(ctx context.Context, block UserBlock) (created bool, err error)

	// DeleteBlock removes the row for the ordered pair. Deleting a
	// non-existent relationship succeeds silently.
	DeleteBlock(ctx context.Context, blockerID, blockedID string) error

	HasBlock(ctx context.Context, blockerID, blockedID string) (bool, error)

	// ListBlocks returns all blocks created by blockerID, newest first.
	ListBlocks(ctx context.Context, blockerID string) ([]UserBlock, error)
}

// AuditStore records moderation actions for later review.
type AuditStore interface {
	LogAction(ctx context.Context, entry AuditEntry) error

	// ListAuditLog returns the most recent entries, newest first.
	ListAuditLog(ctx context.Context, limit int) ([]AuditEntry, error)
}
