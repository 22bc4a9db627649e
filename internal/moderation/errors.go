package moderation

import "errors"

// Sentinel errors surfaced to callers. Validation errors are rejected
// before any store access; authorization and not-found errors cause no
// state change. A retried resolution of an already-terminal report is
// NOT an error: it is absorbed into idempotent success.
var (
	ErrInvalidReason      = errors.New("invalid report reason")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidAction      = errors.New("invalid moderation action")
	ErrInvalidPagination  = errors.New("invalid pagination")
	ErrNotVisible         = errors.New("content not visible to reporter")
	ErrForbidden          = errors.New("moderator permission required")
	ErrNotFound           = errors.New("not found")
	ErrSelfBlock          = errors.New("cannot block yourself")
)
