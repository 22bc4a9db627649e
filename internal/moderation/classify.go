package moderation

import "time"

// Tier is the urgency classification of a pending report, derived from
// its age against the review window. It is computed at read time and
// never persisted, so it is always consistent with wall-clock time
// without background jobs.
type Tier string

const (
	TierNormal  Tier = "normal"
	TierUrgent  Tier = "urgent"
	TierOverdue Tier = "overdue"
)

const (
	// ReviewWindow is the service-level commitment for reviewing a report.
	ReviewWindow = 24 * time.Hour

	// UrgentThreshold is how much of the window may remain before a
	// report is flagged urgent.
	UrgentThreshold = 4 * time.Hour
)

// Deadline returns the moment the review window for a report closes.
func Deadline(createdAt time.Time) time.Time {
	return createdAt.Add(ReviewWindow)
}

// Classify maps a report's age to an urgency tier:
// overdue when the window has elapsed, urgent when at most
// UrgentThreshold remains, normal otherwise.
func Classify(createdAt, now time.Time) Tier {
	remaining := Deadline(createdAt).Sub(now)
	switch {
	case remaining <= 0:
		return TierOverdue
	case remaining <= UrgentThreshold:
		return TierUrgent
	default:
		return TierNormal
	}
}

// tierRank orders tiers for queue sorting, most pressing first.
func tierRank(t Tier) int {
	switch t {
	case TierOverdue:
		return 0
	case TierUrgent:
		return 1
	default:
		return 2
	}
}
