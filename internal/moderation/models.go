package moderation

import "time"

// ContentType identifies what kind of thing a report points at.
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeMessage ContentType = "message"
	ContentTypeUser    ContentType = "user"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypePost, ContentTypeMessage, ContentTypeUser:
		return true
	}
	return false
}

// ReportReason is the closed enumeration of reasons a report can carry.
type ReportReason string

const (
	ReasonHarassment           ReportReason = "harassment"
	ReasonHateSpeech           ReportReason = "hate_speech"
	ReasonSpam                 ReportReason = "spam"
	ReasonInappropriateContent ReportReason = "inappropriate_content"
	ReasonScam                 ReportReason = "scam"
	ReasonViolence             ReportReason = "violence"
	ReasonSexualContent        ReportReason = "sexual_content"
	ReasonFalseInformation     ReportReason = "false_information"
	ReasonOther                ReportReason = "other"
)

// Severity buckets reasons for display and triage. It does not affect
// queue ordering, which is driven purely by report age.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityStandard Severity = "standard"
	SeverityHigh     Severity = "high"
)

// ReasonInfo carries the per-reason behavior: display label, severity
// bucket, and whether free-text details are expected alongside the reason.
type ReasonInfo struct {
	Label           string
	Severity        Severity
	DetailsExpected bool
}

var reasonInfo = map[ReportReason]ReasonInfo{
	ReasonHarassment:           {Label: "Harassment", Severity: SeverityHigh},
	ReasonHateSpeech:           {Label: "Hate speech", Severity: SeverityHigh},
	ReasonSpam:                 {Label: "Spam", Severity: SeverityLow},
	ReasonInappropriateContent: {Label: "Inappropriate content", Severity: SeverityStandard},
	ReasonScam:                 {Label: "Scam or fraud", Severity: SeverityHigh},
	ReasonViolence:             {Label: "Violence or threats", Severity: SeverityHigh},
	ReasonSexualContent:        {Label: "Sexual content", Severity: SeverityStandard},
	ReasonFalseInformation:     {Label: "False information", Severity: SeverityStandard},
	ReasonOther:                {Label: "Other", Severity: SeverityStandard, DetailsExpected: true},
}

// Valid reports whether r is a member of the closed reason enumeration.
func (r ReportReason) Valid() bool {
	_, ok := reasonInfo[r]
	return ok
}

// Info returns the behavior attached to this reason. The zero ReasonInfo
// is returned for unknown reasons.
func (r ReportReason) Info() ReasonInfo {
	return reasonInfo[r]
}

// AllReasons returns the closed reason enumeration in a stable order.
func AllReasons() []ReportReason {
	return []ReportReason{
		ReasonHarassment,
		ReasonHateSpeech,
		ReasonSpam,
		ReasonInappropriateContent,
		ReasonScam,
		ReasonViolence,
		ReasonSexualContent,
		ReasonFalseInformation,
		ReasonOther,
	}
}

// ReportStatus represents the state machine position of a report.
// A single moderator action moves pending directly to a terminal state;
// reviewed exists for callers that record an intermediate look but is
// never produced by this engine.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Terminal reports whether no further transition is permitted.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}

// Report is one user-submitted flag against content, a message, or a user.
type Report struct {
	ID             string       `json:"id"`
	ReporterID     string       `json:"reporter_id"`
	ReportedUserID string       `json:"reported_user_id"`
	ContentID      string       `json:"content_id"`
	ContentType    ContentType  `json:"content_type"`
	Reason         ReportReason `json:"reason"`
	Details        string       `json:"details,omitempty"`
	Status         ReportStatus `json:"status"`
	ModeratorID    string       `json:"moderator_id,omitempty"`
	ModeratorNotes string       `json:"moderator_notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
}

// ActionKind is a moderator's verdict on a report.
type ActionKind string

const (
	// ActionApprove means the report is valid: remove the content and
	// suspend the offending user.
	ActionApprove ActionKind = "approve"
	// ActionDismiss means no violation was found.
	ActionDismiss ActionKind = "dismiss"
)

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool {
	return k == ActionApprove || k == ActionDismiss
}

// terminalStatus maps an action to the terminal status it produces.
func (k ActionKind) terminalStatus() ReportStatus {
	if k == ActionApprove {
		return ReportStatusResolved
	}
	return ReportStatusDismissed
}

// Action is a moderator's decision as submitted.
type Action struct {
	Kind  ActionKind `json:"action"`
	Notes string     `json:"notes,omitempty"`
}

// UserBlock is a directed block relationship. Blocking is not symmetric:
// A blocking B says nothing about B blocking A.
type UserBlock struct {
	BlockerID string    `json:"blocker_id"`
	BlockedID string    `json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats is the derived moderation rollup. It is recomputed on every
// query and never stored.
type Stats struct {
	PendingReports           int     `json:"pending_reports"`
	ResolvedToday            int     `json:"resolved_today"`
	AverageResponseTimeHours float64 `json:"average_response_time_hours"`
	TotalUsers               int     `json:"total_users"`
	BannedUsers              int     `json:"banned_users"`
}

// AuditAction represents a type of logged moderation action.
type AuditAction string

const (
	AuditActionResolveReport AuditAction = "resolve_report"
	AuditActionDismissReport AuditAction = "dismiss_report"
	AuditActionBanUser       AuditAction = "ban_user"
)

// AuditEntry is one logged moderation action.
type AuditEntry struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	ActorID   string      `json:"actor_id"`
	TargetID  string      `json:"target_id"`
	ReportID  string      `json:"report_id,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
