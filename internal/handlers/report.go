package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// MaxDetailsLength is the maximum length of free-text report details
const MaxDetailsLength = 500

// ReportRequest represents the JSON request for submitting a report
type ReportRequest struct {
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
	Reason      string `json:"reason"`
	Details     string `json:"details,omitempty"`
}

// ReportResponse represents the JSON response from report submission
type ReportResponse struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleReport handles report submissions.
// Requires a caller identity, validates input, delegates visibility to
// the content service, and persists the report as pending.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reporterID := requireActor(w, r)
	if reporterID == "" {
		return
	}

	var req ReportRequest
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		req.ContentID = r.FormValue("content_id")
		req.ContentType = r.FormValue("content_type")
		req.Reason = r.FormValue("reason")
		req.Details = r.FormValue("details")
	}

	if req.ContentID == "" {
		writeError(w, "content_id is required", http.StatusBadRequest)
		return
	}

	details := strings.TrimSpace(req.Details)
	if len(details) > MaxDetailsLength {
		details = details[:MaxDetailsLength]
	}

	report, err := h.engine.FileReport(ctx, reporterID, req.ContentID,
		moderation.ContentType(req.ContentType),
		moderation.ReportReason(req.Reason), details)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ReportResponse{
		ID:      report.ID,
		Status:  "received",
		Message: "Thank you for your report. It will be reviewed by a moderator.",
	})
}

// HandleListReasons returns the closed set of report reasons so clients
// can render the report form without hardcoding it.
func (h *Handler) HandleListReasons(w http.ResponseWriter, r *http.Request) {
	type reason struct {
		Reason          string `json:"reason"`
		Label           string `json:"label"`
		Severity        string `json:"severity"`
		DetailsExpected bool   `json:"details_expected"`
	}

	reasons := make([]reason, 0, len(moderation.AllReasons()))
	for _, rr := range moderation.AllReasons() {
		info := rr.Info()
		reasons = append(reasons, reason{
			Reason:          string(rr),
			Label:           info.Label,
			Severity:        string(info.Severity),
			DetailsExpected: info.DetailsExpected,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"reasons": reasons})
}
