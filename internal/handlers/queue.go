package handlers

import (
	"encoding/json"
	"net/http"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// HandleListQueue returns one page of the review queue, most pressing
// reports first.
func (h *Handler) HandleListQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	moderatorID := requireActor(w, r)
	if moderatorID == "" {
		return
	}

	page, limit := h.pagination(r)

	queue, err := h.engine.ListPending(ctx, moderatorID, page, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queue)
}

// ResolveRequest represents the JSON request for resolving a report
type ResolveRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes,omitempty"`
}

// HandleResolveReport applies a moderator's decision to a report.
// Retrying the same resolution after a timeout is safe: the recorded
// outcome comes back without duplicated side effects.
func (h *Handler) HandleResolveReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	moderatorID := requireActor(w, r)
	if moderatorID == "" {
		return
	}

	reportID := r.PathValue("id")
	if reportID == "" {
		writeError(w, "report id is required", http.StatusBadRequest)
		return
	}

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	outcome, err := h.engine.Resolve(ctx, moderatorID, reportID, moderation.Action{
		Kind:  moderation.ActionKind(req.Action),
		Notes: req.Notes,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// BanRequest represents the JSON request for a direct user ban
type BanRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason,omitempty"`
}

// HandleBanUser suspends a user directly, outside any report.
func (h *Handler) HandleBanUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	moderatorID := requireActor(w, r)
	if moderatorID == "" {
		return
	}

	var req BanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		writeError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if err := h.engine.BanUser(ctx, moderatorID, req.UserID, req.Reason); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Suspension issued",
	})
}
