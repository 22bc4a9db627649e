package handlers

import (
	"encoding/json"
	"net/http"
)

// BlockRequest represents the JSON request for blocking a user
type BlockRequest struct {
	BlockedID string `json:"blocked_id"`
}

// HandleBlock records a block of another user by the caller.
func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	blockerID := requireActor(w, r)
	if blockerID == "" {
		return
	}

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.BlockedID == "" {
		writeError(w, "blocked_id is required", http.StatusBadRequest)
		return
	}

	if err := h.engine.Block(ctx, blockerID, req.BlockedID); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleUnblock removes a block. Unblocking a user who was never
// blocked succeeds.
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	blockerID := requireActor(w, r)
	if blockerID == "" {
		return
	}

	blockedID := r.PathValue("id")
	if blockedID == "" {
		writeError(w, "blocked user id is required", http.StatusBadRequest)
		return
	}

	if err := h.engine.Unblock(ctx, blockerID, blockedID); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleListBlocks returns one page of the caller's block list.
func (h *Handler) HandleListBlocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	blockerID := requireActor(w, r)
	if blockerID == "" {
		return
	}

	page, limit := h.pagination(r)

	blocks, err := h.engine.ListBlocked(ctx, blockerID, page, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blocks)
}

// HandleCheckBlock reports whether the caller has blocked another user.
// Serving collaborators call this before showing content or delivering
// messages.
func (h *Handler) HandleCheckBlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	blockerID := requireActor(w, r)
	if blockerID == "" {
		return
	}

	otherID := r.URL.Query().Get("other")
	if otherID == "" {
		writeError(w, "other is required", http.StatusBadRequest)
		return
	}

	blocked, err := h.engine.IsBlocked(ctx, blockerID, otherID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"blocked": blocked})
}
