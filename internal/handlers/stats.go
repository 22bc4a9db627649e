package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// HandleStats returns the moderation rollup. It is recomputed on every
// call, so the numbers are always current.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	moderatorID := requireActor(w, r)
	if moderatorID == "" {
		return
	}

	stats, err := h.engine.Stats(ctx, moderatorID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleAuditLog returns the most recent moderation actions.
func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	moderatorID := requireActor(w, r)
	if moderatorID == "" {
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.engine.AuditLog(ctx, moderatorID, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// auditExportLimit caps how many entries a single export carries.
const auditExportLimit = 10000

// HandleAuditExport streams the audit log as zstd-compressed JSON lines
// for offline analysis.
func (h *Handler) HandleAuditExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	moderatorID := requireActor(w, r)
	if moderatorID == "" {
		return
	}

	entries, err := h.engine.AuditLog(ctx, moderatorID, auditExportLimit)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	filename := fmt.Sprintf("audit-%s.jsonl.zst", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zstd")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	enc, err := zstd.NewWriter(w)
	if err != nil {
		log.Error().Err(err).Msg("failed to create zstd writer for audit export")
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer enc.Close()

	out := json.NewEncoder(enc)
	for _, entry := range entries {
		if err := out.Encode(entry); err != nil {
			log.Error().Err(err).Msg("failed to encode audit entry during export")
			return
		}
	}
}
