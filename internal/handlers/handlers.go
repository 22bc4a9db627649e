package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tangled.org/vigil.social/vigil/internal/middleware"
	"tangled.org/vigil.social/vigil/internal/moderation"
)

// Config holds handler configuration options
type Config struct {
	// DefaultPageSize is used when a list endpoint receives no limit parameter
	DefaultPageSize int

	// MaxPageSize caps the limit parameter on list endpoints
	MaxPageSize int
}

// DefaultConfig returns the config used when none is supplied.
func DefaultConfig() Config {
	return Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

// Handler contains all HTTP handler methods and their dependencies.
// Dependencies are injected via the constructor for better testability.
type Handler struct {
	engine *moderation.Engine
	config Config
}

// NewHandler creates a new Handler with all required dependencies.
// This constructor pattern ensures the Handler is always fully initialized.
func NewHandler(engine *moderation.Engine, config Config) *Handler {
	if config.DefaultPageSize == 0 {
		config.DefaultPageSize = 20
	}
	if config.MaxPageSize == 0 {
		config.MaxPageSize = 100
	}
	return &Handler{
		engine: engine,
		config: config,
	}
}

// errorResponse is the JSON error shape for all endpoints.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, errorResponse{
		Status:  "error",
		Message: message,
	})
}

// writeEngineError maps engine errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, moderation.ErrInvalidReason),
		errors.Is(err, moderation.ErrInvalidContentType),
		errors.Is(err, moderation.ErrInvalidAction),
		errors.Is(err, moderation.ErrInvalidPagination),
		errors.Is(err, moderation.ErrSelfBlock):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, moderation.ErrNotVisible):
		// Invisible and non-existent content are indistinguishable to
		// the reporter.
		writeError(w, "content not found", http.StatusNotFound)
	case errors.Is(err, moderation.ErrForbidden):
		writeError(w, "moderator permission required", http.StatusForbidden)
	case errors.Is(err, moderation.ErrNotFound):
		writeError(w, "not found", http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("internal error handling request")
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

// requireActor extracts the caller identity from the request context.
// Writes a 401 and returns "" when the request carried no identity.
func requireActor(w http.ResponseWriter, r *http.Request) string {
	actorID := middleware.GetActorID(r.Context())
	if actorID == "" {
		writeError(w, "Authentication required", http.StatusUnauthorized)
	}
	return actorID
}

// pagination parses page/limit query parameters with defaults and caps.
func (h *Handler) pagination(r *http.Request) (page, limit int) {
	page = 1
	limit = h.config.DefaultPageSize

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit > h.config.MaxPageSize {
		limit = h.config.MaxPageSize
	}
	return page, limit
}

// isJSONRequest checks whether the request declares a JSON body.
func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
