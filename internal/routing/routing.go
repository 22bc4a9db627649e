package routing

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tangled.org/vigil.social/vigil/internal/handlers"
	"tangled.org/vigil.social/vigil/internal/middleware"
)

// Config holds the configuration needed for setting up routes
type Config struct {
	Handlers *handlers.Handler
	Logger   zerolog.Logger
}

// SetupRouter creates and configures the HTTP router with all routes and middleware
func SetupRouter(cfg Config) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Create CrossOriginProtection for CSRF protection
	cop := http.NewCrossOriginProtection()

	// Report intake
	mux.Handle("POST /api/reports", cop.Handler(http.HandlerFunc(h.HandleReport)))
	mux.HandleFunc("GET /api/reports/reasons", h.HandleListReasons)

	// Moderator surface
	mux.HandleFunc("GET /api/mod/reports", h.HandleListQueue)
	mux.Handle("POST /api/mod/reports/{id}/resolve", cop.Handler(http.HandlerFunc(h.HandleResolveReport)))
	mux.Handle("POST /api/mod/ban", cop.Handler(http.HandlerFunc(h.HandleBanUser)))
	mux.HandleFunc("GET /api/mod/stats", h.HandleStats)
	mux.HandleFunc("GET /api/mod/audit", h.HandleAuditLog)
	mux.HandleFunc("GET /api/mod/audit/export", h.HandleAuditExport)

	// Blocks
	mux.Handle("POST /api/blocks", cop.Handler(http.HandlerFunc(h.HandleBlock)))
	mux.Handle("DELETE /api/blocks/{id}", cop.Handler(http.HandlerFunc(h.HandleUnblock)))
	mux.HandleFunc("GET /api/blocks", h.HandleListBlocks)
	mux.HandleFunc("GET /api/blocks/check", h.HandleCheckBlock)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware in order (outermost first, innermost last)
	var handler http.Handler = mux

	// 1. Limit request body size (innermost - runs first on request)
	handler = middleware.LimitBodyMiddleware(handler)

	// 2. Extract caller identity from gateway headers
	handler = middleware.IdentityMiddleware(handler)

	// 3. Apply security headers
	handler = middleware.SecurityHeadersMiddleware(handler)

	// 4. Apply logging middleware
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	// 5. OTel HTTP instrumentation (outermost - wraps everything)
	handler = otelhttp.NewHandler(handler, "vigil")

	return handler
}
