package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tangled.org/vigil.social/vigil/internal/collab"
	"tangled.org/vigil.social/vigil/internal/database/boltstore"
	"tangled.org/vigil.social/vigil/internal/database/gormstore"
	"tangled.org/vigil.social/vigil/internal/database/sqlitestore"
	"tangled.org/vigil.social/vigil/internal/handlers"
	"tangled.org/vigil.social/vigil/internal/metrics"
	"tangled.org/vigil.social/vigil/internal/moderation"
	"tangled.org/vigil.social/vigil/internal/routing"
	"tangled.org/vigil.social/vigil/internal/tracing"
)

func main() {
	// Configure zerolog
	// Set log level from environment (default: info)
	logLevel := os.Getenv("LOG_LEVEL")
	switch logLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Use pretty console logging in development, JSON in production
	if os.Getenv("LOG_FORMAT") == "json" {
		// Production: JSON logs
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Development: pretty console logs
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	log.Info().Msg("Starting Vigil moderation service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Get port from env or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "18920"
	}

	// Tracing is opt-in: only wired when an OTLP endpoint is configured
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tp, err := tracing.Init(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shut down tracer provider")
			}
		}()
		log.Info().Msg("Tracing initialized")
	}

	// Open storage. The backend is selected by env:
	//   bolt (default) - embedded bbolt file
	//   sqlite         - embedded SQLite file
	//   postgres       - shared Postgres via VIGIL_POSTGRES_DSN
	reports, blocks, audit, closeStore := openStores(ctx)
	defer closeStore()

	// Moderator allow-list
	rosterPath := os.Getenv("VIGIL_MODERATORS_PATH")
	roster, err := moderation.NewRoster(rosterPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", rosterPath).Msg("Failed to load moderator roster")
	}
	if !roster.IsEnabled() {
		log.Warn().Msg("No moderators configured; moderator endpoints will reject all callers")
	}

	// Collaborator clients
	contentURL := os.Getenv("CONTENT_SERVICE_URL")
	if contentURL == "" {
		contentURL = "http://localhost:18921"
	}
	userURL := os.Getenv("USER_SERVICE_URL")
	if userURL == "" {
		userURL = "http://localhost:18922"
	}
	contentClient := collab.NewContentClient(contentURL)
	userClient := collab.NewUserClient(userURL)
	log.Info().
		Str("content_service", contentURL).
		Str("user_service", userURL).
		Msg("Collaborator clients initialized")

	// Command dispatcher for downstream side effects
	dispatcher := moderation.NewDispatcher(contentClient, userClient)
	dispatcher.Start(ctx)

	engine := moderation.NewEngine(reports, blocks, audit, roster, contentClient, userClient, dispatcher)

	// Periodic queue-depth gauges
	metrics.StartCollector(ctx, metrics.StatsSource{
		PendingCount: func() int {
			n, err := engine.CountPending(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Failed to count pending reports for metrics")
				return 0
			}
			return n
		},
		OverdueCount: func() int {
			n, err := engine.CountOverdue(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Failed to count overdue reports for metrics")
				return 0
			}
			return n
		},
	}, time.Minute)

	h := handlers.NewHandler(engine, handlers.DefaultConfig())

	handler := routing.SetupRouter(routing.Config{
		Handlers: h,
		Logger:   log.Logger,
	})

	server := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("address", server.Addr).
			Str("url", "http://localhost:"+port).
			Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	dispatcher.Wait()
}

// openStores opens the configured storage backend and returns the three
// store interfaces plus a close function.
func openStores(ctx context.Context) (moderation.ReportStore, moderation.BlockStore, moderation.AuditStore, func()) {
	backend := os.Getenv("VIGIL_DB_BACKEND")

	switch backend {
	case "postgres":
		dsn := os.Getenv("VIGIL_POSTGRES_DSN")
		if dsn == "" {
			log.Fatal().Msg("VIGIL_POSTGRES_DSN is required for the postgres backend")
		}
		store, err := gormstore.Open(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open postgres database")
		}
		log.Info().Str("backend", "postgres").Msg("Database opened")
		return store.ReportStore(), store.BlockStore(), store.AuditStore(), func() { store.Close() }

	case "sqlite":
		path := dbPath("vigil.sqlite")
		db, err := sqlitestore.Open(ctx, path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to open sqlite database")
		}
		log.Info().Str("backend", "sqlite").Str("path", path).Msg("Database opened")
		return sqlitestore.NewReportStore(db), sqlitestore.NewBlockStore(db), sqlitestore.NewAuditStore(db), func() { db.Close() }

	case "bolt", "":
		path := dbPath("vigil.db")
		store, err := boltstore.Open(boltstore.Options{Path: path})
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to open database")
		}
		log.Info().Str("backend", "bolt").Str("path", path).Msg("Database opened")
		return store.ReportStore(), store.BlockStore(), store.AuditStore(), func() { store.Close() }

	default:
		log.Fatal().Str("backend", backend).Msg("Unknown VIGIL_DB_BACKEND")
		return nil, nil, nil, nil
	}
}

// dbPath resolves the on-disk database location for embedded backends.
func dbPath(filename string) string {
	if p := os.Getenv("VIGIL_DB_PATH"); p != "" {
		return p
	}
	// Default to XDG data directory or home directory for development
	// This avoids issues when running from read-only locations
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get home directory")
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "vigil", filename)
}
