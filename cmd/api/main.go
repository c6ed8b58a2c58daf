// Package main is the entry point for the nightcrew API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pkordes/nightcrew/backend/internal/cache"
	"github.com/pkordes/nightcrew/backend/internal/config"
	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/handler"
	"github.com/pkordes/nightcrew/backend/internal/middleware"
	"github.com/pkordes/nightcrew/backend/internal/mutation"
	"github.com/pkordes/nightcrew/backend/internal/remote"
	"github.com/pkordes/nightcrew/backend/internal/repo"
	"github.com/pkordes/nightcrew/backend/internal/seed"
	"github.com/pkordes/nightcrew/backend/internal/service"
	"github.com/pkordes/nightcrew/backend/internal/wizard"
	"github.com/pkordes/nightcrew/backend/migrations"
	"github.com/pkordes/nightcrew/backend/spec"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	catalog, err := seed.Load()
	if err != nil {
		slog.Error("failed to load catalogue", "error", err)
		os.Exit(1)
	}

	// --- Storage ----------------------------------------------------------
	var (
		groups   repo.GroupRepo
		messages repo.MessageRepo
	)
	if cfg.UseDatabase() {
		pool, err := openDatabase(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		groups = repo.NewGroupRepo(pool)
		messages = repo.NewMessageRepo(pool)
		if err := seedDatabase(context.Background(), messages, catalog); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
		slog.Info("database connection established")
	} else {
		groups = repo.NewMemoryGroupRepo()
		messages = repo.NewMemoryMessageRepo(catalog.Conversations, catalog.Messages)
		slog.Info("using in-memory storage")
	}

	// --- Services ---------------------------------------------------------
	backend := remote.NewBackend(groups, messages, remote.Options{
		Latency:     cfg.SimulatedLatency,
		FailureRate: cfg.SimulatedFailureRate,
	}, logger)

	guard := mutation.NewGuard()
	notifier := service.LogNotifier{Log: logger}
	groupSvc := service.NewGroupService(backend, guard, notifier, logger)
	messageSvc := service.NewMessageService(backend, cache.New[[]domain.ChatMessage](), guard, notifier, logger,
		service.MessageOptions{RefetchOnSettle: cfg.RefetchOnSettle})

	drafts := wizard.NewRegistry(logger)
	srv := handler.NewServer(drafts, groupSvc, messageSvc, catalog, spec.OpenAPI, logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepDrafts(sweepCtx, drafts, cfg.DraftIdleTimeout)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv)

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for the simulated latency on top of real work.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + cfg.SimulatedLatency,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase connects to Postgres and applies pending migrations.
func openDatabase(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	// goose drives migrations through database/sql; share the pool's config.
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	n, err := migrations.Up(ctx, sqlDB)
	if err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("migrations applied", "count", n)
	return pool, nil
}

// seedDatabase upserts the catalogue conversations and inserts their sample
// messages into conversations that have none yet.
func seedDatabase(ctx context.Context, messages repo.MessageRepo, catalog seed.Catalog) error {
	for _, c := range catalog.Conversations {
		if err := messages.UpsertConversation(ctx, c); err != nil {
			return err
		}
		existing, err := messages.ListByConversation(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		for _, m := range catalog.Messages {
			if m.ConversationID != c.ID {
				continue
			}
			if _, err := messages.Create(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// sweepDrafts evicts idle wizard drafts until ctx is cancelled.
func sweepDrafts(ctx context.Context, drafts *wizard.Registry, idle time.Duration) {
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			drafts.Sweep(idle)
		}
	}
}
