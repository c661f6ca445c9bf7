package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/derdine/forum-service/internal/config"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/storage/sqlstore"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/password"
)

type reconciler interface {
	Reconcile(ctx context.Context) (types.ReconcileResult, error)
}

// CounterWorker periodically recomputes the denormalized thread and reply
// counters from the rows they summarize.
type CounterWorker struct {
	forum    reconciler
	interval time.Duration
	logger   *slog.Logger
}

func NewCounterWorker(forum reconciler, interval time.Duration) *CounterWorker {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &CounterWorker{
		forum:    forum,
		interval: interval,
		logger:   logger,
	}
}

func (cw *CounterWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(cw.interval)
	defer ticker.Stop()

	cw.logger.Info("Counter worker started",
		"interval", cw.interval.String())

	// Run once immediately on startup
	cw.reconcileCounters(ctx)

	for {
		select {
		case <-ctx.Done():
			cw.logger.Info("Counter worker shutting down")
			return
		case <-ticker.C:
			cw.reconcileCounters(ctx)
		}
	}
}

func (cw *CounterWorker) reconcileCounters(ctx context.Context) (types.ReconcileResult, error) {
	startTime := time.Now()

	cw.logger.Info("Starting counter reconciliation")

	res, err := cw.forum.Reconcile(ctx)
	if err != nil {
		cw.logger.Error("Failed to reconcile counters",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return res, err
	}

	duration := time.Since(startTime)

	if res.Total() > 0 {
		cw.logger.Warn("Repaired drifted counters",
			"users", res.Users,
			"categories", res.Categories,
			"threads", res.Threads,
			"replies", res.Replies)
	}

	cw.logger.Info("Completed counter reconciliation",
		"rows_repaired", res.Total(),
		"duration_ms", duration.Milliseconds(),
		"duration", duration.String())
	return res, nil
}

func main() {
	// Load config
	cfg := config.MustLoad()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	driver, dsn := cfg.Database.DataSource()
	store, err := sqlstore.Open(ctx, driver, dsn)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer store.Close()

	hasher := password.NewHasher(cfg.Auth.PasswordSalt, cfg.Auth.LegacyPlaintextPasswords)
	worker := NewCounterWorker(forum.NewService(store, hasher, cfg.Auth.JWTSecret), cfg.Worker.ReconcileInterval)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	// Start the worker
	worker.Start(ctx)

	slog.Info("Counter worker stopped")
}
