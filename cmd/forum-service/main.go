package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	_ "github.com/derdine/forum-service/docs"
	"github.com/derdine/forum-service/internal/cache"
	"github.com/derdine/forum-service/internal/config"
	"github.com/derdine/forum-service/internal/events"
	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/http/router"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/services/media"
	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/storage/sqlstore"
	"github.com/derdine/forum-service/internal/utils/password"
	wsClient "github.com/derdine/forum-service/internal/websocket"
)

func main() {
	// load config
	cfg := config.MustLoad()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// database setup
	driver, dsn := cfg.Database.DataSource()
	store, err := sqlstore.Open(ctx, driver, dsn)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer store.Close()

	if cfg.Auth.LegacyPlaintextPasswords {
		slog.Warn("Legacy plaintext passwords are accepted at login")
	}
	hasher := password.NewHasher(cfg.Auth.PasswordSalt, cfg.Auth.LegacyPlaintextPasswords)

	hub := wsClient.NewHub()
	go hub.Run(ctx)

	deps := router.Deps{
		Forum:         forum.NewService(store, hasher, cfg.Auth.JWTSecret, forum.WithPublisher(events.NewEventPublisher(hub))),
		Policy:        middleware.PolicyFor(cfg.IsProduction(), cfg.Auth.AdminToken),
		Hub:           hub,
		JWTSecret:     cfg.Auth.JWTSecret,
		AllowWSUserID: !cfg.IsProduction(),
	}

	var settingsStore storage.SettingsStore = store
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		deps.Limiter = middleware.NewRateLimiter(redisClient)
		settingsStore = cache.NewSettingsCache(store, redisClient)
		slog.Info("Connected to Redis", slog.String("addr", cfg.Redis.Addr))
	} else {
		slog.Warn("REDIS_ADDR not set, rate limiting and settings cache disabled")
	}

	deps.Settings = forum.NewSettingsService(settingsStore, nil)

	if cfg.MinIO.Endpoint != "" {
		avatars, err := media.NewService(ctx, cfg)
		if err != nil {
			log.Fatal("Failed to initialize media storage:", err)
		}
		deps.Avatars = avatars
		slog.Info("Connected to MinIO", slog.String("endpoint", cfg.MinIO.Endpoint), slog.String("bucket", cfg.MinIO.BucketName))
	} else {
		slog.Warn("MINIO_ENDPOINT not set, avatar uploads disabled")
	}

	if cfg.IsProduction() {
		slog.Info("Authorization checks enforced")
	} else {
		slog.Warn("Running without authorization checks", slog.String("env", cfg.Env))
	}

	server := http.Server{
		Addr:    cfg.ListenAddress(),
		Handler: router.New(deps),
	}

	slog.Info("Server started", slog.String("address", server.Addr), slog.String("env", cfg.Env))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// stops the hub and closes websocket connections
	cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
