package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/derdine/forum-service/internal/config"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/storage/sqlstore"
	"github.com/derdine/forum-service/internal/utils/password"
)

// seed fills an empty database with the default theme, labels,
// categories, demo users and demo threads. Existing data is left alone.
func main() {
	cfg := config.MustLoad()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	driver, dsn := cfg.Database.DataSource()
	store, err := sqlstore.Open(ctx, driver, dsn)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer store.Close()

	hasher := password.NewHasher(cfg.Auth.PasswordSalt, cfg.Auth.LegacyPlaintextPasswords)
	svc := forum.NewService(store, hasher, cfg.Auth.JWTSecret)

	res, err := svc.SeedDefaults(ctx)
	if err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	slog.Info("Seed completed",
		slog.Int("theme", res.Theme),
		slog.Int("labels", res.Labels),
		slog.Int("categories", res.Categories),
		slog.Int("users", res.Users),
		slog.Int("threads", res.Threads))
}
