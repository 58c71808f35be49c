package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.PoolOptions{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	var admin *database.SeedAdmin

	if cfg.Admin.Password != "" {
		hash, err := auth.NewHasher(cfg.Auth.BcryptCost).Hash(cfg.Admin.Password)
		if err != nil {
			slog.Error("failed to hash admin password", "error", err)
			os.Exit(1)
		}

		admin = &database.SeedAdmin{Name: "Administrator", Email: cfg.Admin.Email, PasswordHash: hash}
	} else {
		slog.Warn("ADMIN_PASSWORD not set, skipping admin user")
	}

	if err := database.Seed(ctx, db, admin); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready")
}
