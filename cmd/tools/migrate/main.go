package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/skairipa08/FundEd/internal/database"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Error("DB_DSN environment variable is required")
		os.Exit(1)
	}

	db, err := database.Open(dsn, database.DefaultOptions())
	if err != nil {
		logger.Error("connect failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}
	logger.Info("schema up to date", "tables", len(database.Models()))
}
