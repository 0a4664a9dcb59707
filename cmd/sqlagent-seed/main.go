package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kennvh/sql-ai-agent/internal/database"
	"github.com/Kennvh/sql-ai-agent/internal/demo/seed"
)

func main() {
	rows := flag.Int("rows", 0, "order row count; customers scale at one per four orders")
	drop := flag.Bool("drop", false, "drop and recreate the demo tables first")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := seed.LoadConfigFromEnv(os.LookupEnv)
	if err != nil {
		slog.Error("failed to load seed config", slog.Any("error", err))
		os.Exit(1)
	}
	if *rows > 0 {
		cfg.Orders = *rows
		cfg.Customers = *rows / 4
		if cfg.Customers < 1 {
			cfg.Customers = 1
		}
	}
	if *drop {
		cfg.Drop = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.Open(ctx, database.Config{Driver: cfg.Driver, DSN: cfg.DSN})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	service, err := seed.NewService(cfg, logger, db)
	if err != nil {
		logger.Error("failed to initialize seeder", slog.Any("error", err))
		os.Exit(1)
	}

	if _, err := service.Run(ctx); err != nil {
		logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}
