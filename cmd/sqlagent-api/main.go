package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kennvh/sql-ai-agent/internal/api"
	"github.com/Kennvh/sql-ai-agent/internal/api/uistatic"
	"github.com/Kennvh/sql-ai-agent/internal/archive"
	"github.com/Kennvh/sql-ai-agent/internal/config"
	"github.com/Kennvh/sql-ai-agent/internal/database"
	"github.com/Kennvh/sql-ai-agent/internal/history"
	"github.com/Kennvh/sql-ai-agent/internal/nl2sql"
	"github.com/Kennvh/sql-ai-agent/internal/observability"
	"github.com/Kennvh/sql-ai-agent/internal/query"
	"github.com/Kennvh/sql-ai-agent/internal/schema"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("sqlagent-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	db, err := database.Open(context.Background(), database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	dialect, err := schema.DialectFor(cfg.Database.Driver)
	if err != nil {
		logger.Error("failed to resolve schema dialect", slog.Any("error", err))
		os.Exit(1)
	}

	translator, err := nl2sql.NewOpenAITranslator(nl2sql.OpenAIConfig{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize sql translator", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := api.Dependencies{
		Logger:            logger,
		Inspector:         schema.NewInspector(db, dialect),
		Translator:        translator,
		Runner:            query.NewRunner(db),
		UI:                uistatic.Handler(),
		DependencyTimeout: time.Second,
	}
	readiness := []api.ReadinessCheck{api.CheckDatabase(db.PingContext)}

	if cfg.History.Enabled {
		store := history.NewStore(db)
		deps.History = store

		if cfg.Archive.Enabled {
			objectStore, err := archive.NewStore(ctx, archive.StoreConfig{
				Endpoint:         cfg.Archive.Endpoint,
				Region:           cfg.Archive.Region,
				Bucket:           cfg.Archive.Bucket,
				AccessKeyID:      cfg.Archive.AccessKeyID,
				SecretAccessKey:  cfg.Archive.SecretAccessKey,
				UseSSL:           cfg.Archive.UseSSL,
				Prefix:           cfg.Archive.Prefix,
				AutoCreateBucket: cfg.Archive.AutoCreateBucket,
			})
			if err != nil {
				logger.Error("failed to initialize archive store", slog.Any("error", err))
				os.Exit(1)
			}
			readiness = append(readiness, objectStore.HealthCheck)

			archiver := &archive.Service{
				History: store,
				Store:   objectStore,
				Config: archive.Config{
					Interval:  cfg.Archive.Interval,
					BatchSize: cfg.Archive.BatchSize,
					Retention: cfg.History.Retention,
				},
				Logger: logger,
			}
			go func() {
				if err := archiver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("history archiver failed", slog.Any("error", err))
				}
			}()
		}
	}
	deps.Readiness = api.CombineReadinessChecks(readiness...)

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
