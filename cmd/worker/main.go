package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hszk-dev/videocatalog/internal/config"
	"github.com/hszk-dev/videocatalog/internal/infrastructure/postgres"
	"github.com/hszk-dev/videocatalog/internal/infrastructure/storage"
	"github.com/hszk-dev/videocatalog/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:      cfg.MinIO.Endpoint,
		PublicBaseURL: cfg.MinIO.PublicBaseURL,
		AccessKey:     cfg.MinIO.AccessKey,
		SecretKey:     cfg.MinIO.SecretKey,
		Bucket:        cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	sweepSvc := usecase.NewSweepService(videoRepo, storageClient, logger, usecase.SweepServiceConfig{
		GracePeriod: cfg.Worker.SweepGrace,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Worker.SweepInterval)
	defer ticker.Stop()

	logger.Info("starting sweeper",
		slog.Duration("interval", cfg.Worker.SweepInterval),
		slog.Duration("grace", cfg.Worker.SweepGrace),
	)
	sweep(ctx, sweepSvc, logger)

	for {
		select {
		case <-ticker.C:
			sweep(ctx, sweepSvc, logger)
		case sig := <-quit:
			logger.Info("shutting down worker", slog.String("signal", sig.String()))
			cancel()
			logger.Info("worker stopped")
			return nil
		}
	}
}

func sweep(ctx context.Context, svc usecase.SweepService, logger *slog.Logger) {
	start := time.Now()
	deleted, err := svc.Sweep(ctx)
	if err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("sweep completed",
		slog.Int("deleted", deleted),
		slog.Duration("duration", time.Since(start)),
	)
}
