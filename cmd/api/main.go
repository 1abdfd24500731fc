package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/videocatalog/internal/api/handler"
	"github.com/hszk-dev/videocatalog/internal/api/middleware"
	"github.com/hszk-dev/videocatalog/internal/config"
	"github.com/hszk-dev/videocatalog/internal/infrastructure/cache"
	"github.com/hszk-dev/videocatalog/internal/infrastructure/postgres"
	"github.com/hszk-dev/videocatalog/internal/infrastructure/queue"
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

	queueCfg := queue.DefaultClientConfig(cfg.RabbitMQ.URL())
	queueCfg.QueueName = cfg.RabbitMQ.Queue
	queueCfg.RoutingKey = cfg.RabbitMQ.Queue
	queueClient, err := queue.NewClient(ctx, queueCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	pool := pgClient.Pool()
	videoRepo := postgres.NewVideoRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	genderRepo := postgres.NewGenderRepository(pool)
	uow := postgres.NewUnitOfWork(pool)

	videoSvc := usecase.NewVideoService(
		uow,
		videoRepo,
		categoryRepo,
		genderRepo,
		storageClient,
		queueClient,
		logger,
	)
	videoCache := cache.NewRedisVideoCache(redisClient)
	cachedVideoSvc := usecase.NewCachedVideoService(videoSvc, videoCache, usecase.CachedVideoServiceConfig{
		CacheTTL: cfg.Redis.CacheTTL,
	})
	categorySvc := usecase.NewCategoryService(categoryRepo)

	readiness := map[string]func(r *http.Request) error{
		"postgres": func(r *http.Request) error { return pgClient.Ping(r.Context()) },
		"minio":    func(r *http.Request) error { return storageClient.Ping(r.Context()) },
		"redis":    func(r *http.Request) error { return redisClient.Ping(r.Context()).Err() },
	}

	r := setupRouter(logger, cfg, cachedVideoSvc, categorySvc, storageClient, readiness)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(
	logger *slog.Logger,
	cfg *config.Config,
	videoSvc usecase.VideoService,
	categorySvc usecase.CategoryService,
	storageClient *storage.Client,
	readiness map[string]func(r *http.Request) error,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready(readiness))
	r.Handle("/metrics", promhttp.Handler())

	videoHandler := handler.NewVideoHandler(videoSvc, storageClient, cfg.Server.MaxUploadBytes)
	categoryHandler := handler.NewCategoryHandler(categorySvc)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/videos", func(r chi.Router) {
			r.Post("/", videoHandler.Create)
			r.Get("/", videoHandler.List)
			r.Get("/{id}", videoHandler.Get)
			r.Put("/{id}", videoHandler.Update)
			r.Delete("/{id}", videoHandler.Delete)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", categoryHandler.Create)
			r.Get("/", categoryHandler.List)
			r.Get("/{id}", categoryHandler.Get)
			r.Put("/{id}", categoryHandler.Update)
			r.Delete("/{id}", categoryHandler.Delete)
		})
	})

	return r
}
