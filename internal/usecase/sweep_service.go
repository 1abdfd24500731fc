package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hszk-dev/videocatalog/internal/domain/repository"
	"github.com/hszk-dev/videocatalog/internal/infrastructure/metrics"
)

// SweepServiceConfig holds configuration for SweepService.
type SweepServiceConfig struct {
	// GracePeriod is the minimum age an unreferenced object must reach
	// before the sweeper deletes it. It covers the window between an
	// artifact landing in storage and its key being committed.
	GracePeriod time.Duration
}

// DefaultSweepServiceConfig returns the default configuration.
func DefaultSweepServiceConfig() SweepServiceConfig {
	return SweepServiceConfig{
		GracePeriod: 24 * time.Hour,
	}
}

// SweepService reconciles the artifact store against the catalog.
//
// Artifacts can outlive their references in two ways: a crash between
// an upload and its commit, and a failed compensation delete. The
// sweeper removes objects that no video row references and that are
// old enough to be outside any in-flight operation.
type SweepService interface {
	// Sweep runs one reconciliation pass and returns the number of
	// objects deleted.
	Sweep(ctx context.Context) (int, error)
}

type sweepService struct {
	videos  repository.VideoRepository
	storage repository.ArtifactStorage
	logger  *slog.Logger

	gracePeriod time.Duration
}

// NewSweepService creates a new SweepService instance.
func NewSweepService(
	videos repository.VideoRepository,
	storage repository.ArtifactStorage,
	logger *slog.Logger,
	cfg SweepServiceConfig,
) SweepService {
	return &sweepService{
		videos:      videos,
		storage:     storage,
		logger:      logger,
		gracePeriod: cfg.GracePeriod,
	}
}

// Sweep deletes unreferenced artifacts older than the grace period.
func (s *sweepService) Sweep(ctx context.Context) (int, error) {
	referenced, err := s.videos.ReferencedFileKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced keys: %w", err)
	}
	live := make(map[string]struct{}, len(referenced))
	for _, key := range referenced {
		live[key] = struct{}{}
	}

	objects, err := s.storage.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list stored objects: %w", err)
	}

	cutoff := time.Now().Add(-s.gracePeriod)
	deleted := 0
	for _, object := range objects {
		if _, ok := live[object.Key]; ok {
			continue
		}
		if object.LastModified.After(cutoff) {
			continue
		}

		if err := s.storage.Delete(ctx, object.Key); err != nil {
			s.logger.Warn("failed to delete orphaned artifact",
				"key", object.Key,
				"error", err,
			)
			continue
		}
		s.logger.Info("deleted orphaned artifact",
			"key", object.Key,
			"size", object.Size,
		)
		deleted++
	}

	if deleted > 0 {
		metrics.SweepDeletedObjectsTotal.Add(float64(deleted))
	}
	return deleted, nil
}
