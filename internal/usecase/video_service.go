package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
	"github.com/hszk-dev/videocatalog/internal/infrastructure/metrics"
)

var (
	// ErrUnknownCategory is returned when a requested category does not exist.
	ErrUnknownCategory = errors.New("one or more categories do not exist")

	// ErrUnknownGender is returned when a requested gender does not exist.
	ErrUnknownGender = errors.New("one or more genders do not exist")
)

// CreateVideoInput contains the input parameters for creating a video.
//
// CategoryIDs and GenderIDs become the video's exact linked sets.
// Uploads carries at most one entry per file slot; slots without an
// entry are left empty.
type CreateVideoInput struct {
	Title        string
	Description  string
	YearLaunched int
	Opened       bool
	Rating       model.Rating
	Duration     int
	CategoryIDs  []uuid.UUID
	GenderIDs    []uuid.UUID
	Uploads      []repository.Upload
}

// UpdateVideoInput contains the input parameters for updating a video.
//
// Scalar fields always replace the current values. CategoryIDs and
// GenderIDs are synced to the given exact set when non-nil and left
// untouched when nil. Uploads replace the artifacts of the slots they
// name; other slots keep their current artifact.
type UpdateVideoInput struct {
	ID           uuid.UUID
	Title        string
	Description  string
	YearLaunched int
	Opened       bool
	Rating       model.Rating
	Duration     int
	CategoryIDs  []uuid.UUID
	GenderIDs    []uuid.UUID
	Uploads      []repository.Upload
}

// VideoService defines the interface for video business logic operations.
type VideoService interface {
	// CreateVideo persists a new video with its relation links and
	// file artifacts. The relational writes commit atomically; artifact
	// writes that precede a failure are compensated by deletion.
	CreateVideo(ctx context.Context, input CreateVideoInput) (*model.Video, error)

	// UpdateVideo replaces a video's fields and syncs its relations
	// and artifacts under the same atomicity contract as CreateVideo.
	// Artifacts superseded by the update are deleted after commit.
	UpdateVideo(ctx context.Context, input UpdateVideoInput) (*model.Video, error)

	// GetVideo retrieves video information by ID.
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// ListVideos retrieves all videos that are not soft-deleted.
	ListVideos(ctx context.Context) ([]*model.Video, error)

	// DeleteVideo soft-deletes a video. Relation links and file
	// artifacts are retained.
	DeleteVideo(ctx context.Context, videoID uuid.UUID) error
}

type videoService struct {
	uow        repository.UnitOfWork
	videos     repository.VideoRepository
	categories repository.CategoryRepository
	genders    repository.GenderRepository
	storage    repository.ArtifactStorage
	events     repository.EventPublisher
	logger     *slog.Logger
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	uow repository.UnitOfWork,
	videos repository.VideoRepository,
	categories repository.CategoryRepository,
	genders repository.GenderRepository,
	storage repository.ArtifactStorage,
	events repository.EventPublisher,
	logger *slog.Logger,
) VideoService {
	return &videoService{
		uow:        uow,
		videos:     videos,
		categories: categories,
		genders:    genders,
		storage:    storage,
		events:     events,
		logger:     logger,
	}
}

// CreateVideo persists a new video with its relations and artifacts.
func (s *videoService) CreateVideo(ctx context.Context, input CreateVideoInput) (*model.Video, error) {
	video, err := model.NewVideo(
		input.Title,
		input.Description,
		input.YearLaunched,
		input.Opened,
		input.Rating,
		input.Duration,
	)
	if err != nil {
		return nil, err
	}

	if err := s.validateRelations(ctx, input.CategoryIDs, input.GenderIDs); err != nil {
		return nil, err
	}

	var newKeys []string
	err = s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.Videos().Create(ctx, video); err != nil {
			return fmt.Errorf("create video: %w", err)
		}

		if err := tx.Relations().Sync(ctx, video.ID, model.RelationCategories, input.CategoryIDs); err != nil {
			return fmt.Errorf("sync categories: %w", err)
		}
		if err := tx.Relations().Sync(ctx, video.ID, model.RelationGenders, input.GenderIDs); err != nil {
			return fmt.Errorf("sync genders: %w", err)
		}

		keys, err := s.storeUploads(ctx, video, input.Uploads, &newKeys)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := tx.Videos().SetFileKeys(ctx, video.ID, keys); err != nil {
				return fmt.Errorf("set file keys: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.PersistenceOperationsTotal.WithLabelValues(metrics.OpCreate, metrics.StatusFailure).Inc()
		s.cleanupArtifacts(ctx, newKeys, metrics.PhaseRollback)
		return nil, err
	}

	metrics.PersistenceOperationsTotal.WithLabelValues(metrics.OpCreate, metrics.StatusSuccess).Inc()
	s.publishEvent(ctx, repository.EventVideoCreated, video.ID)
	return video, nil
}

// UpdateVideo replaces a video's fields, relations and artifacts.
func (s *videoService) UpdateVideo(ctx context.Context, input UpdateVideoInput) (*model.Video, error) {
	if err := s.validateRelations(ctx, input.CategoryIDs, input.GenderIDs); err != nil {
		return nil, err
	}

	var (
		video   *model.Video
		newKeys []string
		oldKeys []string
	)
	err := s.uow.Execute(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Videos().GetByID(ctx, input.ID)
		if err != nil {
			return err
		}

		if err := current.Update(
			input.Title,
			input.Description,
			input.YearLaunched,
			input.Opened,
			input.Rating,
			input.Duration,
		); err != nil {
			return err
		}
		if err := tx.Videos().Update(ctx, current); err != nil {
			return fmt.Errorf("update video: %w", err)
		}

		if input.CategoryIDs != nil {
			if err := tx.Relations().Sync(ctx, current.ID, model.RelationCategories, input.CategoryIDs); err != nil {
				return fmt.Errorf("sync categories: %w", err)
			}
		}
		if input.GenderIDs != nil {
			if err := tx.Relations().Sync(ctx, current.ID, model.RelationGenders, input.GenderIDs); err != nil {
				return fmt.Errorf("sync genders: %w", err)
			}
		}

		for _, upload := range input.Uploads {
			if prev := current.FileKey(upload.Slot); prev != "" {
				oldKeys = append(oldKeys, prev)
			}
		}
		keys, err := s.storeUploads(ctx, current, input.Uploads, &newKeys)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := tx.Videos().SetFileKeys(ctx, current.ID, keys); err != nil {
				return fmt.Errorf("set file keys: %w", err)
			}
		}

		video = current
		return nil
	})
	if err != nil {
		metrics.PersistenceOperationsTotal.WithLabelValues(metrics.OpUpdate, metrics.StatusFailure).Inc()
		s.cleanupArtifacts(ctx, newKeys, metrics.PhaseRollback)
		return nil, err
	}

	metrics.PersistenceOperationsTotal.WithLabelValues(metrics.OpUpdate, metrics.StatusSuccess).Inc()
	// The superseded artifacts become unreferenced only once the new
	// keys are committed, so they are removed here and not before.
	s.cleanupArtifacts(ctx, oldKeys, metrics.PhasePostCommit)
	s.publishEvent(ctx, repository.EventVideoUpdated, video.ID)
	return video, nil
}

// GetVideo retrieves video information by ID.
func (s *videoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	return s.videos.GetByID(ctx, videoID)
}

// ListVideos retrieves all videos that are not soft-deleted.
func (s *videoService) ListVideos(ctx context.Context) ([]*model.Video, error) {
	return s.videos.List(ctx)
}

// DeleteVideo soft-deletes a video. Relation links and file artifacts
// are retained so the record can be inspected or restored.
func (s *videoService) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	if err := s.videos.SoftDelete(ctx, videoID); err != nil {
		metrics.PersistenceOperationsTotal.WithLabelValues(metrics.OpDelete, metrics.StatusFailure).Inc()
		return err
	}

	metrics.PersistenceOperationsTotal.WithLabelValues(metrics.OpDelete, metrics.StatusSuccess).Inc()
	s.publishEvent(ctx, repository.EventVideoDeleted, videoID)
	return nil
}

// validateRelations checks that the requested category and gender ids
// exist and that every gender belongs to at least one of the requested
// categories.
func (s *videoService) validateRelations(ctx context.Context, categoryIDs, genderIDs []uuid.UUID) error {
	if len(categoryIDs) > 0 {
		existing, err := s.categories.ExistingIDs(ctx, categoryIDs)
		if err != nil {
			return fmt.Errorf("check categories: %w", err)
		}
		if len(existing) != len(uniqueIDs(categoryIDs)) {
			return ErrUnknownCategory
		}
	}

	if len(genderIDs) == 0 {
		return nil
	}

	existing, err := s.genders.ExistingIDs(ctx, genderIDs)
	if err != nil {
		return fmt.Errorf("check genders: %w", err)
	}
	if len(existing) != len(uniqueIDs(genderIDs)) {
		return ErrUnknownGender
	}

	membership, err := s.genders.CategoryMemberships(ctx, genderIDs)
	if err != nil {
		return fmt.Errorf("resolve gender categories: %w", err)
	}
	return model.ValidateGenderCategories(categoryIDs, genderIDs, membership)
}

// storeUploads writes each upload and records its key on the video.
// Written keys are appended to sink as they land so the caller can
// compensate even when a later upload fails.
func (s *videoService) storeUploads(ctx context.Context, video *model.Video, uploads []repository.Upload, sink *[]string) (map[model.FileSlot]string, error) {
	keys := make(map[model.FileSlot]string, len(uploads))
	for _, upload := range uploads {
		key, err := s.storage.Put(ctx, video.ID, upload)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", upload.Slot, err)
		}
		*sink = append(*sink, key)
		keys[upload.Slot] = key
		video.SetFileKey(upload.Slot, key)
	}
	return keys, nil
}

// cleanupArtifacts deletes the given keys best-effort. Failures are
// logged and left for the reconciliation sweeper.
func (s *videoService) cleanupArtifacts(ctx context.Context, keys []string, phase string) {
	if len(keys) == 0 {
		return
	}

	metrics.CompensationsTotal.WithLabelValues(phase).Inc()
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete artifact during compensation",
				"key", key,
				"phase", phase,
				"error", err,
			)
		}
	}
}

// publishEvent notifies downstream consumers best-effort. A publish
// failure never fails the committed operation that produced it.
func (s *videoService) publishEvent(ctx context.Context, eventType repository.CatalogEventType, videoID uuid.UUID) {
	event := repository.CatalogEvent{
		Type:       eventType,
		VideoID:    videoID,
		OccurredAt: time.Now(),
	}
	if err := s.events.PublishCatalogEvent(ctx, event); err != nil {
		metrics.EventPublishesTotal.WithLabelValues(metrics.StatusError).Inc()
		s.logger.Warn("failed to publish catalog event",
			"type", eventType,
			"video_id", videoID,
			"error", err,
		)
		return
	}
	metrics.EventPublishesTotal.WithLabelValues(metrics.StatusSuccess).Inc()
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
