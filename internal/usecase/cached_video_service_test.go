package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

func cachedFixture(t *testing.T) (*videoServiceFixture, *mockVideoCache, VideoService) {
	t.Helper()
	f := newVideoServiceFixture()
	videoCache := &mockVideoCache{}
	cached := NewCachedVideoService(f.service, videoCache, DefaultCachedVideoServiceConfig())
	return f, videoCache, cached
}

func storedVideo(t *testing.T) *model.Video {
	t.Helper()
	video, err := model.NewVideo("Cached", "A cached video.", 2020, true, model.RatingTen, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return video
}

func TestCachedGetVideo(t *testing.T) {
	t.Run("cache hit skips the database", func(t *testing.T) {
		f, videoCache, cached := cachedFixture(t)

		video := storedVideo(t)
		videoCache.getFn = func(_ context.Context, _ uuid.UUID) (*model.Video, error) {
			return video, nil
		}
		f.videos.getByIDFn = func(_ context.Context, _ uuid.UUID) (*model.Video, error) {
			t.Error("database should not be hit on a cache hit")
			return nil, repository.ErrVideoNotFound
		}

		got, err := cached.GetVideo(context.Background(), video.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != video.ID {
			t.Errorf("unexpected video: %+v", got)
		}
	})

	t.Run("cache miss falls through and populates the cache", func(t *testing.T) {
		f, videoCache, cached := cachedFixture(t)

		video := storedVideo(t)
		f.videos.getByIDFn = func(_ context.Context, id uuid.UUID) (*model.Video, error) {
			if id != video.ID {
				return nil, repository.ErrVideoNotFound
			}
			return video, nil
		}

		var cachedVideo *model.Video
		var cachedTTL time.Duration
		videoCache.setFn = func(_ context.Context, v *model.Video, ttl time.Duration) error {
			cachedVideo = v
			cachedTTL = ttl
			return nil
		}

		got, err := cached.GetVideo(context.Background(), video.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != video.ID {
			t.Errorf("unexpected video: %+v", got)
		}
		if cachedVideo == nil || cachedVideo.ID != video.ID {
			t.Error("expected the video to be cached after the miss")
		}
		if cachedTTL != DefaultCachedVideoServiceConfig().CacheTTL {
			t.Errorf("unexpected TTL: %v", cachedTTL)
		}
	})

	t.Run("cache errors fall back to the database", func(t *testing.T) {
		f, videoCache, cached := cachedFixture(t)

		video := storedVideo(t)
		videoCache.getFn = func(_ context.Context, _ uuid.UUID) (*model.Video, error) {
			return nil, errors.New("redis unavailable")
		}
		f.videos.getByIDFn = func(_ context.Context, _ uuid.UUID) (*model.Video, error) {
			return video, nil
		}

		got, err := cached.GetVideo(context.Background(), video.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != video.ID {
			t.Errorf("unexpected video: %+v", got)
		}
	})

	t.Run("not found is propagated", func(t *testing.T) {
		_, _, cached := cachedFixture(t)

		_, err := cached.GetVideo(context.Background(), uuid.New())
		if !errors.Is(err, repository.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})
}

func TestCachedInvalidation(t *testing.T) {
	t.Run("update invalidates the cached entry", func(t *testing.T) {
		f, videoCache, cached := cachedFixture(t)

		video := storedVideo(t)
		f.videos.getByIDFn = func(_ context.Context, _ uuid.UUID) (*model.Video, error) {
			return video, nil
		}

		var invalidated uuid.UUID
		videoCache.deleteFn = func(_ context.Context, videoID uuid.UUID) error {
			invalidated = videoID
			return nil
		}

		_, err := cached.UpdateVideo(context.Background(), UpdateVideoInput{
			ID:           video.ID,
			Title:        "New Title",
			Description:  "New description.",
			YearLaunched: 2021,
			Opened:       true,
			Rating:       model.RatingTen,
			Duration:     101,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if invalidated != video.ID {
			t.Errorf("expected invalidation of %s, got %s", video.ID, invalidated)
		}
	})

	t.Run("a failed update leaves the cache untouched", func(t *testing.T) {
		f, videoCache, cached := cachedFixture(t)

		f.videos.getByIDFn = func(_ context.Context, _ uuid.UUID) (*model.Video, error) {
			return nil, repository.ErrVideoNotFound
		}
		videoCache.deleteFn = func(_ context.Context, _ uuid.UUID) error {
			t.Error("cache should not be invalidated when the update fails")
			return nil
		}

		_, err := cached.UpdateVideo(context.Background(), UpdateVideoInput{
			ID:           uuid.New(),
			Title:        "New Title",
			Description:  "New description.",
			YearLaunched: 2021,
			Opened:       true,
			Rating:       model.RatingTen,
			Duration:     101,
		})
		if !errors.Is(err, repository.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("delete invalidates the cached entry", func(t *testing.T) {
		_, videoCache, cached := cachedFixture(t)

		var invalidated uuid.UUID
		videoCache.deleteFn = func(_ context.Context, videoID uuid.UUID) error {
			invalidated = videoID
			return nil
		}

		videoID := uuid.New()
		if err := cached.DeleteVideo(context.Background(), videoID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if invalidated != videoID {
			t.Errorf("expected invalidation of %s, got %s", videoID, invalidated)
		}
	})

	t.Run("invalidation failure does not fail the mutation", func(t *testing.T) {
		_, videoCache, cached := cachedFixture(t)
		videoCache.deleteFn = func(_ context.Context, _ uuid.UUID) error {
			return errors.New("redis unavailable")
		}

		if err := cached.DeleteVideo(context.Background(), uuid.New()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
