package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
)

// VideoCache caches catalog video entities by id. Implementations own
// serialization; callers only see domain values.
//
// The cache is an optimization layer: callers must treat every error as
// a miss and fall back to the repository.
type VideoCache interface {
	// Get returns the cached video, or nil, nil on a miss.
	Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// Set stores a video with the given TTL.
	Set(ctx context.Context, video *model.Video, ttl time.Duration) error

	// Delete evicts a video. Evicting an uncached id is not an error.
	Delete(ctx context.Context, videoID uuid.UUID) error
}
