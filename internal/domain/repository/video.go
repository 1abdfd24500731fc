package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
)

// VideoRepository defines the interface for video persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type VideoRepository interface {
	// Create persists a new video entity.
	// Returns ErrDuplicateVideo if the identity already exists.
	Create(ctx context.Context, video *model.Video) error

	// GetByID retrieves a video by its unique identifier.
	// Soft-deleted videos are excluded; returns ErrVideoNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// GetByIDWithDeleted retrieves a video by id regardless of its
	// soft-delete state.
	GetByIDWithDeleted(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// List retrieves all videos that are not soft-deleted,
	// newest first.
	List(ctx context.Context) ([]*model.Video, error)

	// Update persists the non-file fields of an existing video.
	// Zero rows affected is not an error: re-applying the same fields
	// is treated as a successful no-op.
	Update(ctx context.Context, video *model.Video) error

	// SetFileKeys records artifact keys for the given slots.
	// Slots absent from keys are left untouched.
	SetFileKeys(ctx context.Context, id uuid.UUID, keys map[model.FileSlot]string) error

	// SoftDelete marks a video as deleted without removing the row,
	// its relation links, or its file artifacts.
	// Returns ErrVideoNotFound if the video does not exist.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ReferencedFileKeys returns every artifact key referenced by any
	// video row, including soft-deleted ones. Used by the
	// reconciliation sweeper to decide which stored objects are live.
	ReferencedFileKeys(ctx context.Context) ([]string, error)
}
