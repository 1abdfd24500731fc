package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
)

// RelationRepository manages the many-to-many links between a video and
// its classification entities.
//
// Sync must run on the caller's transaction handle: the repository never
// opens a transaction of its own.
type RelationRepository interface {
	// Sync replaces the linked set for one relation kind with exactly
	// targetIDs. Links not in targetIDs are removed, missing ones are
	// added; an already-equal set is a no-op. Never an additive merge.
	Sync(ctx context.Context, videoID uuid.UUID, kind model.RelationKind, targetIDs []uuid.UUID) error

	// LinkedIDs returns the ids currently linked to the video for one
	// relation kind, regardless of the linked rows' soft-delete state.
	LinkedIDs(ctx context.Context, videoID uuid.UUID, kind model.RelationKind) ([]uuid.UUID, error)
}
