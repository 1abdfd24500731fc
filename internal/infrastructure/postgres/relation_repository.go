package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

// RelationRepository implements repository.RelationRepository over the
// category_video and gender_video pivot tables. It runs every statement
// on the DBTX it was constructed with, so inside a unit of work all
// writes share the caller's transaction.
type RelationRepository struct {
	db DBTX
}

// NewRelationRepository creates a new RelationRepository instance.
func NewRelationRepository(db DBTX) *RelationRepository {
	return &RelationRepository{db: db}
}

// pivot maps a relation kind to its pivot table and classification column.
func pivot(kind model.RelationKind) (table, column string, err error) {
	switch kind {
	case model.RelationCategories:
		return "category_video", "category_id", nil
	case model.RelationGenders:
		return "gender_video", "gender_id", nil
	default:
		return "", "", fmt.Errorf("unknown relation kind: %s", kind)
	}
}

// Sync replaces the linked set for one relation kind with exactly
// targetIDs, by symmetric difference against the current links.
func (r *RelationRepository) Sync(ctx context.Context, videoID uuid.UUID, kind model.RelationKind, targetIDs []uuid.UUID) error {
	table, column, err := pivot(kind)
	if err != nil {
		return err
	}

	current, err := r.linkedIDs(ctx, videoID, table, column)
	if err != nil {
		return err
	}

	target := make(map[uuid.UUID]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		target[id] = struct{}{}
	}

	var toRemove []uuid.UUID
	linked := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		linked[id] = struct{}{}
		if _, ok := target[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}

	var toAdd []uuid.UUID
	for _, id := range targetIDs {
		if _, ok := linked[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}

	if len(toRemove) > 0 {
		query := fmt.Sprintf(`DELETE FROM %s WHERE video_id = $1 AND %s = ANY($2)`, table, column)
		if _, err := r.db.Exec(ctx, query, videoID, toRemove); err != nil {
			return fmt.Errorf("failed to remove %s links: %w", kind, err)
		}
	}

	if len(toAdd) > 0 {
		query := fmt.Sprintf(`INSERT INTO %s (video_id, %s) SELECT $1, unnest($2::uuid[])`, table, column)
		if _, err := r.db.Exec(ctx, query, videoID, toAdd); err != nil {
			return fmt.Errorf("failed to add %s links: %w", kind, err)
		}
	}

	return nil
}

// LinkedIDs returns the ids currently linked to the video for one
// relation kind. Links to soft-deleted rows are included.
func (r *RelationRepository) LinkedIDs(ctx context.Context, videoID uuid.UUID, kind model.RelationKind) ([]uuid.UUID, error) {
	table, column, err := pivot(kind)
	if err != nil {
		return nil, err
	}
	return r.linkedIDs(ctx, videoID, table, column)
}

func (r *RelationRepository) linkedIDs(ctx context.Context, videoID uuid.UUID, table, column string) ([]uuid.UUID, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE video_id = $1`, column, table)

	rows, err := r.db.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}

	return ids, nil
}

// Compile-time verification that RelationRepository implements repository.RelationRepository.
var _ repository.RelationRepository = (*RelationRepository)(nil)
