package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

// GenderRepository implements repository.GenderRepository using PostgreSQL.
type GenderRepository struct {
	db DBTX
}

// NewGenderRepository creates a new GenderRepository instance.
func NewGenderRepository(db DBTX) *GenderRepository {
	return &GenderRepository{db: db}
}

// ExistingIDs returns the subset of ids that exist and are not soft-deleted.
func (r *GenderRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `SELECT id FROM genders WHERE id = ANY($1) AND deleted_at IS NULL`
	return queryIDs(ctx, r.db, query, ids)
}

// CategoryMemberships returns the category ids each requested gender
// belongs to. The join deliberately ignores the categories' soft-delete
// state so the consistency rule sees the same links the pivot rows hold.
func (r *GenderRepository) CategoryMemberships(ctx context.Context, genderIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	if len(genderIDs) == 0 {
		return map[uuid.UUID][]uuid.UUID{}, nil
	}

	const query = `SELECT gender_id, category_id FROM category_gender WHERE gender_id = ANY($1)`

	rows, err := r.db.Query(ctx, query, genderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query gender memberships: %w", err)
	}
	defer rows.Close()

	memberships := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var genderID, categoryID uuid.UUID
		if err := rows.Scan(&genderID, &categoryID); err != nil {
			return nil, fmt.Errorf("failed to scan gender membership: %w", err)
		}
		memberships[genderID] = append(memberships[genderID], categoryID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gender memberships: %w", err)
	}

	return memberships, nil
}

// Compile-time verification that GenderRepository implements repository.GenderRepository.
var _ repository.GenderRepository = (*GenderRepository)(nil)
