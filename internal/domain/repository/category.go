package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
)

// CategoryRepository defines persistence for the Category resource.
type CategoryRepository interface {
	// Create persists a new category.
	Create(ctx context.Context, category *model.Category) error

	// GetByID retrieves a category by id, excluding soft-deleted rows.
	// Returns ErrCategoryNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	// List retrieves all categories that are not soft-deleted.
	List(ctx context.Context) ([]*model.Category, error)

	// Update persists changes to an existing category.
	// Returns ErrCategoryNotFound if the category does not exist.
	Update(ctx context.Context, category *model.Category) error

	// SoftDelete marks a category as deleted. Videos linked to it keep
	// their links.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ExistingIDs returns the subset of ids that exist and are not
	// soft-deleted. Used for request validation.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// GenderRepository defines the reads the video core needs from the
// Gender resource. Gender CRUD itself lives outside this module's
// scope.
type GenderRepository interface {
	// ExistingIDs returns the subset of ids that exist and are not
	// soft-deleted. Used for request validation.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// CategoryMemberships returns, for each requested gender id, the
	// full set of category ids it belongs to. Soft-deleted categories
	// are included so the consistency rule sees the same links the
	// persisted pivot rows do. Genders that cannot be resolved are
	// simply absent from the result.
	CategoryMemberships(ctx context.Context, genderIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}
