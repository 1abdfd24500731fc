package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

const categoryColumns = `id, name, description, is_active, created_at, updated_at, deleted_at`

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db DBTX
}

// NewCategoryRepository creates a new CategoryRepository instance.
func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create persists a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	const query = `
		INSERT INTO categories (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		category.ID,
		category.Name,
		nullString(category.Description),
		category.IsActive,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by id, excluding soft-deleted rows.
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND deleted_at IS NULL`

	category, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return category, nil
}

// List retrieves all categories that are not soft-deleted.
func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE deleted_at IS NULL ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Update persists changes to an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	const query = `
		UPDATE categories
		SET name = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	category.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		category.ID,
		category.Name,
		nullString(category.Description),
		category.IsActive,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// SoftDelete marks a category as deleted. Videos keep their links to it.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE categories
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to soft delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// ExistingIDs returns the subset of ids that exist and are not soft-deleted.
func (r *CategoryRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `SELECT id FROM categories WHERE id = ANY($1) AND deleted_at IS NULL`
	return queryIDs(ctx, r.db, query, ids)
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var (
		category    model.Category
		description *string
	)

	err := row.Scan(
		&category.ID,
		&category.Name,
		&description,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	category.Description = deref(description)
	return &category, nil
}

func queryIDs(ctx context.Context, db DBTX, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ids: %w", err)
	}

	return ids, nil
}

// nullString returns nil for empty strings, otherwise a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Compile-time verification that CategoryRepository implements repository.CategoryRepository.
var _ repository.CategoryRepository = (*CategoryRepository)(nil)
