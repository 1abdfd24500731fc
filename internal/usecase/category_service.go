package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

// CreateCategoryInput contains the input parameters for creating a category.
type CreateCategoryInput struct {
	Name        string
	Description string
	IsActive    bool
}

// UpdateCategoryInput contains the input parameters for updating a category.
type UpdateCategoryInput struct {
	ID          uuid.UUID
	Name        string
	Description string
	IsActive    bool
}

// CategoryService defines the interface for category business logic operations.
type CategoryService interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*model.Category, error)

	// DeleteCategory soft-deletes a category. Videos linked to it keep
	// their links.
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*model.Category, error) {
	category, err := model.NewCategory(input.Name, input.Description, input.IsActive)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*model.Category, error) {
	return s.categories.GetByID(ctx, categoryID)
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*model.Category, error) {
	category, err := s.categories.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if err := category.Update(input.Name, input.Description, input.IsActive); err != nil {
		return nil, err
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.categories.SoftDelete(ctx, categoryID)
}
