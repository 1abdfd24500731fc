package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category represents a catalog classification with an independent
// lifecycle. Videos keep referencing it by id even after it has been
// soft-deleted.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

var (
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrNameTooLong = errors.New("name exceeds maximum length of 255 characters")
)

// NewCategory creates a new Category with a freshly assigned identity.
func NewCategory(name, description string, isActive bool) (*Category, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > maxTitleLength {
		return nil, ErrNameTooLong
	}

	now := time.Now()
	return &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update replaces the category's editable fields after validating them.
func (c *Category) Update(name, description string, isActive bool) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxTitleLength {
		return ErrNameTooLong
	}

	c.Name = name
	c.Description = description
	c.IsActive = isActive
	c.UpdatedAt = time.Now()
	return nil
}

// IsDeleted reports whether the category has been soft-deleted.
func (c *Category) IsDeleted() bool {
	return c.DeletedAt != nil
}
