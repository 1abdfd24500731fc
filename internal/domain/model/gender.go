package model

import (
	"time"

	"github.com/google/uuid"
)

// Gender represents a catalog genre-like classification. A gender
// belongs to one or more categories; that membership is what the
// gender/category consistency rule is evaluated against.
type Gender struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewGender creates a new Gender with a freshly assigned identity.
func NewGender(name string) (*Gender, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > maxTitleLength {
		return nil, ErrNameTooLong
	}

	now := time.Now()
	return &Gender{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsDeleted reports whether the gender has been soft-deleted.
func (g *Gender) IsDeleted() bool {
	return g.DeletedAt != nil
}
