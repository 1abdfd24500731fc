package model

import (
	"errors"

	"github.com/google/uuid"
)

// RelationKind names one of the many-to-many link types a video owns.
type RelationKind string

const (
	RelationCategories RelationKind = "categories"
	RelationGenders    RelationKind = "genders"
)

// RelationKinds enumerates every link type in sync order.
var RelationKinds = []RelationKind{RelationCategories, RelationGenders}

func (k RelationKind) IsValid() bool {
	switch k {
	case RelationCategories, RelationGenders:
		return true
	default:
		return false
	}
}

func (k RelationKind) String() string {
	return string(k)
}

// ErrGenderWithoutCategory is returned when a requested gender belongs
// to none of the requested categories. The rule is deliberately coarse:
// it does not report which gender failed.
var ErrGenderWithoutCategory = errors.New("gender has no matching category")

// ValidateGenderCategories checks that every requested gender belongs
// to at least one of the requested categories. membership maps a gender
// id to the full set of category ids it belongs to, regardless of the
// categories' soft-delete state.
//
// The rule fails closed: an empty category set fails every gender, and
// a gender absent from membership counts as belonging to nothing.
func ValidateGenderCategories(categoryIDs, genderIDs []uuid.UUID, membership map[uuid.UUID][]uuid.UUID) error {
	if len(genderIDs) == 0 {
		return nil
	}
	if len(categoryIDs) == 0 {
		return ErrGenderWithoutCategory
	}

	requested := make(map[uuid.UUID]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		requested[id] = struct{}{}
	}

	for _, genderID := range genderIDs {
		if !intersects(membership[genderID], requested) {
			return ErrGenderWithoutCategory
		}
	}
	return nil
}

func intersects(ids []uuid.UUID, set map[uuid.UUID]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
