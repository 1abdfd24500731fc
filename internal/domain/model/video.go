package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Rating represents the audience classification of a video.
type Rating string

const (
	RatingFree     Rating = "L"
	RatingTen      Rating = "10"
	RatingTwelve   Rating = "12"
	RatingFourteen Rating = "14"
	RatingSixteen  Rating = "16"
	RatingEighteen Rating = "18"
)

// RatingList enumerates every accepted rating value.
var RatingList = []Rating{
	RatingFree,
	RatingTen,
	RatingTwelve,
	RatingFourteen,
	RatingSixteen,
	RatingEighteen,
}

func (r Rating) IsValid() bool {
	for _, rating := range RatingList {
		if r == rating {
			return true
		}
	}
	return false
}

func (r Rating) String() string {
	return string(r)
}

// Video represents a catalog video entity.
// The four file fields hold artifact storage keys, not URLs; resolving
// a key to a URL is the storage layer's job.
type Video struct {
	ID           uuid.UUID
	Title        string
	Description  string
	YearLaunched int
	Opened       bool
	Rating       Rating
	Duration     int
	VideoFile    string
	ThumbFile    string
	BannerFile   string
	TrailerFile  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = errors.New("title exceeds maximum length of 255 characters")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidYear      = errors.New("year launched must be a 4-digit year")
	ErrInvalidRating    = errors.New("rating is not a recognized value")
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
)

const maxTitleLength = 255

// NewVideo creates a new Video with a freshly assigned identity.
func NewVideo(title, description string, yearLaunched int, opened bool, rating Rating, duration int) (*Video, error) {
	if err := validateVideoFields(title, description, yearLaunched, rating, duration); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Video{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		YearLaunched: yearLaunched,
		Opened:       opened,
		Rating:       rating,
		Duration:     duration,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Update replaces the video's editable fields after validating them.
// File keys and timestamps other than UpdatedAt are left untouched.
func (v *Video) Update(title, description string, yearLaunched int, opened bool, rating Rating, duration int) error {
	if err := validateVideoFields(title, description, yearLaunched, rating, duration); err != nil {
		return err
	}

	v.Title = title
	v.Description = description
	v.YearLaunched = yearLaunched
	v.Opened = opened
	v.Rating = rating
	v.Duration = duration
	v.UpdatedAt = time.Now()
	return nil
}

func validateVideoFields(title, description string, yearLaunched int, rating Rating, duration int) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if description == "" {
		return ErrEmptyDescription
	}
	if yearLaunched < 1000 || yearLaunched > 9999 {
		return ErrInvalidYear
	}
	if !rating.IsValid() {
		return ErrInvalidRating
	}
	if duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// FileKey returns the stored artifact key for the given slot, or empty
// when no artifact has been attached.
func (v *Video) FileKey(slot FileSlot) string {
	switch slot {
	case SlotVideoFile:
		return v.VideoFile
	case SlotThumbFile:
		return v.ThumbFile
	case SlotBannerFile:
		return v.BannerFile
	case SlotTrailerFile:
		return v.TrailerFile
	default:
		return ""
	}
}

// SetFileKey records the artifact key for the given slot.
func (v *Video) SetFileKey(slot FileSlot, key string) {
	switch slot {
	case SlotVideoFile:
		v.VideoFile = key
	case SlotThumbFile:
		v.ThumbFile = key
	case SlotBannerFile:
		v.BannerFile = key
	case SlotTrailerFile:
		v.TrailerFile = key
	}
	v.UpdatedAt = time.Now()
}

// FileKeys returns the non-empty artifact keys by slot.
func (v *Video) FileKeys() map[FileSlot]string {
	keys := make(map[FileSlot]string)
	for _, slot := range FileSlots {
		if key := v.FileKey(slot); key != "" {
			keys[slot] = key
		}
	}
	return keys
}

// IsDeleted reports whether the video has been soft-deleted.
func (v *Video) IsDeleted() bool {
	return v.DeletedAt != nil
}
