package model

import "errors"

// FileSlot names one of the binary artifact slots a video owns.
type FileSlot string

const (
	SlotVideoFile   FileSlot = "video_file"
	SlotThumbFile   FileSlot = "thumb_file"
	SlotBannerFile  FileSlot = "banner_file"
	SlotTrailerFile FileSlot = "trailer_file"
)

// FileSlots enumerates every recognized slot.
var FileSlots = []FileSlot{
	SlotVideoFile,
	SlotThumbFile,
	SlotBannerFile,
	SlotTrailerFile,
}

const (
	VideoFileMaxSize   = 50 << 30 // 50 GB
	ThumbFileMaxSize   = 5 << 20  // 5 MB
	BannerFileMaxSize  = 10 << 20 // 10 MB
	TrailerFileMaxSize = 1 << 30  // 1 GB
)

var (
	ErrUnknownFileSlot = errors.New("unknown file slot")
	ErrFileTooLarge    = errors.New("file exceeds the slot's maximum size")
	ErrFileMediaType   = errors.New("file media type is not accepted for the slot")
)

func (s FileSlot) IsValid() bool {
	switch s {
	case SlotVideoFile, SlotThumbFile, SlotBannerFile, SlotTrailerFile:
		return true
	default:
		return false
	}
}

func (s FileSlot) String() string {
	return string(s)
}

// MaxSize returns the maximum accepted content size in bytes.
func (s FileSlot) MaxSize() int64 {
	switch s {
	case SlotVideoFile:
		return VideoFileMaxSize
	case SlotThumbFile:
		return ThumbFileMaxSize
	case SlotBannerFile:
		return BannerFileMaxSize
	case SlotTrailerFile:
		return TrailerFileMaxSize
	default:
		return 0
	}
}

// AcceptedMediaType returns the required content type for the slot.
// Empty means any type is accepted.
func (s FileSlot) AcceptedMediaType() string {
	switch s {
	case SlotVideoFile, SlotTrailerFile:
		return "video/mp4"
	default:
		return ""
	}
}

// ValidateContent checks size and media type against the slot's limits.
func (s FileSlot) ValidateContent(size int64, mediaType string) error {
	if !s.IsValid() {
		return ErrUnknownFileSlot
	}
	if size > s.MaxSize() {
		return ErrFileTooLarge
	}
	if accepted := s.AcceptedMediaType(); accepted != "" && mediaType != accepted {
		return ErrFileMediaType
	}
	return nil
}
