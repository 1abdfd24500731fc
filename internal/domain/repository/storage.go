package repository

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
)

// Upload describes one file artifact to be stored for a video slot.
type Upload struct {
	Slot        model.FileSlot
	Name        string // original client filename, used for the key's extension
	Size        int64
	ContentType string
	Content     io.Reader
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ArtifactStorage defines the interface for the binary artifact store.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
//
// Writes land outside any relational transaction, so callers that need
// atomicity with relational writes must compensate with Delete on
// failure.
type ArtifactStorage interface {
	// Put stores the upload under a key derived from the video id and
	// slot name (one directory per video). Each Put generates a fresh
	// key, so replacing a slot never clobbers the previous artifact
	// before its cleanup is confirmed. Size and media type are checked
	// against the slot's limits before any write.
	Put(ctx context.Context, videoID uuid.UUID, upload Upload) (string, error)

	// Delete removes an artifact by key. Idempotent: deleting a
	// non-existent key is not an error.
	Delete(ctx context.Context, key string) error

	// ResolveURL returns the public URL for an artifact key.
	// Pure lookup; empty for an empty key.
	ResolveURL(key string) string

	// Exists checks if an artifact exists in the store.
	Exists(ctx context.Context, key string) (bool, error)

	// List returns the stored objects under a key prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
