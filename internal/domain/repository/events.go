package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CatalogEventType identifies a catalog change notification.
type CatalogEventType string

const (
	EventVideoCreated CatalogEventType = "video.created"
	EventVideoUpdated CatalogEventType = "video.updated"
	EventVideoDeleted CatalogEventType = "video.deleted"
)

// CatalogEvent notifies downstream consumers of a committed catalog
// change. Events are published after commit, best-effort: a publish
// failure never fails the operation that produced it.
type CatalogEvent struct {
	Type       CatalogEventType `json:"type"`
	VideoID    uuid.UUID        `json:"video_id"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing catalog events.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type EventPublisher interface {
	// PublishCatalogEvent sends a catalog change notification.
	PublishCatalogEvent(ctx context.Context, event CatalogEvent) error

	// Close gracefully closes the connection to the broker.
	Close() error
}
