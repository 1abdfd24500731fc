package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

// minioClient defines the interface for MinIO operations.
// This abstraction allows for easier unit testing with mocks.
type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// ClientConfig holds configuration for the MinIO artifact store.
type ClientConfig struct {
	Endpoint      string
	PublicBaseURL string // Optional: external-facing base URL for resolved artifact URLs
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
}

// Client implements repository.ArtifactStorage on MinIO.
//
// Writes land outside any relational transaction: the persistence
// coordinator compensates with Delete when a surrounding operation
// fails.
type Client struct {
	client  minioClient
	bucket  string
	baseURL string
}

// NewClient creates a new MinIO artifact store client.
// It verifies the bucket exists during initialization to fail fast on misconfiguration.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newClientWithMinioClient(ctx, client, cfg)
}

// newClientWithMinioClient creates a Client with a given minioClient implementation.
// This is used for dependency injection in tests.
func newClientWithMinioClient(ctx context.Context, client minioClient, cfg ClientConfig) (*Client, error) {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", repository.ErrBucketNotFound, cfg.Bucket)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Client{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Put stores the upload under a fresh key in the video's directory.
// Size and media type are checked against the slot's limits before any
// bytes are written; replacing a slot never reuses the previous key.
func (c *Client) Put(ctx context.Context, videoID uuid.UUID, upload repository.Upload) (string, error) {
	if err := upload.Slot.ValidateContent(upload.Size, upload.ContentType); err != nil {
		return "", err
	}

	key := artifactKey(videoID, upload)

	_, err := c.client.PutObject(ctx, c.bucket, key, upload.Content, upload.Size, minio.PutObjectOptions{
		ContentType: upload.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}

	return key, nil
}

// artifactKey builds the storage key for an upload.
// Format: {video_id}/{slot}-{random}{ext}
func artifactKey(videoID uuid.UUID, upload repository.Upload) string {
	name := fmt.Sprintf("%s-%s%s", upload.Slot, uuid.NewString(), path.Ext(upload.Name))
	return path.Join(videoID.String(), name)
}

// Delete removes an artifact from the store. Deleting a non-existent
// key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

// ResolveURL returns the public URL for an artifact key.
// Pure lookup; empty for an empty key.
func (c *Client) ResolveURL(key string) string {
	if key == "" {
		return ""
	}
	return c.baseURL + "/" + key
}

// Exists checks if an artifact exists in the store.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check artifact existence: %w", err)
	}
	return true, nil
}

// List returns the stored objects under a key prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]repository.ObjectInfo, error) {
	objects := c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var infos []repository.ObjectInfo
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list artifacts: %w", obj.Err)
		}
		infos = append(infos, repository.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return infos, nil
}

// Ping verifies the MinIO connection is alive by checking bucket access.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to ping minio: %w", err)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// Compile-time verification that Client implements repository.ArtifactStorage.
var _ repository.ArtifactStorage = (*Client)(nil)
