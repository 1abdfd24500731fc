package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const videoColumns = `id, title, description, year_launched, opened, rating, duration,
		video_file, thumb_file, banner_file, trailer_file, created_at, updated_at, deleted_at`

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create persists a new video entity. File columns start empty: artifact
// keys are recorded separately via SetFileKeys once uploads succeed.
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (id, title, description, year_launched, opened, rating, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.YearLaunched,
		video.Opened,
		video.Rating.String(),
		video.Duration,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateVideo
		}
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by id, excluding soft-deleted rows.
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1 AND deleted_at IS NULL`
	return r.getOne(ctx, query, id)
}

// GetByIDWithDeleted retrieves a video by id regardless of its
// soft-delete state.
func (r *VideoRepository) GetByIDWithDeleted(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *VideoRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.Video, error) {
	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}
	return video, nil
}

// List retrieves all videos that are not soft-deleted, newest first.
func (r *VideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE deleted_at IS NULL ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// Update persists the non-file fields of an existing video. Zero rows
// affected is treated as a successful no-op: the caller has already
// established that the record exists, and the system does not
// distinguish "unchanged" from "changed".
func (r *VideoRepository) Update(ctx context.Context, video *model.Video) error {
	const query = `
		UPDATE videos
		SET title = $2, description = $3, year_launched = $4, opened = $5, rating = $6, duration = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	video.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.YearLaunched,
		video.Opened,
		video.Rating.String(),
		video.Duration,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	return nil
}

// SetFileKeys records artifact keys for the given slots, leaving the
// other slots untouched.
func (r *VideoRepository) SetFileKeys(ctx context.Context, id uuid.UUID, keys map[model.FileSlot]string) error {
	if len(keys) == 0 {
		return nil
	}

	sets := make([]string, 0, len(keys)+1)
	args := []any{id}
	for _, slot := range model.FileSlots {
		key, ok := keys[slot]
		if !ok {
			continue
		}
		args = append(args, key)
		sets = append(sets, fmt.Sprintf("%s = $%d", slot, len(args)))
	}
	args = append(args, time.Now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`UPDATE videos SET %s WHERE id = $1`, strings.Join(sets, ", "))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set file keys: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// SoftDelete marks a video as deleted without touching its relation
// links or stored artifacts.
func (r *VideoRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE videos
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to soft delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// ReferencedFileKeys returns every artifact key referenced by any video
// row, soft-deleted rows included.
func (r *VideoRepository) ReferencedFileKeys(ctx context.Context) ([]string, error) {
	const query = `SELECT video_file, thumb_file, banner_file, trailer_file FROM videos`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query file keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		slots := make([]*string, 4)
		if err := rows.Scan(&slots[0], &slots[1], &slots[2], &slots[3]); err != nil {
			return nil, fmt.Errorf("failed to scan file keys: %w", err)
		}
		for _, key := range slots {
			if key != nil && *key != "" {
				keys = append(keys, *key)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file keys: %w", err)
	}

	return keys, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*model.Video, error) {
	var (
		video       model.Video
		rating      string
		videoFile   *string
		thumbFile   *string
		bannerFile  *string
		trailerFile *string
	)

	err := row.Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.YearLaunched,
		&video.Opened,
		&rating,
		&video.Duration,
		&videoFile,
		&thumbFile,
		&bannerFile,
		&trailerFile,
		&video.CreatedAt,
		&video.UpdatedAt,
		&video.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	video.Rating = model.Rating(rating)
	video.VideoFile = deref(videoFile)
	video.ThumbFile = deref(thumbFile)
	video.BannerFile = deref(bannerFile)
	video.TrailerFile = deref(trailerFile)

	return &video, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
