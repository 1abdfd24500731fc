package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/videocatalog/internal/domain/model"
	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	createFn             func(ctx context.Context, video *model.Video) error
	getByIDFn            func(ctx context.Context, id uuid.UUID) (*model.Video, error)
	getByIDWithDeletedFn func(ctx context.Context, id uuid.UUID) (*model.Video, error)
	listFn               func(ctx context.Context) ([]*model.Video, error)
	updateFn             func(ctx context.Context, video *model.Video) error
	setFileKeysFn        func(ctx context.Context, id uuid.UUID, keys map[model.FileSlot]string) error
	softDeleteFn         func(ctx context.Context, id uuid.UUID) error
	referencedFileKeysFn func(ctx context.Context) ([]string, error)
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) GetByIDWithDeleted(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	if m.getByIDWithDeletedFn != nil {
		return m.getByIDWithDeletedFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockVideoRepository) Update(ctx context.Context, video *model.Video) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) SetFileKeys(ctx context.Context, id uuid.UUID, keys map[model.FileSlot]string) error {
	if m.setFileKeysFn != nil {
		return m.setFileKeysFn(ctx, id, keys)
	}
	return nil
}

func (m *mockVideoRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id)
	}
	return nil
}

func (m *mockVideoRepository) ReferencedFileKeys(ctx context.Context) ([]string, error) {
	if m.referencedFileKeysFn != nil {
		return m.referencedFileKeysFn(ctx)
	}
	return nil, nil
}

// mockRelationRepository provides a configurable mock for RelationRepository.
type mockRelationRepository struct {
	syncFn      func(ctx context.Context, videoID uuid.UUID, kind model.RelationKind, targetIDs []uuid.UUID) error
	linkedIDsFn func(ctx context.Context, videoID uuid.UUID, kind model.RelationKind) ([]uuid.UUID, error)
}

func (m *mockRelationRepository) Sync(ctx context.Context, videoID uuid.UUID, kind model.RelationKind, targetIDs []uuid.UUID) error {
	if m.syncFn != nil {
		return m.syncFn(ctx, videoID, kind, targetIDs)
	}
	return nil
}

func (m *mockRelationRepository) LinkedIDs(ctx context.Context, videoID uuid.UUID, kind model.RelationKind) ([]uuid.UUID, error) {
	if m.linkedIDsFn != nil {
		return m.linkedIDsFn(ctx, videoID, kind)
	}
	return nil, nil
}

// mockCategoryRepository provides a configurable mock for CategoryRepository.
type mockCategoryRepository struct {
	createFn      func(ctx context.Context, category *model.Category) error
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*model.Category, error)
	listFn        func(ctx context.Context) ([]*model.Category, error)
	updateFn      func(ctx context.Context, category *model.Category) error
	softDeleteFn  func(ctx context.Context, id uuid.UUID) error
	existingIDsFn func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if m.createFn != nil {
		return m.createFn(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id)
	}
	return nil
}

func (m *mockCategoryRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if m.existingIDsFn != nil {
		return m.existingIDsFn(ctx, ids)
	}
	return ids, nil
}

// mockGenderRepository provides a configurable mock for GenderRepository.
type mockGenderRepository struct {
	existingIDsFn         func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	categoryMembershipsFn func(ctx context.Context, genderIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}

func (m *mockGenderRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if m.existingIDsFn != nil {
		return m.existingIDsFn(ctx, ids)
	}
	return ids, nil
}

func (m *mockGenderRepository) CategoryMemberships(ctx context.Context, genderIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	if m.categoryMembershipsFn != nil {
		return m.categoryMembershipsFn(ctx, genderIDs)
	}
	return map[uuid.UUID][]uuid.UUID{}, nil
}

// mockArtifactStorage provides a configurable mock for ArtifactStorage.
type mockArtifactStorage struct {
	putFn        func(ctx context.Context, videoID uuid.UUID, upload repository.Upload) (string, error)
	deleteFn     func(ctx context.Context, key string) error
	resolveURLFn func(key string) string
	existsFn     func(ctx context.Context, key string) (bool, error)
	listFn       func(ctx context.Context, prefix string) ([]repository.ObjectInfo, error)
}

func (m *mockArtifactStorage) Put(ctx context.Context, videoID uuid.UUID, upload repository.Upload) (string, error) {
	if m.putFn != nil {
		return m.putFn(ctx, videoID, upload)
	}
	return videoID.String() + "/" + string(upload.Slot), nil
}

func (m *mockArtifactStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockArtifactStorage) ResolveURL(key string) string {
	if m.resolveURLFn != nil {
		return m.resolveURLFn(key)
	}
	return "http://example.com/" + key
}

func (m *mockArtifactStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockArtifactStorage) List(ctx context.Context, prefix string) ([]repository.ObjectInfo, error) {
	if m.listFn != nil {
		return m.listFn(ctx, prefix)
	}
	return nil, nil
}

// mockEventPublisher provides a configurable mock for EventPublisher.
type mockEventPublisher struct {
	publishFn func(ctx context.Context, event repository.CatalogEvent) error
	published []repository.CatalogEvent
}

func (m *mockEventPublisher) PublishCatalogEvent(ctx context.Context, event repository.CatalogEvent) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	m.published = append(m.published, event)
	return nil
}

func (m *mockEventPublisher) Close() error {
	return nil
}

// mockTx bundles mock repositories as a transaction handle.
type mockTx struct {
	videos    repository.VideoRepository
	relations repository.RelationRepository
}

func (t *mockTx) Videos() repository.VideoRepository {
	return t.videos
}

func (t *mockTx) Relations() repository.RelationRepository {
	return t.relations
}

// mockUnitOfWork runs the closure against mockTx without a real
// transaction. When the closure fails, the error is returned as a real
// unit of work would after rolling back.
type mockUnitOfWork struct {
	tx        *mockTx
	beginErr  error
	commitErr error
}

func (m *mockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	if err := fn(ctx, m.tx); err != nil {
		return err
	}
	return m.commitErr
}

// mockVideoCache provides a configurable mock for cache.VideoCache.
type mockVideoCache struct {
	getFn    func(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	setFn    func(ctx context.Context, video *model.Video, ttl time.Duration) error
	deleteFn func(ctx context.Context, videoID uuid.UUID) error
}

func (m *mockVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	if m.getFn != nil {
		return m.getFn(ctx, videoID)
	}
	return nil, nil
}

func (m *mockVideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, video, ttl)
	}
	return nil
}

func (m *mockVideoCache) Delete(ctx context.Context, videoID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, videoID)
	}
	return nil
}
