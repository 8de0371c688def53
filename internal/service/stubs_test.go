package service

import (
	"context"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/repository"

	"gorm.io/gorm"
)

type stubPostRepo struct {
	createFn            func(ctx context.Context, post *models.Post) error
	getByIDFn           func(ctx context.Context, id uint) (*models.Post, error)
	listFn              func(ctx context.Context, f repository.ListPostsFilter) ([]*models.Post, int64, error)
	listAllNewestFn     func(ctx context.Context) ([]*models.Post, error)
	updateFn            func(ctx context.Context, post *models.Post) error
	updateLayoutTypesFn func(ctx context.Context, types map[uint]models.PostType) error
	deleteFn            func(ctx context.Context, id uint) error
	listDueFn           func(ctx context.Context, now time.Time) ([]*models.Post, error)
	promoteScheduledFn  func(ctx context.Context, id uint, now time.Time) (bool, error)
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	return nil
}

func (s *stubPostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPostRepo) List(ctx context.Context, f repository.ListPostsFilter) ([]*models.Post, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, f)
	}
	return nil, 0, nil
}

func (s *stubPostRepo) ListAllNewestFirst(ctx context.Context) ([]*models.Post, error) {
	if s.listAllNewestFn != nil {
		return s.listAllNewestFn(ctx)
	}
	return nil, nil
}

func (s *stubPostRepo) Update(ctx context.Context, post *models.Post) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, post)
	}
	return nil
}

func (s *stubPostRepo) UpdateLayoutTypes(ctx context.Context, types map[uint]models.PostType) error {
	if s.updateLayoutTypesFn != nil {
		return s.updateLayoutTypesFn(ctx, types)
	}
	return nil
}

func (s *stubPostRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubPostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	if s.listDueFn != nil {
		return s.listDueFn(ctx, now)
	}
	return nil, nil
}

func (s *stubPostRepo) PromoteScheduled(ctx context.Context, id uint, now time.Time) (bool, error) {
	if s.promoteScheduledFn != nil {
		return s.promoteScheduledFn(ctx, id, now)
	}
	return false, nil
}

type stubGalleryRepo struct {
	listByPostFn       func(ctx context.Context, postID uint) ([]models.PostImage, error)
	getByIDFn          func(ctx context.Context, postID, imageID uint) (*models.PostImage, error)
	appendFn           func(ctx context.Context, image *models.PostImage) error
	reorderFn          func(ctx context.Context, postID uint, orderedIDs []uint) error
	removeFn           func(ctx context.Context, postID, imageID uint) error
	updateFocalPointFn func(ctx context.Context, postID, imageID uint, value string) error
	updateAltTextFn    func(ctx context.Context, postID, imageID uint, value string) error
}

func (s *stubGalleryRepo) ListByPost(ctx context.Context, postID uint) ([]models.PostImage, error) {
	if s.listByPostFn != nil {
		return s.listByPostFn(ctx, postID)
	}
	return nil, nil
}

func (s *stubGalleryRepo) GetByID(ctx context.Context, postID, imageID uint) (*models.PostImage, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, postID, imageID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGalleryRepo) Append(ctx context.Context, image *models.PostImage) error {
	if s.appendFn != nil {
		return s.appendFn(ctx, image)
	}
	return nil
}

func (s *stubGalleryRepo) Reorder(ctx context.Context, postID uint, orderedIDs []uint) error {
	if s.reorderFn != nil {
		return s.reorderFn(ctx, postID, orderedIDs)
	}
	return nil
}

func (s *stubGalleryRepo) Remove(ctx context.Context, postID, imageID uint) error {
	if s.removeFn != nil {
		return s.removeFn(ctx, postID, imageID)
	}
	return nil
}

func (s *stubGalleryRepo) UpdateFocalPoint(ctx context.Context, postID, imageID uint, value string) error {
	if s.updateFocalPointFn != nil {
		return s.updateFocalPointFn(ctx, postID, imageID, value)
	}
	return nil
}

func (s *stubGalleryRepo) UpdateAltText(ctx context.Context, postID, imageID uint, value string) error {
	if s.updateAltTextFn != nil {
		return s.updateAltTextFn(ctx, postID, imageID, value)
	}
	return nil
}

type stubTagRepo struct {
	findBySlugFn     func(ctx context.Context, slug string) (*models.Tag, error)
	findByNameFoldFn func(ctx context.Context, name string) (*models.Tag, error)
	createFn         func(ctx context.Context, tag *models.Tag) error
	listAllFn        func(ctx context.Context) ([]models.Tag, error)
	listByPostFn     func(ctx context.Context, postID uint) ([]models.Tag, error)
	replaceForPostFn func(ctx context.Context, postID uint, tagIDs []uint) error
}

func (s *stubTagRepo) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	if s.findBySlugFn != nil {
		return s.findBySlugFn(ctx, slug)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTagRepo) FindByNameFold(ctx context.Context, name string) (*models.Tag, error) {
	if s.findByNameFoldFn != nil {
		return s.findByNameFoldFn(ctx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTagRepo) Create(ctx context.Context, tag *models.Tag) error {
	if s.createFn != nil {
		return s.createFn(ctx, tag)
	}
	return nil
}

func (s *stubTagRepo) ListAll(ctx context.Context) ([]models.Tag, error) {
	if s.listAllFn != nil {
		return s.listAllFn(ctx)
	}
	return nil, nil
}

func (s *stubTagRepo) ListByPost(ctx context.Context, postID uint) ([]models.Tag, error) {
	if s.listByPostFn != nil {
		return s.listByPostFn(ctx, postID)
	}
	return nil, nil
}

func (s *stubTagRepo) ReplaceForPost(ctx context.Context, postID uint, tagIDs []uint) error {
	if s.replaceForPostFn != nil {
		return s.replaceForPostFn(ctx, postID, tagIDs)
	}
	return nil
}

type stubBlobStore struct {
	putFn    func(ctx context.Context, data []byte, contentType string) (string, error)
	deleteFn func(ctx context.Context, url string) error
}

func (s *stubBlobStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.putFn != nil {
		return s.putFn(ctx, data, contentType)
	}
	return "https://cdn.example.com/blob.jpg", nil
}

func (s *stubBlobStore) Delete(ctx context.Context, url string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, url)
	}
	return nil
}
