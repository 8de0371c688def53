package repository

import (
	"context"
	"errors"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/cache"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"

	"gorm.io/gorm"
)

// ErrOrderMismatch reports that a reorder list does not exactly match the
// live image-id set for the post at write time.
var ErrOrderMismatch = errors.New("ordered ids do not match the current image set")

// GalleryRepository defines storage operations for a post's ordered image gallery.
//
// Every write keeps the per-post sort_order values a dense permutation of
// 0..N-1; multi-row rewrites happen inside a single transaction.
type GalleryRepository interface {
	ListByPost(ctx context.Context, postID uint) ([]models.PostImage, error)
	GetByID(ctx context.Context, postID, imageID uint) (*models.PostImage, error)
	Append(ctx context.Context, image *models.PostImage) error
	Reorder(ctx context.Context, postID uint, orderedIDs []uint) error
	Remove(ctx context.Context, postID, imageID uint) error
	UpdateFocalPoint(ctx context.Context, postID, imageID uint, value string) error
	UpdateAltText(ctx context.Context, postID, imageID uint, value string) error
}

type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository returns a repository implementation for post galleries.
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) ListByPost(ctx context.Context, postID uint) ([]models.PostImage, error) {
	var images []models.PostImage
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("sort_order ASC").
		Find(&images).Error
	return images, err
}

func (r *galleryRepository) GetByID(ctx context.Context, postID, imageID uint) (*models.PostImage, error) {
	var image models.PostImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", imageID, postID).
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// Append inserts the image at the end of the gallery. The max+1 read and the
// insert share a transaction so two concurrent appends cannot claim the same
// slot; the unique (post_id, sort_order) index backstops the race.
func (r *galleryRepository) Append(ctx context.Context, image *models.PostImage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&models.PostImage{}).
			Where("post_id = ?", image.PostID).
			Select("COALESCE(MAX(sort_order)+1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}
		image.SortOrder = next
		return tx.Create(image).Error
	})
	if err == nil {
		cache.InvalidatePost(ctx, image.PostID)
	}
	return err
}

// Reorder atomically reassigns sort_order to the 0-based position in
// orderedIDs. The list must be exactly the current id set; anything else is
// an ErrOrderMismatch so a caller working from a stale gallery view fails
// instead of corrupting the ordering.
func (r *galleryRepository) Reorder(ctx context.Context, postID uint, orderedIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentIDs []uint
		if err := tx.Model(&models.PostImage{}).
			Where("post_id = ?", postID).
			Pluck("id", &currentIDs).Error; err != nil {
			return err
		}
		if !sameIDSet(currentIDs, orderedIDs) {
			return ErrOrderMismatch
		}

		// Park every row on a negative slot first so the final assignment
		// never collides with the unique (post_id, sort_order) index.
		if err := tx.Model(&models.PostImage{}).
			Where("post_id = ?", postID).
			Update("sort_order", gorm.Expr("-sort_order - 1")).Error; err != nil {
			return err
		}
		for pos, id := range orderedIDs {
			if err := tx.Model(&models.PostImage{}).
				Where("id = ? AND post_id = ?", id, postID).
				Update("sort_order", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

// Remove deletes the image and compacts the remaining sort_order values so
// they stay dense. Removing the cover promotes the next image by order.
func (r *galleryRepository) Remove(ctx context.Context, postID, imageID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND post_id = ?", imageID, postID).
			Delete(&models.PostImage{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var remaining []models.PostImage
		if err := tx.Where("post_id = ?", postID).
			Order("sort_order ASC").
			Find(&remaining).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PostImage{}).
			Where("post_id = ?", postID).
			Update("sort_order", gorm.Expr("-sort_order - 1")).Error; err != nil {
			return err
		}
		for pos := range remaining {
			if err := tx.Model(&models.PostImage{}).
				Where("id = ?", remaining[pos].ID).
				Update("sort_order", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *galleryRepository) UpdateFocalPoint(ctx context.Context, postID, imageID uint, value string) error {
	return r.updateField(ctx, postID, imageID, "focal_point", value)
}

func (r *galleryRepository) UpdateAltText(ctx context.Context, postID, imageID uint, value string) error {
	return r.updateField(ctx, postID, imageID, "alt_text", value)
}

func (r *galleryRepository) updateField(ctx context.Context, postID, imageID uint, column, value string) error {
	res := r.db.WithContext(ctx).Model(&models.PostImage{}).
		Where("id = ? AND post_id = ?", imageID, postID).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish "no such image" from an idempotent same-value write.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.PostImage{}).
			Where("id = ? AND post_id = ?", imageID, postID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func sameIDSet(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uint]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}
