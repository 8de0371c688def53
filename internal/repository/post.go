// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/cache"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"

	"gorm.io/gorm"
)

// ListPostsFilter narrows a post listing. A nil Status means all statuses,
// a nil UserID means all authors.
type ListPostsFilter struct {
	Status *models.PostStatus
	UserID *uint
	Search string
	Limit  int
	Offset int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, f ListPostsFilter) ([]*models.Post, int64, error)
	ListAllNewestFirst(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateLayoutTypes(ctx context.Context, types map[uint]models.PostType) error
	Delete(ctx context.Context, id uint) error
	ListDue(ctx context.Context, now time.Time) ([]*models.Post, error)
	PromoteScheduled(ctx context.Context, id uint, now time.Time) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePostsList(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_images.sort_order ASC")
		}).
		Preload("Tags").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, f ListPostsFilter) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})
	if f.Status != nil {
		base = base.Where("status = ?", *f.Status)
	}
	if f.UserID != nil {
		base = base.Where("user_id = ?", *f.UserID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		// LOWER() over ILIKE keeps the filter portable to the sqlite test driver.
		base = base.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := base.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_images.sort_order ASC")
		}).
		Preload("Tags").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListAllNewestFirst(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)
	return nil
}

// UpdateLayoutTypes persists a full layout reassignment in one transaction so
// readers never observe a half-applied shuffle.
func (r *postRepository) UpdateLayoutTypes(ctx context.Context, types map[uint]models.PostType) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, layout := range types {
			if err := tx.Model(&models.Post{}).
				Where("id = ?", id).
				Update("type", layout).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for id := range types {
		cache.InvalidatePost(ctx, id)
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

// Delete soft-deletes the post and removes its gallery rows and tag
// associations in the same transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM post_tags WHERE post_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_images.sort_order ASC")
		}).
		Where("status = ? AND scheduled_for <= ?", models.PostStatusScheduled, now).
		Order("scheduled_for ASC").
		Find(&posts).Error
	return posts, err
}

// PromoteScheduled flips a post from scheduled to published, guarded by the
// current status. The guard makes overlapping sweeps promote a post at most
// once: the loser sees zero affected rows and reports promoted=false.
func (r *postRepository) PromoteScheduled(ctx context.Context, id uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND status = ?", id, models.PostStatusScheduled).
		Updates(map[string]interface{}{
			"status": models.PostStatusPublished,
			// published_at is stamped once; re-publishing keeps the original instant.
			"published_at":  gorm.Expr("COALESCE(published_at, ?)", now),
			"scheduled_for": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return true, nil
}
