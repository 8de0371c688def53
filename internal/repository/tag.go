package repository

import (
	"context"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/cache"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines storage operations for the tag registry and the
// post/tag association table.
type TagRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	FindByNameFold(ctx context.Context, name string) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	ListAll(ctx context.Context) ([]models.Tag, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Tag, error)
	ReplaceForPost(ctx context.Context, postID uint, tagIDs []uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a repository implementation for tags.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByNameFold matches a tag by display name ignoring case, so "Travel"
// and "travel" resolve to the same registry entry.
func (r *tagRepository) FindByNameFold(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	err := r.db.WithContext(ctx).Create(tag).Error
	if err == nil {
		cache.InvalidateTags(ctx)
	}
	return err
}

func (r *tagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("slug ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) ListByPost(ctx context.Context, postID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.slug ASC").
		Find(&tags).Error
	return tags, err
}

// ReplaceForPost reconciles the post's tag set against tagIDs in one
// transaction, touching only the rows that differ so an identical set is a
// no-op write.
func (r *tagRepository) ReplaceForPost(ctx context.Context, postID uint, tagIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []uint
		if err := tx.Table("post_tags").
			Where("post_id = ?", postID).
			Pluck("tag_id", &current).Error; err != nil {
			return err
		}

		wanted := make(map[uint]struct{}, len(tagIDs))
		for _, id := range tagIDs {
			wanted[id] = struct{}{}
		}
		have := make(map[uint]struct{}, len(current))
		for _, id := range current {
			have[id] = struct{}{}
		}

		var toRemove []uint
		for _, id := range current {
			if _, ok := wanted[id]; !ok {
				toRemove = append(toRemove, id)
			}
		}
		var toAdd []uint
		for _, id := range tagIDs {
			if _, ok := have[id]; !ok {
				toAdd = append(toAdd, id)
			}
		}

		if len(toRemove) > 0 {
			if err := tx.Exec(
				"DELETE FROM post_tags WHERE post_id = ? AND tag_id IN ?",
				postID, toRemove).Error; err != nil {
				return err
			}
		}
		for _, id := range toAdd {
			if err := tx.Exec(
				"INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)",
				postID, id).Error; err != nil {
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
