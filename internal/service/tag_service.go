package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/cache"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/repository"

	"gorm.io/gorm"
)

const maxTagNameLen = 64

var slugStrip = regexp.MustCompile(`[^a-z0-9-]+`)
var slugDashes = regexp.MustCompile(`-{2,}`)

// TagService maintains the deduplicated tag vocabulary and per-post tag sets.
type TagService struct {
	tagRepo  repository.TagRepository
	postRepo repository.PostRepository
}

func NewTagService(tagRepo repository.TagRepository, postRepo repository.PostRepository) *TagService {
	return &TagService{tagRepo: tagRepo, postRepo: postRepo}
}

// Slugify derives the normalized unique key for a tag name: lower-cased,
// whitespace collapsed to hyphens, anything else dropped.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	s = slugStrip.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ResolveOrCreate finds the tag a spec refers to, matching case-insensitively
// against existing names and slugs, and creates it when absent. A name whose
// slug collides with an existing tag resolves to that tag rather than erroring.
func (s *TagService) ResolveOrCreate(ctx context.Context, spec models.TagSpec) (*models.Tag, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "Tag name is required")
	}
	if len(name) > maxTagNameLen {
		return nil, models.NewValidationError("name", "Tag name too long (max 64 characters)")
	}

	slug := strings.TrimSpace(spec.Slug)
	if slug == "" {
		slug = Slugify(name)
	} else {
		slug = Slugify(slug)
	}
	if slug == "" {
		return nil, models.NewValidationError("name", "Tag name has no usable characters")
	}

	tag, err := s.tagRepo.FindBySlug(ctx, slug)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	tag, err = s.tagRepo.FindByNameFold(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	tag = &models.Tag{Name: name, Slug: slug}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		// A concurrent request may have created the slug first; resolve to it.
		if existing, ferr := s.tagRepo.FindBySlug(ctx, slug); ferr == nil {
			return existing, nil
		}
		return nil, models.NewInternalError(err)
	}
	return tag, nil
}

// SetPostTags replaces the post's entire tag set. Every spec is resolved to a
// tag first (creating missing ones), then the association set is reconciled
// in one transaction. Calling twice with the same set changes nothing the
// second time.
func (s *TagService) SetPostTags(ctx context.Context, postID uint, specs []models.TagSpec) ([]models.Tag, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}

	ids := make([]uint, 0, len(specs))
	seen := make(map[uint]struct{}, len(specs))
	for _, spec := range specs {
		tag, err := s.ResolveOrCreate(ctx, spec)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		ids = append(ids, tag.ID)
	}

	if err := s.tagRepo.ReplaceForPost(ctx, postID, ids); err != nil {
		return nil, models.NewInternalError(err)
	}

	tags, err := s.tagRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// ListTags returns the full vocabulary, cached briefly.
func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := cache.Aside(ctx, cache.TagsKey(), &tags, cache.TagsTTL, func() error {
		fetched, err := s.tagRepo.ListAll(ctx)
		if err != nil {
			return err
		}
		tags = fetched
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}
