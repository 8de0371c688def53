package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/cache"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/middleware"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen       = 300
	maxDescriptionLen = 50000
	maxCategoryLen    = 120
	defaultPageSize   = 20
	maxPageSize       = 100
)

type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

type PostInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	ImageURL     string     `json:"image_url"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

type ListPostsInput struct {
	Status string
	UserID *uint
	Search string
	Limit  int
	Offset int
}

// ListPostsResult is a page of posts plus paging metadata.
type ListPostsResult struct {
	Posts   []*models.Post `json:"posts"`
	Total   int64          `json:"total"`
	HasMore bool           `json:"has_more"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo, now: time.Now}
}

func (s *PostService) validateFields(in PostInput) error {
	if len(in.Title) > maxTitleLen {
		return models.NewValidationError("title", "Title too long (max 300 characters)")
	}
	if len(in.Description) > maxDescriptionLen {
		return models.NewValidationError("description", "Description too long (max 50000 characters)")
	}
	if len(in.Category) > maxCategoryLen {
		return models.NewValidationError("category", "Category too long (max 120 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, userID uint, in PostInput) (*models.Post, error) {
	if err := s.validateFields(in); err != nil {
		return nil, err
	}

	status := models.PostStatus(in.Status)
	if in.Status == "" {
		status = models.PostStatusDraft
	}

	post := &models.Post{
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		UserID:      userID,
	}

	prepared, err := ValidateTransition("", status, PublicationInput{
		Title:        in.Title,
		HasImage:     post.HasImage(),
		ScheduledFor: in.ScheduledFor,
	}, false, s.now())
	if err != nil {
		return nil, err
	}

	post.Title = prepared.Title
	post.Status = status
	post.ScheduledFor = prepared.ScheduledFor
	if prepared.StampPublishedAt {
		now := s.now().UTC()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "post created",
		"post_id", post.ID, "status", string(post.Status))
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id, userID uint, isAdmin bool, in PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	if post.UserID != userID && !isAdmin {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	if err := s.validateFields(in); err != nil {
		return nil, err
	}

	status := models.PostStatus(in.Status)
	if in.Status == "" {
		status = post.Status
	}

	post.Description = in.Description
	post.Category = strings.TrimSpace(in.Category)
	post.ImageURL = strings.TrimSpace(in.ImageURL)

	prepared, err := ValidateTransition(post.Status, status, PublicationInput{
		Title:        in.Title,
		HasImage:     post.HasImage(),
		ScheduledFor: in.ScheduledFor,
	}, post.PublishedAt != nil, s.now())
	if err != nil {
		return nil, err
	}

	post.Title = prepared.Title
	post.Status = status
	post.ScheduledFor = prepared.ScheduledFor
	if prepared.StampPublishedAt {
		now := s.now().UTC()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		p, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		post = *p
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*ListPostsResult, error) {
	filter := repository.ListPostsFilter{
		UserID: in.UserID,
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if in.Status != "" {
		status := models.PostStatus(in.Status)
		if !status.Valid() {
			return nil, models.NewValidationError("status", "Status must be draft, scheduled or published")
		}
		filter.Status = &status
	}

	fetch := func() (*ListPostsResult, error) {
		posts, total, err := s.postRepo.List(ctx, filter)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return &ListPostsResult{
			Posts:   posts,
			Total:   total,
			HasMore: int64(filter.Offset+len(posts)) < total,
		}, nil
	}

	// Only the default public page is cached; other views go to the store.
	frontPage := filter.Status != nil && *filter.Status == models.PostStatusPublished &&
		filter.UserID == nil && filter.Search == "" && filter.Offset == 0 && filter.Limit == defaultPageSize
	if frontPage {
		var result ListPostsResult
		err := cache.Aside(ctx, cache.PostsListKey(), &result, cache.ListTTL, func() error {
			r, err := fetch()
			if err != nil {
				return err
			}
			result = *r
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &result, nil
	}
	return fetch()
}

func (s *PostService) DeletePost(ctx context.Context, id, userID uint, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}
	if post.UserID != userID && !isAdmin {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "post deleted", "post_id", id)
	return nil
}
