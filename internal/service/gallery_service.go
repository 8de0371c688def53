package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/blob"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/middleware"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/observability"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/repository"

	"gorm.io/gorm"
)

// GalleryService maintains the ordered image gallery attached to a post.
type GalleryService struct {
	postRepo    repository.PostRepository
	galleryRepo repository.GalleryRepository
	blobs       blob.Store
}

func NewGalleryService(postRepo repository.PostRepository, galleryRepo repository.GalleryRepository, blobs blob.Store) *GalleryService {
	return &GalleryService{postRepo: postRepo, galleryRepo: galleryRepo, blobs: blobs}
}

// NormalizeFocalPoint parses an "X% Y%" pair, clamps both components into
// [0,100] and returns the canonical form.
func NormalizeFocalPoint(value string) (string, error) {
	parts := strings.Fields(strings.TrimSpace(value))
	if len(parts) != 2 {
		return "", models.NewValidationError("focal_point", `Focal point must look like "50% 50%"`)
	}
	nums := make([]float64, 2)
	for i, part := range parts {
		if !strings.HasSuffix(part, "%") {
			return "", models.NewValidationError("focal_point", `Focal point must look like "50% 50%"`)
		}
		n, err := strconv.ParseFloat(strings.TrimSuffix(part, "%"), 64)
		if err != nil {
			return "", models.NewValidationError("focal_point", `Focal point must look like "50% 50%"`)
		}
		if n < 0 {
			n = 0
		}
		if n > 100 {
			n = 100
		}
		nums[i] = n
	}
	return fmt.Sprintf("%g%% %g%%", nums[0], nums[1]), nil
}

func (s *GalleryService) ensurePost(ctx context.Context, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// AddImageRecord appends an image whose bytes already live in blob storage.
func (s *GalleryService) AddImageRecord(ctx context.Context, postID uint, url, focalPoint, altText string) (*models.PostImage, error) {
	if strings.TrimSpace(url) == "" {
		return nil, models.NewValidationError("image_url", "Image URL is required")
	}
	if focalPoint == "" {
		focalPoint = models.DefaultFocalPoint
	}
	normalized, err := NormalizeFocalPoint(focalPoint)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	image := &models.PostImage{
		PostID:     postID,
		ImageURL:   strings.TrimSpace(url),
		FocalPoint: normalized,
		AltText:    altText,
	}
	if err := s.galleryRepo.Append(ctx, image); err != nil {
		return nil, models.NewInternalError(err)
	}
	return image, nil
}

// PendingUpload is one file in a batch gallery upload.
type PendingUpload struct {
	Data        []byte
	ContentType string
	AltText     string
}

// UploadFailure records one file the batch upload could not commit.
type UploadFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// UploadImages writes each file to blob storage and then records it in the
// gallery. The blob write must be acknowledged before the metadata row is
// created, so a stored row always points at bytes that exist; a metadata
// failure after a successful blob write leaks the blob, which is accepted.
// The batch is best-effort: earlier successes stand when a later file fails.
func (s *GalleryService) UploadImages(ctx context.Context, postID uint, uploads []PendingUpload) ([]models.PostImage, []UploadFailure, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, nil, err
	}

	var added []models.PostImage
	var failures []UploadFailure
	for i, up := range uploads {
		url, err := s.blobs.Put(ctx, up.Data, up.ContentType)
		if err != nil {
			observability.BlobUploadsTotal.WithLabelValues("error").Inc()
			failures = append(failures, UploadFailure{Index: i, Reason: err.Error()})
			continue
		}
		observability.BlobUploadsTotal.WithLabelValues("success").Inc()

		image := &models.PostImage{
			PostID:     postID,
			ImageURL:   url,
			FocalPoint: models.DefaultFocalPoint,
			AltText:    up.AltText,
		}
		if err := s.galleryRepo.Append(ctx, image); err != nil {
			// The blob stays behind; cleanup is out of scope here.
			middleware.Logger.ErrorContext(ctx, "image record write failed after blob upload",
				"post_id", postID, "url", url, "error", err)
			failures = append(failures, UploadFailure{Index: i, Reason: err.Error()})
			continue
		}
		added = append(added, *image)
	}
	return added, failures, nil
}

// ReorderItem pairs an image id with its desired position.
type ReorderItem struct {
	ID        uint `json:"id"`
	SortOrder int  `json:"sort_order"`
}

// Reorder atomically rewrites the gallery ordering. The submitted items must
// cover exactly the live image set.
func (s *GalleryService) Reorder(ctx context.Context, postID uint, items []ReorderItem) error {
	if len(items) == 0 {
		return models.NewValidationError("order", "Image order is required")
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return err
	}

	sorted := make([]ReorderItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })

	ids := make([]uint, len(sorted))
	seen := make(map[uint]struct{}, len(sorted))
	for i, item := range sorted {
		if _, dup := seen[item.ID]; dup {
			return models.NewValidationError("order", "Image order contains duplicate ids")
		}
		seen[item.ID] = struct{}{}
		ids[i] = item.ID
	}

	if err := s.galleryRepo.Reorder(ctx, postID, ids); err != nil {
		if errors.Is(err, repository.ErrOrderMismatch) {
			return models.NewConflictError("Image order does not match the current gallery")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteImage removes the gallery record and then tries to reclaim the blob.
func (s *GalleryService) DeleteImage(ctx context.Context, postID, imageID uint) error {
	image, err := s.galleryRepo.GetByID(ctx, postID, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Image", imageID)
		}
		return models.NewInternalError(err)
	}

	if err := s.galleryRepo.Remove(ctx, postID, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Image", imageID)
		}
		return models.NewInternalError(err)
	}

	// Best-effort: the record is gone either way.
	if err := s.blobs.Delete(ctx, image.ImageURL); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to delete image blob",
			"post_id", postID, "image_id", imageID, "error", err)
	}
	return nil
}

func (s *GalleryService) UpdateFocalPoint(ctx context.Context, postID, imageID uint, value string) error {
	normalized, err := NormalizeFocalPoint(value)
	if err != nil {
		return err
	}
	if err := s.galleryRepo.UpdateFocalPoint(ctx, postID, imageID, normalized); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Image", imageID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (s *GalleryService) UpdateAltText(ctx context.Context, postID, imageID uint, value string) error {
	if len(value) > 500 {
		return models.NewValidationError("alt_text", "Alt text too long (max 500 characters)")
	}
	if err := s.galleryRepo.UpdateAltText(ctx, postID, imageID, value); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Image", imageID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// ListImages returns the gallery in display order.
func (s *GalleryService) ListImages(ctx context.Context, postID uint) ([]models.PostImage, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	images, err := s.galleryRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}
