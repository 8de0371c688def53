package service

import (
	"context"
	"errors"
	"testing"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postExists(id uint) *stubPostRepo {
	return &stubPostRepo{
		getByIDFn: func(ctx context.Context, got uint) (*models.Post, error) {
			if got == id {
				return &models.Post{ID: id, UserID: 1}, nil
			}
			return nil, errors.New("unexpected id")
		},
	}
}

func TestNormalizeFocalPoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "centered", in: "50% 50%", want: "50% 50%"},
		{name: "extra whitespace", in: "  25%   75%  ", want: "25% 75%"},
		{name: "clamps above 100", in: "150% 50%", want: "100% 50%"},
		{name: "clamps below 0", in: "-20% 30%", want: "0% 30%"},
		{name: "fractional", in: "33.5% 66.5%", want: "33.5% 66.5%"},
		{name: "missing percent", in: "50 50%", wantErr: true},
		{name: "single component", in: "50%", wantErr: true},
		{name: "not a number", in: "left% top%", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeFocalPoint(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				_, field := appErrCode(t, err)
				assert.Equal(t, "focal_point", field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddImageRecord(t *testing.T) {
	var appended *models.PostImage
	gallery := &stubGalleryRepo{
		appendFn: func(ctx context.Context, image *models.PostImage) error {
			image.ID = 11
			image.SortOrder = 2
			appended = image
			return nil
		},
	}
	svc := NewGalleryService(postExists(5), gallery, &stubBlobStore{})

	image, err := svc.AddImageRecord(context.Background(), 5, "https://cdn.example.com/a.jpg", "", "pier at night")
	require.NoError(t, err)
	require.NotNil(t, appended)
	assert.Equal(t, models.DefaultFocalPoint, image.FocalPoint)
	assert.Equal(t, "pier at night", image.AltText)
	assert.Equal(t, 2, image.SortOrder)

	_, err = svc.AddImageRecord(context.Background(), 5, "   ", "", "")
	require.Error(t, err)
	_, field := appErrCode(t, err)
	assert.Equal(t, "image_url", field)
}

func TestReorderMapsMismatchToConflict(t *testing.T) {
	gallery := &stubGalleryRepo{
		reorderFn: func(ctx context.Context, postID uint, orderedIDs []uint) error {
			return repository.ErrOrderMismatch
		},
	}
	svc := NewGalleryService(postExists(5), gallery, &stubBlobStore{})

	err := svc.Reorder(context.Background(), 5, []ReorderItem{{ID: 1, SortOrder: 0}, {ID: 2, SortOrder: 1}})
	require.Error(t, err)
	code, _ := appErrCode(t, err)
	assert.Equal(t, models.ErrCodeConflict, code)
}

func TestReorderSortsBySubmittedOrder(t *testing.T) {
	var gotIDs []uint
	gallery := &stubGalleryRepo{
		reorderFn: func(ctx context.Context, postID uint, orderedIDs []uint) error {
			gotIDs = orderedIDs
			return nil
		},
	}
	svc := NewGalleryService(postExists(5), gallery, &stubBlobStore{})

	err := svc.Reorder(context.Background(), 5, []ReorderItem{
		{ID: 30, SortOrder: 2},
		{ID: 10, SortOrder: 0},
		{ID: 20, SortOrder: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 20, 30}, gotIDs)
}

func TestReorderRejectsBadInput(t *testing.T) {
	svc := NewGalleryService(postExists(5), &stubGalleryRepo{}, &stubBlobStore{})

	err := svc.Reorder(context.Background(), 5, nil)
	require.Error(t, err)
	code, _ := appErrCode(t, err)
	assert.Equal(t, models.ErrCodeValidation, code)

	err = svc.Reorder(context.Background(), 5, []ReorderItem{{ID: 1, SortOrder: 0}, {ID: 1, SortOrder: 1}})
	require.Error(t, err)
	code, _ = appErrCode(t, err)
	assert.Equal(t, models.ErrCodeValidation, code)
}

func TestUploadImagesBestEffort(t *testing.T) {
	blobCalls := 0
	blobs := &stubBlobStore{
		putFn: func(ctx context.Context, data []byte, contentType string) (string, error) {
			blobCalls++
			if blobCalls == 2 {
				return "", errors.New("disk full")
			}
			return "https://cdn.example.com/ok.jpg", nil
		},
	}
	var appended int
	gallery := &stubGalleryRepo{
		appendFn: func(ctx context.Context, image *models.PostImage) error {
			appended++
			return nil
		},
	}
	svc := NewGalleryService(postExists(5), gallery, blobs)

	uploads := []PendingUpload{
		{Data: []byte("a"), ContentType: "image/jpeg"},
		{Data: []byte("b"), ContentType: "image/jpeg"},
		{Data: []byte("c"), ContentType: "image/jpeg"},
	}
	added, failures, err := svc.UploadImages(context.Background(), 5, uploads)
	require.NoError(t, err)
	assert.Len(t, added, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, 1, failures[0].Index)
	assert.Equal(t, 2, appended)
}

func TestUploadImagesMetadataFailureKeepsEarlierSuccesses(t *testing.T) {
	var appended int
	gallery := &stubGalleryRepo{
		appendFn: func(ctx context.Context, image *models.PostImage) error {
			appended++
			if appended == 2 {
				return errors.New("db write failed")
			}
			return nil
		},
	}
	svc := NewGalleryService(postExists(5), gallery, &stubBlobStore{})

	added, failures, err := svc.UploadImages(context.Background(), 5, []PendingUpload{
		{Data: []byte("a"), ContentType: "image/png"},
		{Data: []byte("b"), ContentType: "image/png"},
	})
	require.NoError(t, err)
	assert.Len(t, added, 1)
	require.Len(t, failures, 1)
	assert.Equal(t, 1, failures[0].Index)
}

func TestDeleteImageReclaimsBlob(t *testing.T) {
	var deletedURL string
	blobs := &stubBlobStore{
		deleteFn: func(ctx context.Context, url string) error {
			deletedURL = url
			return nil
		},
	}
	gallery := &stubGalleryRepo{
		getByIDFn: func(ctx context.Context, postID, imageID uint) (*models.PostImage, error) {
			return &models.PostImage{ID: imageID, PostID: postID, ImageURL: "https://cdn.example.com/x.jpg"}, nil
		},
	}
	svc := NewGalleryService(postExists(5), gallery, blobs)

	require.NoError(t, svc.DeleteImage(context.Background(), 5, 11))
	assert.Equal(t, "https://cdn.example.com/x.jpg", deletedURL)
}

func TestDeleteImageNotFound(t *testing.T) {
	svc := NewGalleryService(postExists(5), &stubGalleryRepo{}, &stubBlobStore{})

	err := svc.DeleteImage(context.Background(), 5, 11)
	require.Error(t, err)
	code, _ := appErrCode(t, err)
	assert.Equal(t, models.ErrCodeNotFound, code)
}

func TestUpdateFocalPointNormalizesBeforeWrite(t *testing.T) {
	var written string
	gallery := &stubGalleryRepo{
		updateFocalPointFn: func(ctx context.Context, postID, imageID uint, value string) error {
			written = value
			return nil
		},
	}
	svc := NewGalleryService(postExists(5), gallery, &stubBlobStore{})

	require.NoError(t, svc.UpdateFocalPoint(context.Background(), 5, 11, "120% -5%"))
	assert.Equal(t, "100% 0%", written)
}
