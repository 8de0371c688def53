package repository

import (
	"context"
	"testing"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Post{}, &models.PostImage{}, &models.Tag{}))
	return db
}

func seedPost(t *testing.T, db *gorm.DB, status models.PostStatus, scheduledFor *time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:        "Harbor Lights",
		Description:  "Night shots from the pier.",
		Status:       status,
		Type:         models.PostTypeSplitHorizontal,
		ImageURL:     "https://cdn.example.com/harbor.jpg",
		ScheduledFor: scheduledFor,
		UserID:       1,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func galleryOrders(t *testing.T, db *gorm.DB, postID uint) map[uint]int {
	t.Helper()
	var images []models.PostImage
	require.NoError(t, db.Where("post_id = ?", postID).Find(&images).Error)
	orders := make(map[uint]int, len(images))
	for _, img := range images {
		orders[img.ID] = img.SortOrder
	}
	return orders
}

func TestGalleryAppendAssignsNextSlot(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewGalleryRepository(db)
	post := seedPost(t, db, models.PostStatusDraft, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		img := &models.PostImage{PostID: post.ID, ImageURL: "https://cdn.example.com/a.jpg", FocalPoint: models.DefaultFocalPoint}
		require.NoError(t, repo.Append(ctx, img))
		assert.Equal(t, i, img.SortOrder)
	}

	images, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, images, 3)
	for i, img := range images {
		assert.Equal(t, i, img.SortOrder)
	}
}

func TestGalleryReorderPermutesDense(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewGalleryRepository(db)
	post := seedPost(t, db, models.PostStatusDraft, nil)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 4; i++ {
		img := &models.PostImage{PostID: post.ID, ImageURL: "https://cdn.example.com/a.jpg", FocalPoint: models.DefaultFocalPoint}
		require.NoError(t, repo.Append(ctx, img))
		ids = append(ids, img.ID)
	}

	// Reverse the gallery.
	reversed := []uint{ids[3], ids[2], ids[1], ids[0]}
	require.NoError(t, repo.Reorder(ctx, post.ID, reversed))

	orders := galleryOrders(t, db, post.ID)
	for pos, id := range reversed {
		assert.Equal(t, pos, orders[id])
	}
}

func TestGalleryReorderRejectsStaleIDSet(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewGalleryRepository(db)
	post := seedPost(t, db, models.PostStatusDraft, nil)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 2; i++ {
		img := &models.PostImage{PostID: post.ID, ImageURL: "https://cdn.example.com/a.jpg", FocalPoint: models.DefaultFocalPoint}
		require.NoError(t, repo.Append(ctx, img))
		ids = append(ids, img.ID)
	}

	cases := []struct {
		name string
		ids  []uint
	}{
		{"missing id", []uint{ids[0]}},
		{"unknown id", []uint{ids[0], ids[1], 999}},
		{"duplicate id", []uint{ids[0], ids[0]}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.Reorder(ctx, post.ID, tc.ids)
			assert.ErrorIs(t, err, ErrOrderMismatch)
		})
	}

	// The failed attempts must not have disturbed the ordering.
	orders := galleryOrders(t, db, post.ID)
	assert.Equal(t, 0, orders[ids[0]])
	assert.Equal(t, 1, orders[ids[1]])
}

func TestGalleryRemoveCompactsOrder(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewGalleryRepository(db)
	post := seedPost(t, db, models.PostStatusDraft, nil)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 3; i++ {
		img := &models.PostImage{PostID: post.ID, ImageURL: "https://cdn.example.com/a.jpg", FocalPoint: models.DefaultFocalPoint}
		require.NoError(t, repo.Append(ctx, img))
		ids = append(ids, img.ID)
	}

	// Removing the cover promotes the next image into slot zero.
	require.NoError(t, repo.Remove(ctx, post.ID, ids[0]))

	orders := galleryOrders(t, db, post.ID)
	require.Len(t, orders, 2)
	assert.Equal(t, 0, orders[ids[1]])
	assert.Equal(t, 1, orders[ids[2]])

	err := repo.Remove(ctx, post.ID, ids[0])
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGalleryUpdateFocalPoint(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewGalleryRepository(db)
	post := seedPost(t, db, models.PostStatusDraft, nil)
	ctx := context.Background()

	img := &models.PostImage{PostID: post.ID, ImageURL: "https://cdn.example.com/a.jpg", FocalPoint: models.DefaultFocalPoint}
	require.NoError(t, repo.Append(ctx, img))

	require.NoError(t, repo.UpdateFocalPoint(ctx, post.ID, img.ID, "25% 75%"))
	got, err := repo.GetByID(ctx, post.ID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, "25% 75%", got.FocalPoint)

	err = repo.UpdateFocalPoint(ctx, post.ID, 999, "10% 10%")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPromoteScheduledGuardsStatus(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	post := seedPost(t, db, models.PostStatusScheduled, &past)
	now := time.Now()

	promoted, err := repo.PromoteScheduled(ctx, post.ID, now)
	require.NoError(t, err)
	assert.True(t, promoted)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	assert.Nil(t, got.ScheduledFor)
	require.NotNil(t, got.PublishedAt)

	// A second sweep loses the guard and promotes nothing.
	promoted, err = repo.PromoteScheduled(ctx, post.ID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, promoted)
}

func TestPromoteScheduledKeepsOriginalPublishedAt(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	first := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	post := seedPost(t, db, models.PostStatusScheduled, &past)
	require.NoError(t, db.Model(post).Update("published_at", first).Error)

	promoted, err := repo.PromoteScheduled(ctx, post.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, promoted)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(first))
}

func TestListDueReturnsOnlyRipeScheduled(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	due := seedPost(t, db, models.PostStatusScheduled, &past)
	seedPost(t, db, models.PostStatusScheduled, &future)
	seedPost(t, db, models.PostStatusDraft, nil)
	seedPost(t, db, models.PostStatusPublished, nil)

	posts, err := repo.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, due.ID, posts[0].ID)
}

func TestTagReplaceForPost(t *testing.T) {
	db := setupRepoTestDB(t)
	tags := NewTagRepository(db)
	ctx := context.Background()
	post := seedPost(t, db, models.PostStatusDraft, nil)

	mk := func(name, slug string) uint {
		tag := &models.Tag{Name: name, Slug: slug}
		require.NoError(t, tags.Create(ctx, tag))
		return tag.ID
	}
	travel := mk("Travel", "travel")
	food := mk("Food", "food")
	art := mk("Art", "art")

	require.NoError(t, tags.ReplaceForPost(ctx, post.ID, []uint{travel, food}))
	got, err := tags.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Replacing with an overlapping set keeps the intersection and swaps the rest.
	require.NoError(t, tags.ReplaceForPost(ctx, post.ID, []uint{food, art}))
	got, err = tags.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	slugs := []string{got[0].Slug, got[1].Slug}
	assert.ElementsMatch(t, []string{"art", "food"}, slugs)

	// Replaying the same set is a no-op.
	require.NoError(t, tags.ReplaceForPost(ctx, post.ID, []uint{food, art}))
	got, err = tags.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Empty set clears every association.
	require.NoError(t, tags.ReplaceForPost(ctx, post.ID, nil))
	got, err = tags.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTagFindByNameFold(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Tag{Name: "Street Art", Slug: "street-art"}))

	tag, err := repo.FindByNameFold(ctx, "sTREET aRT")
	require.NoError(t, err)
	assert.Equal(t, "street-art", tag.Slug)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
