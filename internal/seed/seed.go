// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options control how much demo content is generated.
type Options struct {
	Posts   int
	MaxDays int
	// AuthorID is stamped on every generated post; identity lives elsewhere.
	AuthorID uint
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.Posts <= 0 {
		opts.Posts = 24
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.AuthorID == 0 {
		opts.AuthorID = 1
	}
	return &Factory{db: db, opts: opts, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// BuildPost constructs a post without persisting it. Roughly two thirds are
// published, the rest split between drafts and scheduled posts.
func (f *Factory) BuildPost(index, total int) *models.Post {
	post := &models.Post{
		Title:       gofakeit.Sentence(5),
		Description: gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Category:    gofakeit.RandomString([]string{"travel", "food", "street", "nature", "architecture"}),
		Type:        service.LayoutFor(index, total),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", gofakeit.UUID()),
		UserID:      f.opts.AuthorID,
	}

	daysBack := f.rnd.Intn(f.opts.MaxDays)
	hoursBack := f.rnd.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	switch f.rnd.Intn(6) {
	case 0:
		post.Status = models.PostStatusDraft
		post.Title = models.UntitledDraftTitle
	case 1:
		post.Status = models.PostStatusScheduled
		at := time.Now().Add(time.Duration(1+f.rnd.Intn(72)) * time.Hour)
		post.ScheduledFor = &at
	default:
		post.Status = models.PostStatusPublished
		at := post.CreatedAt.Add(time.Duration(f.rnd.Intn(48)) * time.Hour)
		post.PublishedAt = &at
	}
	return post
}

// CreatePost persists a post with a small gallery and a couple of tags.
func (f *Factory) CreatePost(index, total int, tags []models.Tag) error {
	post := f.BuildPost(index, total)
	if err := f.db.Create(post).Error; err != nil {
		return err
	}

	images := 1 + f.rnd.Intn(4)
	for i := 0; i < images; i++ {
		img := &models.PostImage{
			PostID:     post.ID,
			ImageURL:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", gofakeit.UUID()),
			SortOrder:  i,
			FocalPoint: models.DefaultFocalPoint,
			AltText:    gofakeit.Sentence(4),
		}
		if err := f.db.Create(img).Error; err != nil {
			return err
		}
	}

	if len(tags) > 0 {
		picked := tags[f.rnd.Intn(len(tags))]
		if err := f.db.Model(post).Association("Tags").Append(&picked); err != nil {
			return err
		}
	}
	return nil
}

// Demo populates the database with a browsable set of posts, galleries and
// tags. It is a no-op when posts already exist.
func Demo(db *gorm.DB, opts Options) error {
	var count int64
	if err := db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	f := NewFactory(db, opts)

	names := []string{"Travel", "Food", "Street Art", "Night", "Coastline"}
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag := models.Tag{Name: name, Slug: service.Slugify(name)}
		if err := db.Where(models.Tag{Slug: tag.Slug}).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		tags = append(tags, tag)
	}

	for i := 0; i < f.opts.Posts; i++ {
		if err := f.CreatePost(i, f.opts.Posts, tags); err != nil {
			return err
		}
	}
	return nil
}
