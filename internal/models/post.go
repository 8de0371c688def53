// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus defines the publication lifecycle state of a post.
type PostStatus string

const (
	// PostStatusDraft indicates a post is private to its author.
	PostStatusDraft PostStatus = "draft"
	// PostStatusScheduled indicates a post will be published automatically at ScheduledFor.
	PostStatusScheduled PostStatus = "scheduled"
	// PostStatusPublished indicates a post is publicly visible.
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is one of the known lifecycle states.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

// PostType is the visual card layout assigned to a post for feed rendering.
type PostType string

const (
	// PostTypeSplitHorizontal renders the image beside the text.
	PostTypeSplitHorizontal PostType = "split-horizontal"
	// PostTypeSplitVertical renders the image above the text.
	PostTypeSplitVertical PostType = "split-vertical"
	// PostTypeHover renders the text as an overlay on the image.
	PostTypeHover PostType = "hover"
)

// UntitledDraftTitle is the placeholder title given to drafts saved without one.
const UntitledDraftTitle = "Untitled Draft"

// Post represents a content item with a publication lifecycle and media gallery.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:300" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:120" json:"category"`
	Status      PostStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Type        PostType   `gorm:"type:varchar(20);not null;default:'split-horizontal'" json:"type"`
	// ImageURL is a single fallback image used when the gallery is empty.
	ImageURL     string     `json:"image_url,omitempty"`
	ScheduledFor *time.Time `gorm:"index" json:"scheduled_for,omitempty"`
	// PublishedAt is stamped the first time a post becomes published and never cleared.
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Images      []PostImage    `gorm:"foreignKey:PostID" json:"images,omitempty"`
	Tags        []Tag          `gorm:"many2many:post_tags" json:"tags,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// HasImage reports whether the post satisfies the image requirement for
// non-draft statuses: at least one gallery image or a fallback URL.
func (p *Post) HasImage() bool {
	return len(p.Images) > 0 || p.ImageURL != ""
}

// CoverImage returns the gallery image at sort order zero, or nil if the
// gallery is empty.
func (p *Post) CoverImage() *PostImage {
	for i := range p.Images {
		if p.Images[i].SortOrder == 0 {
			return &p.Images[i]
		}
	}
	return nil
}
