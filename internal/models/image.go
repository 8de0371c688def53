package models

import "time"

// DefaultFocalPoint centers cropped renditions of an image.
const DefaultFocalPoint = "50% 50%"

// PostImage is one entry in a post's ordered media gallery.
//
// For a given post the SortOrder values always form a dense permutation of
// 0..N-1; the image at sort order zero is the gallery cover.
type PostImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index;uniqueIndex:idx_post_images_order" json:"post_id"`
	ImageURL string `gorm:"not null" json:"image_url"`
	SortOrder int   `gorm:"not null;uniqueIndex:idx_post_images_order" json:"sort_order"`
	// FocalPoint is two percentages "X% Y%" marking the visually important
	// region for cropped display.
	FocalPoint string    `gorm:"size:20;not null;default:'50% 50%'" json:"focal_point"`
	AltText    string    `gorm:"size:500" json:"alt_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (PostImage) TableName() string {
	return "post_images"
}
