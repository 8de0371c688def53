package models

import "time"

// Tag is a reusable labeled category, deduplicated by normalized slug.
// Tags are created lazily on first use and never deleted automatically.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Slug      string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Tag) TableName() string {
	return "tags"
}

// TagSpec is a caller-supplied tag reference; Slug is optional and derived
// from Name when absent.
type TagSpec struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}
