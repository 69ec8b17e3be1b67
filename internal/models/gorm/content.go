package gorm

import (
	"time"

	"npu-collective/sabha/internal/constants"
)

// ContentSection is a slot-keyed page fragment. At most one row per
// (page_name, section_key); edits overwrite in place.
type ContentSection struct {
	ID           string                  `gorm:"column:id;primaryKey;type:uuid"`
	PageName     string                  `gorm:"column:page_name;not null;uniqueIndex:idx_page_section"`
	SectionKey   string                  `gorm:"column:section_key;not null;uniqueIndex:idx_page_section"`
	Title        *string                 `gorm:"column:title"`
	Content      *string                 `gorm:"column:content"`
	MediaURLs    JSONMap                 `gorm:"column:media_urls;type:jsonb"`
	Status       constants.ContentStatus `gorm:"column:status;type:varchar(20);default:draft;index"`
	ScheduledFor *time.Time              `gorm:"column:scheduled_for"`
	CreatedBy    *string                 `gorm:"column:created_by;type:uuid"`
	UpdatedBy    *string                 `gorm:"column:updated_by;type:uuid"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ContentSection) TableName() string {
	return "content_sections"
}

// ContentPost is a free-standing article tied to a page.
type ContentPost struct {
	ID           string                  `gorm:"column:id;primaryKey;type:uuid"`
	Page         string                  `gorm:"column:page;not null;index"`
	Title        string                  `gorm:"column:title;not null"`
	Slug         *string                 `gorm:"column:slug"`
	Content      string                  `gorm:"column:content;not null"`
	Category     *string                 `gorm:"column:category"`
	ImageURL     *string                 `gorm:"column:image_url"`
	Status       constants.ContentStatus `gorm:"column:status;type:varchar(20);default:draft;index"`
	ScheduledFor *time.Time              `gorm:"column:scheduled_for"`
	PublishedAt  *time.Time              `gorm:"column:published_at"`
	AuthorID     string                  `gorm:"column:author_id;type:uuid;not null"`
	UpdatedBy    *string                 `gorm:"column:updated_by;type:uuid"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ContentPost) TableName() string {
	return "content_posts"
}
