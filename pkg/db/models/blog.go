package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkimanzi/dukahub-backend/pkg/enums"
)

// BlogCategory groups posts for public browsing.
type BlogCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:idx_blog_categories_slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BlogPost is a slug-addressed article with a publish lifecycle.
type BlogPost struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    *uuid.UUID           `gorm:"column:category_id;type:uuid"`
	Title         string               `gorm:"column:title;not null"`
	Slug          string               `gorm:"column:slug;not null;uniqueIndex:idx_blog_posts_slug"`
	Excerpt       *string              `gorm:"column:excerpt"`
	BodyHTML      string               `gorm:"column:body_html;not null"`
	CoverImageURL *string              `gorm:"column:cover_image_url"`
	Status        enums.BlogPostStatus `gorm:"column:status;not null;default:'draft'"`
	PublishedAt   *time.Time           `gorm:"column:published_at"`
	Category      *BlogCategory        `gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
