package models

import (
	"time"

	"github.com/google/uuid"
)

// SiteContent is a keyed block of editable storefront copy.
type SiteContent struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key       string     `gorm:"column:key;not null;uniqueIndex:idx_site_content_key"`
	Title     *string    `gorm:"column:title"`
	BodyHTML  string     `gorm:"column:body_html;not null"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
