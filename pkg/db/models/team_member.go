package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is displayed on the public team page in DisplayOrder.
type TeamMember struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Role         string    `gorm:"column:role;not null"`
	Bio          *string   `gorm:"column:bio"`
	PhotoURL     *string   `gorm:"column:photo_url"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
