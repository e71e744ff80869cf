package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductAffiliateLink maps a short slug to a product for attribution.
// ClickCount moves only through the atomic increment update so concurrent
// clicks never lose counts.
type ProductAffiliateLink struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Slug       string    `gorm:"column:slug;not null;uniqueIndex:idx_product_affiliate_links_slug"`
	AgentCode  string    `gorm:"column:agent_code;not null"`
	AssignedTo string    `gorm:"column:assigned_to;not null"`
	IsActive   bool      `gorm:"column:is_active;not null"`
	ClickCount int64     `gorm:"column:click_count;not null;default:0"`
	Product    *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
