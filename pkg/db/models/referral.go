package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral records an attribution touch: a resolved affiliate slug, and
// later the order it converted into (if any).
type Referral struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AgentCode   string     `gorm:"column:agent_code;not null"`
	Slug        string     `gorm:"column:slug;not null"`
	ProductID   *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductName string     `gorm:"column:product_name;not null"`
	SessionID   string     `gorm:"column:session_id;not null"`
	OrderID     *uuid.UUID `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
