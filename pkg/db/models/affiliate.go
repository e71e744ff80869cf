package models

import (
	"time"

	"github.com/google/uuid"
)

// Affiliate is a referral agent with a generated AGT code.
type Affiliate struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	Name      string     `gorm:"column:name;not null"`
	Phone     string     `gorm:"column:phone;not null"`
	Email     *string    `gorm:"column:email"`
	AgentCode string     `gorm:"column:agent_code;not null;uniqueIndex:idx_affiliates_agent_code"`
	IsActive  bool       `gorm:"column:is_active;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// AgentCodeCounter is the single-row sequence backing agent code generation.
type AgentCodeCounter struct {
	ID        int   `gorm:"column:id;primaryKey"`
	LastValue int64 `gorm:"column:last_value;not null;default:0"`
}

// TableName keeps the singular counter table name explicit.
func (AgentCodeCounter) TableName() string {
	return "agent_code_counter"
}
