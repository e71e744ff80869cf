package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jkimanzi/dukahub-backend/pkg/enums"
)

// Promotion is a redeemable discount code. Codes are stored upper-cased and
// matched exactly; UsageCount only moves through the conditional redeem
// update, never a read-then-write.
type Promotion struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code              string             `gorm:"column:code;not null;uniqueIndex:idx_promotions_code"`
	DiscountType      enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue     decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinOrderAmount    *decimal.Decimal   `gorm:"column:min_order_amount;type:numeric(12,2)"`
	MaxDiscountAmount *decimal.Decimal   `gorm:"column:max_discount_amount;type:numeric(12,2)"`
	UsageLimit        *int               `gorm:"column:usage_limit"`
	UsageCount        int                `gorm:"column:usage_count;not null;default:0"`
	IsActive          bool               `gorm:"column:is_active;not null"`
	StartsAt          *time.Time         `gorm:"column:starts_at"`
	EndsAt            *time.Time         `gorm:"column:ends_at"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
