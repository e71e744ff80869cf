package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

// Service validates promo codes for checkout and manages them for admins.
type Service interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*ValidationResult, error)
	List(ctx context.Context) ([]models.Promotion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	Create(ctx context.Context, input PromotionInput) (*models.Promotion, error)
	Update(ctx context.Context, id uuid.UUID, input PromotionInput) (*models.Promotion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a promotions service over the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// ValidationResult reports the applied promotion and the computed discount.
// Validation never mutates usage counts; redemption happens at checkout.
type ValidationResult struct {
	Promotion *models.Promotion `json:"promotion"`
	Discount  decimal.Decimal   `json:"discount"`
}

// PromotionInput carries the writable promotion fields.
type PromotionInput struct {
	Code              string
	DiscountType      enums.DiscountType
	DiscountValue     *decimal.Decimal
	MinOrderAmount    *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        *int
	IsActive          *bool
	StartsAt          *time.Time
	EndsAt            *time.Time
}

func (s *service) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*ValidationResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodePromoRejected, "invalid promo code")
	}

	promo, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodePromoRejected, "invalid promo code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	if !promo.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodePromoRejected, "invalid promo code")
	}

	if promo.UsageLimit != nil && promo.UsageCount >= *promo.UsageLimit {
		return nil, pkgerrors.New(pkgerrors.CodePromoRejected, "promo code expired")
	}

	now := s.now()
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodePromoRejected, "promo code expired")
	}
	if promo.EndsAt != nil && now.After(*promo.EndsAt) {
		return nil, pkgerrors.New(pkgerrors.CodePromoRejected, "promo code expired")
	}

	if promo.MinOrderAmount != nil && subtotal.LessThan(*promo.MinOrderAmount) {
		return nil, pkgerrors.New(pkgerrors.CodePromoRejected, "minimum order amount not met").
			WithDetails(map[string]string{"min_order_amount": promo.MinOrderAmount.StringFixed(2)})
	}

	return &ValidationResult{
		Promotion: promo,
		Discount:  computeDiscount(promo, subtotal),
	}, nil
}

// computeDiscount applies percentage discounts against the subtotal with the
// optional cap; fixed discounts pass through verbatim. A fixed discount above
// the subtotal is not clamped here, order math floors the final total at zero.
func computeDiscount(promo *models.Promotion, subtotal decimal.Decimal) decimal.Decimal {
	switch promo.DiscountType {
	case enums.DiscountTypePercentage:
		discount := subtotal.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100))
		if promo.MaxDiscountAmount != nil && discount.GreaterThan(*promo.MaxDiscountAmount) {
			discount = *promo.MaxDiscountAmount
		}
		return discount
	case enums.DiscountTypeFixed:
		return promo.DiscountValue
	default:
		return decimal.Zero
	}
}

func (s *service) List(ctx context.Context) ([]models.Promotion, error) {
	promos, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}
	return promos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	return promo, nil
}

func (s *service) Create(ctx context.Context, input PromotionInput) (*models.Promotion, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion code required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount type must be percentage or fixed")
	}
	if input.DiscountValue == nil || !input.DiscountValue.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.DiscountType == enums.DiscountTypePercentage && input.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if input.UsageLimit != nil && *input.UsageLimit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive")
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion end date precedes start date")
	}

	promo := &models.Promotion{
		Code:              code,
		DiscountType:      input.DiscountType,
		DiscountValue:     *input.DiscountValue,
		MinOrderAmount:    input.MinOrderAmount,
		MaxDiscountAmount: input.MaxDiscountAmount,
		UsageLimit:        input.UsageLimit,
		IsActive:          true,
		StartsAt:          input.StartsAt,
		EndsAt:            input.EndsAt,
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, promo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input PromotionInput) (*models.Promotion, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}

	updates := map[string]any{}
	if code := strings.ToUpper(strings.TrimSpace(input.Code)); code != "" {
		updates["code"] = code
	}
	if input.DiscountType != "" {
		if !input.DiscountType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount type must be percentage or fixed")
		}
		updates["discount_type"] = input.DiscountType
	}
	if input.DiscountValue != nil {
		if !input.DiscountValue.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
		}
		updates["discount_value"] = *input.DiscountValue
	}
	if input.MinOrderAmount != nil {
		updates["min_order_amount"] = *input.MinOrderAmount
	}
	if input.MaxDiscountAmount != nil {
		updates["max_discount_amount"] = *input.MaxDiscountAmount
	}
	if input.UsageLimit != nil {
		if *input.UsageLimit <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive")
		}
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.StartsAt != nil {
		updates["starts_at"] = *input.StartsAt
	}
	if input.EndsAt != nil {
		updates["ends_at"] = *input.EndsAt
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotion")
		}
	}
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload promotion")
	}
	return promo, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promotion")
	}
	return nil
}
