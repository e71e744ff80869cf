package promotions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

type stubPromoRepo struct {
	Repository

	byCode map[string]*models.Promotion
}

func newStubPromoRepo(promos ...*models.Promotion) *stubPromoRepo {
	repo := &stubPromoRepo{byCode: map[string]*models.Promotion{}}
	for _, promo := range promos {
		repo.byCode[promo.Code] = promo
	}
	return repo
}

func (s *stubPromoRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPromoRepo) FindByCode(ctx context.Context, code string) (*models.Promotion, error) {
	if promo, ok := s.byCode[code]; ok {
		return promo, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newPromoService(t *testing.T, now time.Time, promos ...*models.Promotion) Service {
	t.Helper()

	svc, err := NewService(newStubPromoRepo(promos...))
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return now }
	return svc
}

func percentPromo(code string, value int64) *models.Promotion {
	return &models.Promotion{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(value),
		IsActive:      true,
	}
}

func requirePromoRejected(t *testing.T, err error, message string) {
	t.Helper()

	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, pkgerrors.CodePromoRejected, typed.Code())
	assert.Equal(t, message, typed.Message())
}

func TestValidateUnknownCode(t *testing.T) {
	svc := newPromoService(t, time.Now())

	_, err := svc.Validate(context.Background(), "NOPE", decimal.NewFromInt(1000))
	requirePromoRejected(t, err, "invalid promo code")
}

func TestValidateNormalizesCode(t *testing.T) {
	svc := newPromoService(t, time.Now(), percentPromo("SAVE10", 10))

	result, err := svc.Validate(context.Background(), "  save10 ", decimal.NewFromInt(2000))
	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(decimal.NewFromInt(200)))
}

func TestValidateInactiveCode(t *testing.T) {
	promo := percentPromo("SAVE10", 10)
	promo.IsActive = false
	svc := newPromoService(t, time.Now(), promo)

	_, err := svc.Validate(context.Background(), "SAVE10", decimal.NewFromInt(1000))
	requirePromoRejected(t, err, "invalid promo code")
}

func TestValidateUsageLimitExhausted(t *testing.T) {
	limit := 5
	promo := percentPromo("SAVE10", 10)
	promo.UsageLimit = &limit
	promo.UsageCount = 5
	svc := newPromoService(t, time.Now(), promo)

	_, err := svc.Validate(context.Background(), "SAVE10", decimal.NewFromInt(1000))
	requirePromoRejected(t, err, "promo code expired")
}

func TestValidateDateWindow(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	future := now.Add(24 * time.Hour)
	notStarted := percentPromo("SOON", 10)
	notStarted.StartsAt = &future

	past := now.Add(-24 * time.Hour)
	ended := percentPromo("GONE", 10)
	ended.EndsAt = &past

	svc := newPromoService(t, now, notStarted, ended)

	_, err := svc.Validate(context.Background(), "SOON", decimal.NewFromInt(1000))
	requirePromoRejected(t, err, "promo code expired")

	_, err = svc.Validate(context.Background(), "GONE", decimal.NewFromInt(1000))
	requirePromoRejected(t, err, "promo code expired")
}

func TestValidateMinOrderAmount(t *testing.T) {
	minimum := decimal.NewFromInt(5000)
	promo := percentPromo("BIG", 10)
	promo.MinOrderAmount = &minimum
	svc := newPromoService(t, time.Now(), promo)

	_, err := svc.Validate(context.Background(), "BIG", decimal.NewFromInt(1000))
	requirePromoRejected(t, err, "minimum order amount not met")

	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "5000.00", details["min_order_amount"])

	result, err := svc.Validate(context.Background(), "BIG", decimal.NewFromInt(5000))
	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(decimal.NewFromInt(500)))
}

func TestValidatePercentageCappedByMaxDiscount(t *testing.T) {
	maxDiscount := decimal.NewFromInt(300)
	promo := percentPromo("SAVE10", 10)
	promo.MaxDiscountAmount = &maxDiscount
	svc := newPromoService(t, time.Now(), promo)

	result, err := svc.Validate(context.Background(), "SAVE10", decimal.NewFromInt(10000))
	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(maxDiscount), "discount must be clipped to max_discount_amount")
}

func TestValidateFixedDiscountVerbatim(t *testing.T) {
	promo := &models.Promotion{
		ID:            uuid.New(),
		Code:          "FLAT500",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(500),
		IsActive:      true,
	}
	svc := newPromoService(t, time.Now(), promo)

	result, err := svc.Validate(context.Background(), "FLAT500", decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(decimal.NewFromInt(500)), "fixed discount is not clamped to subtotal")
}

func TestCreatePromotionValidation(t *testing.T) {
	svc, err := NewService(newStubPromoRepo())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, PromotionInput{})
	assert.Error(t, err)

	value := decimal.NewFromInt(150)
	_, err = svc.Create(ctx, PromotionInput{
		Code:          "TOOMUCH",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: &value,
	})
	assert.Error(t, err)

	limit := 0
	ok := decimal.NewFromInt(10)
	_, err = svc.Create(ctx, PromotionInput{
		Code:          "SAVE10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: &ok,
		UsageLimit:    &limit,
	})
	assert.Error(t, err)
}

type wrappedNotFoundRepo struct {
	Repository
}

func (wrappedNotFoundRepo) WithTx(tx *gorm.DB) Repository { return wrappedNotFoundRepo{} }

func (wrappedNotFoundRepo) FindByCode(ctx context.Context, code string) (*models.Promotion, error) {
	return nil, fmt.Errorf("find promotion by code: %w", gorm.ErrRecordNotFound)
}

func TestValidateRecognizesWrappedNotFound(t *testing.T) {
	svc, err := NewService(wrappedNotFoundRepo{})
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "NOPE", decimal.NewFromInt(1000))
	requirePromoRejected(t, err, "invalid promo code")
}
