package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	promosvc "github.com/jkimanzi/dukahub-backend/internal/promotions"
	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

type stubPromotionsService struct {
	result *promosvc.ValidationResult
	err    error

	gotCode     string
	gotSubtotal decimal.Decimal
}

func (s *stubPromotionsService) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*promosvc.ValidationResult, error) {
	s.gotCode = code
	s.gotSubtotal = subtotal
	return s.result, s.err
}

func (s *stubPromotionsService) List(ctx context.Context) ([]models.Promotion, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubPromotionsService) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubPromotionsService) Create(ctx context.Context, input promosvc.PromotionInput) (*models.Promotion, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubPromotionsService) Update(ctx context.Context, id uuid.UUID, input promosvc.PromotionInput) (*models.Promotion, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubPromotionsService) Delete(ctx context.Context, id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func TestValidatePromotionSuccess(t *testing.T) {
	t.Parallel()

	discountValue := decimal.NewFromInt(10)
	promo := &models.Promotion{
		ID:            uuid.New(),
		Code:          "KARIBU10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: discountValue,
	}
	svc := &stubPromotionsService{result: &promosvc.ValidationResult{
		Promotion: promo,
		Discount:  decimal.NewFromInt(250),
	}}
	handler := ValidatePromotion(svc, nil)

	body := `{"code":"KARIBU10","subtotal":"2500.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/validate", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotCode != "KARIBU10" {
		t.Fatalf("unexpected code: %s", svc.gotCode)
	}
	if !svc.gotSubtotal.Equal(decimal.RequireFromString("2500.00")) {
		t.Fatalf("unexpected subtotal: %s", svc.gotSubtotal)
	}

	var envelope struct {
		Data promosvc.ValidationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Discount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("unexpected discount: %s", envelope.Data.Discount)
	}
}

func TestValidatePromotionRejectsBadSubtotal(t *testing.T) {
	t.Parallel()

	handler := ValidatePromotion(&stubPromotionsService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/validate", strings.NewReader(`{"code":"X","subtotal":"abc"}`))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestValidatePromotionRejectedCode(t *testing.T) {
	t.Parallel()

	svc := &stubPromotionsService{err: pkgerrors.New(pkgerrors.CodePromoRejected, "usage limit reached")}
	handler := ValidatePromotion(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/validate", strings.NewReader(`{"code":"DEAD","subtotal":"100"}`))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodePromoRejected) {
		t.Fatalf("unexpected error code: %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "usage limit reached" {
		t.Fatalf("unexpected message: %s", envelope.Error.Message)
	}
}
