package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
	"github.com/jkimanzi/dukahub-backend/pkg/logger"
	"github.com/jkimanzi/dukahub-backend/pkg/metrics"
)

// SubmitInput carries the customer details entered at checkout.
type SubmitInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	ShippingAddress string
	Notes           *string
	PromoCode       string
}

// Service turns a session cart into a persisted order.
type Service interface {
	Submit(ctx context.Context, sessionID string, input SubmitInput) (*models.Order, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	carts       cartStore
	promos      promoValidator
	redeemer    promoRedeemer
	stock       stockDecrementer
	attribution attributionSource
	metrics     checkoutMetrics
	logg        *logger.Logger
}

// NewService builds the order submitter with its collaborators.
func NewService(
	repo Repository,
	tx txRunner,
	carts cartStore,
	promos promoValidator,
	redeemer promoRedeemer,
	stock stockDecrementer,
	attribution attributionSource,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promotion validator required")
	}
	if redeemer == nil {
		return nil, fmt.Errorf("promotion redeemer required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock decrementer required")
	}
	if attribution == nil {
		return nil, fmt.Errorf("attribution source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		carts:       carts,
		promos:      promos,
		redeemer:    redeemer,
		stock:       stock,
		attribution: attribution,
		metrics:     checkoutMetrics,
		logg:        logg,
	}, nil
}

// Submit validates the input, writes the order header and its line items in
// one transaction, then settles the side effects. Promo redemption and stock
// decrements run after the commit and are logged rather than rolled back:
// the order always stands once it is written.
func (s *service) Submit(ctx context.Context, sessionID string, input SubmitInput) (*models.Order, error) {
	start := time.Now()
	order, err := s.submit(ctx, sessionID, input)
	outcome := "placed"
	if err != nil {
		outcome = "failed"
	}
	s.metrics.ObserveDuration(outcome, time.Since(start))
	return order, err
}

func (s *service) submit(ctx context.Context, sessionID string, input SubmitInput) (*models.Order, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	sessionCart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sessionCart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := sessionCart.TotalPrice()
	discount := decimal.Zero
	var promoCode *string
	if strings.TrimSpace(input.PromoCode) != "" {
		result, err := s.promos.Validate(ctx, input.PromoCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = result.Discount
		code := result.Promotion.Code
		promoCode = &code
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	agentCode, err := s.attribution.AgentCodeForSession(ctx, sessionID)
	if err != nil {
		s.logg.Warn(ctx, "checkout: attribution lookup failed, continuing without agent code")
		agentCode = nil
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   normalizePhone(input.CustomerPhone),
		CustomerEmail:   input.CustomerEmail,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		Notes:           input.Notes,
		PromoCode:       promoCode,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		TotalAmount:     total,
		Status:          enums.OrderStatusPending,
		AgentCode:       agentCode,
	}

	items := make([]models.OrderItem, 0, len(sessionCart.Items))
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for _, line := range sessionCart.Items {
			productID := line.ProductID
			items = append(items, models.OrderItem{
				OrderID:      order.ID,
				ProductID:    &productID,
				ProductName:  line.Name,
				ProductPrice: line.Price,
				Quantity:     line.Quantity,
				Subtotal:     line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncOrderFailed()
		return nil, err
	}
	order.Items = items
	s.metrics.IncOrderPlaced()

	if promoCode != nil {
		redeemed, err := s.redeemer.RedeemIfAvailable(ctx, *promoCode)
		switch {
		case err != nil:
			s.logg.Error(ctx, "checkout: promo redemption failed", err)
		case !redeemed:
			s.logg.Warn(ctx, "checkout: promo usage limit reached between validation and redemption")
		default:
			s.metrics.IncPromoRedemption()
		}
	}

	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		ok, err := s.stock.DecrementStock(ctx, *item.ProductID, item.Quantity)
		if err != nil {
			s.logg.Error(ctx, "checkout: stock decrement failed", err)
			continue
		}
		if !ok {
			s.logg.Warn(ctx, "checkout: insufficient stock for ordered quantity, order kept")
			s.metrics.IncOversell()
		}
	}

	if err := s.attribution.LinkOrder(ctx, sessionID, order.ID); err != nil {
		s.logg.Warn(ctx, "checkout: linking referral to order failed")
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Warn(ctx, "checkout: clearing session cart failed")
	}

	return order, nil
}

func validateInput(input SubmitInput) error {
	if len(strings.TrimSpace(input.CustomerName)) < 2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name must be at least 2 characters")
	}

	phone := normalizePhone(input.CustomerPhone)
	if len(phone) < 10 || len(phone) > 15 {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone must be 10 to 15 digits")
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return pkgerrors.New(pkgerrors.CodeValidation, "phone must contain digits only")
		}
	}

	if len(strings.TrimSpace(input.ShippingAddress)) < 10 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address must be at least 10 characters")
	}

	if input.CustomerEmail != nil {
		email := strings.TrimSpace(*input.CustomerEmail)
		if email != "" && (!strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@")) {
			return pkgerrors.New(pkgerrors.CodeValidation, "email address is invalid")
		}
	}
	return nil
}

// normalizePhone strips formatting characters so length checks see digits
// only. A leading international prefix is kept as digits.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		switch r {
		case ' ', '-', '(', ')':
			continue
		case '+':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
