package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/internal/cart"
	"github.com/jkimanzi/dukahub-backend/internal/promotions"
	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

// Repository defines the order writes performed at submission time.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type promoValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*promotions.ValidationResult, error)
}

type promoRedeemer interface {
	RedeemIfAvailable(ctx context.Context, code string) (bool, error)
}

type stockDecrementer interface {
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
}

type attributionSource interface {
	AgentCodeForSession(ctx context.Context, sessionID string) (*string, error)
	LinkOrder(ctx context.Context, sessionID string, orderID uuid.UUID) error
}

type checkoutMetrics interface {
	IncOrderPlaced()
	IncOrderFailed()
	IncPromoRedemption()
	IncOversell()
	ObserveDuration(outcome string, duration time.Duration)
}
