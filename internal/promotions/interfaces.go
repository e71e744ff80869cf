package promotions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

// Repository defines persistence operations for promotion codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByCode(ctx context.Context, code string) (*models.Promotion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context) ([]models.Promotion, error)
	Create(ctx context.Context, promo *models.Promotion) (*models.Promotion, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error

	// RedeemIfAvailable bumps usage_count with the limit guard applied in
	// the same statement. False means the limit was already exhausted.
	RedeemIfAvailable(ctx context.Context, code string) (bool, error)
}
