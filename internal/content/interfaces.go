package content

import (
	"context"

	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

// Repository defines persistence operations for site content blocks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	List(ctx context.Context) ([]models.SiteContent, error)
	FindByKey(ctx context.Context, key string) (*models.SiteContent, error)
	Upsert(ctx context.Context, block *models.SiteContent) (*models.SiteContent, error)
	Delete(ctx context.Context, key string) error
}
