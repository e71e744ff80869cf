package team

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

// Repository defines persistence operations for team members.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	List(ctx context.Context, activeOnly bool) ([]models.TeamMember, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error)
	Create(ctx context.Context, member *models.TeamMember) (*models.TeamMember, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}
