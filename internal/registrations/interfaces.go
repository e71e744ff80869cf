package registrations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
)

// Repository defines persistence operations for business registrations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	List(ctx context.Context, status *enums.RegistrationStatus) ([]models.BusinessRegistration, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BusinessRegistration, error)
	Create(ctx context.Context, registration *models.BusinessRegistration) (*models.BusinessRegistration, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RegistrationStatus) error
}
