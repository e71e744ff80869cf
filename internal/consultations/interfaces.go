package consultations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
)

// Repository defines persistence operations for consultation requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	List(ctx context.Context, status *enums.ConsultationStatus) ([]models.Consultation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Consultation, error)
	Create(ctx context.Context, consultation *models.Consultation) (*models.Consultation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ConsultationStatus) error
}
