package registrations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a registrations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, status *enums.RegistrationStatus) ([]models.BusinessRegistration, error) {
	query := r.db.WithContext(ctx).Model(&models.BusinessRegistration{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var registrations []models.BusinessRegistration
	if err := query.Order("created_at DESC").Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BusinessRegistration, error) {
	var registration models.BusinessRegistration
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *repository) Create(ctx context.Context, registration *models.BusinessRegistration) (*models.BusinessRegistration, error) {
	if err := r.db.WithContext(ctx).Create(registration).Error; err != nil {
		return nil, err
	}
	return registration, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RegistrationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.BusinessRegistration{}).
		Where("id = ?", id).
		Update("status", status).Error
}
