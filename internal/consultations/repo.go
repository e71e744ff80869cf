package consultations

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

// NewRepository builds a consultations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, status *enums.ConsultationStatus) ([]models.Consultation, error) {
	query := r.db.WithContext(ctx).Model(&models.Consultation{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var consultations []models.Consultation
	if err := query.Order("created_at DESC").Find(&consultations).Error; err != nil {
		return nil, err
	}
	return consultations, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Consultation, error) {
	var consultation models.Consultation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&consultation).Error
	if err != nil {
		return nil, err
	}
	return &consultation, nil
}

func (r *repository) Create(ctx context.Context, consultation *models.Consultation) (*models.Consultation, error) {
	if err := r.db.WithContext(ctx).Create(consultation).Error; err != nil {
		return nil, err
	}
	return consultation, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ConsultationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ?", id).
		Update("status", status).Error
}
