package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkimanzi/dukahub-backend/pkg/enums"
)

// Consultation is a customer request later handed off via WhatsApp.
type Consultation struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string                   `gorm:"column:name;not null"`
	Phone     string                   `gorm:"column:phone;not null"`
	Email     *string                  `gorm:"column:email"`
	Topic     string                   `gorm:"column:topic;not null"`
	Message   string                   `gorm:"column:message;not null"`
	Status    enums.ConsultationStatus `gorm:"column:status;not null;default:'new'"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
