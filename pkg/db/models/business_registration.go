package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkimanzi/dukahub-backend/pkg/enums"
)

// BusinessRegistration is an intake record from the partner signup form.
type BusinessRegistration struct {
	ID           uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessName string                   `gorm:"column:business_name;not null"`
	OwnerName    string                   `gorm:"column:owner_name;not null"`
	Phone        string                   `gorm:"column:phone;not null"`
	Email        *string                  `gorm:"column:email"`
	Location     string                   `gorm:"column:location;not null"`
	Notes        *string                  `gorm:"column:notes"`
	Status       enums.RegistrationStatus `gorm:"column:status;not null;default:'submitted'"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
