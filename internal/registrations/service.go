package registrations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

// Service handles the partner signup form and its back-office review queue.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.BusinessRegistration, error)
	List(ctx context.Context, status *enums.RegistrationStatus) ([]models.BusinessRegistration, error)
	Get(ctx context.Context, id uuid.UUID) (*models.BusinessRegistration, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RegistrationStatus) (*models.BusinessRegistration, error)
}

// SubmitInput carries the public partner signup form fields.
type SubmitInput struct {
	BusinessName string  `json:"business_name"`
	OwnerName    string  `json:"owner_name"`
	Phone        string  `json:"phone"`
	Email        *string `json:"email"`
	Location     string  `json:"location"`
	Notes        *string `json:"notes"`
}

type service struct {
	repo Repository
}

// NewService builds a registrations service over the repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("registrations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.BusinessRegistration, error) {
	businessName := strings.TrimSpace(input.BusinessName)
	if len(businessName) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}
	ownerName := strings.TrimSpace(input.OwnerName)
	if len(ownerName) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner name is required")
	}
	phone := normalizePhone(input.Phone)
	if len(phone) < 10 || len(phone) > 15 || !digitsOnly(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid phone number is required")
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if input.Email != nil && *input.Email != "" && !strings.Contains(*input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}

	registration, err := s.repo.Create(ctx, &models.BusinessRegistration{
		BusinessName: businessName,
		OwnerName:    ownerName,
		Phone:        phone,
		Email:        input.Email,
		Location:     location,
		Notes:        input.Notes,
		Status:       enums.RegistrationStatusSubmitted,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create business registration")
	}
	return registration, nil
}

func (s *service) List(ctx context.Context, status *enums.RegistrationStatus) ([]models.BusinessRegistration, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid registration status")
	}
	registrations, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list business registrations")
	}
	return registrations, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.BusinessRegistration, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registration id required")
	}
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business registration not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business registration")
	}
	return registration, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RegistrationStatus) (*models.BusinessRegistration, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registration id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid registration status")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business registration not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business registration")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update registration status")
	}
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload business registration")
	}
	return registration, nil
}

func normalizePhone(raw string) string {
	phone := strings.TrimSpace(raw)
	for _, ch := range []string{" ", "-", "(", ")"} {
		phone = strings.ReplaceAll(phone, ch, "")
	}
	return strings.TrimPrefix(phone, "+")
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
