package consultations

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

type handoffLinker interface {
	ConsultationLink(name, topic string) string
}

// Service handles the public consultation form and the back-office queue.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Submission, error)
	List(ctx context.Context, status *enums.ConsultationStatus) ([]models.Consultation, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Consultation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ConsultationStatus) (*models.Consultation, error)
	HandoffLink(consultation *models.Consultation) string
}

// SubmitInput carries the public consultation form fields.
type SubmitInput struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Topic   string  `json:"topic"`
	Message string  `json:"message"`
}

// Submission pairs the stored consultation with the WhatsApp link shown
// to the customer after submitting.
type Submission struct {
	Consultation *models.Consultation `json:"consultation"`
	WhatsAppLink string               `json:"whatsapp_link"`
}

type service struct {
	repo    Repository
	handoff handoffLinker
}

// NewService builds a consultations service over the repository and the
// WhatsApp link builder.
func NewService(repo Repository, handoff handoffLinker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("consultations repository required")
	}
	if handoff == nil {
		return nil, fmt.Errorf("whatsapp link builder required")
	}
	return &service{repo: repo, handoff: handoff}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*Submission, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	phone := normalizePhone(input.Phone)
	if len(phone) < 10 || len(phone) > 15 || !digitsOnly(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid phone number is required")
	}
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "topic is required")
	}
	message := strings.TrimSpace(input.Message)
	if len(message) < 10 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message must be at least 10 characters")
	}
	if input.Email != nil && *input.Email != "" && !strings.Contains(*input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}

	consultation, err := s.repo.Create(ctx, &models.Consultation{
		Name:    name,
		Phone:   phone,
		Email:   input.Email,
		Topic:   topic,
		Message: message,
		Status:  enums.ConsultationStatusNew,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create consultation")
	}

	return &Submission{
		Consultation: consultation,
		WhatsAppLink: s.handoff.ConsultationLink(name, topic),
	}, nil
}

func (s *service) List(ctx context.Context, status *enums.ConsultationStatus) ([]models.Consultation, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid consultation status")
	}
	consultations, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consultations")
	}
	return consultations, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Consultation, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consultation id required")
	}
	consultation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "consultation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load consultation")
	}
	return consultation, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ConsultationStatus) (*models.Consultation, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consultation id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid consultation status")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "consultation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load consultation")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update consultation status")
	}
	consultation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload consultation")
	}
	return consultation, nil
}

func (s *service) HandoffLink(consultation *models.Consultation) string {
	if consultation == nil {
		return ""
	}
	return s.handoff.ConsultationLink(consultation.Name, consultation.Topic)
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
