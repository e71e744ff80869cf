package team

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

// Service manages the team members shown on the public team page.
type Service interface {
	ListPublic(ctx context.Context) ([]models.TeamMember, error)
	List(ctx context.Context) ([]models.TeamMember, error)
	Get(ctx context.Context, id uuid.UUID) (*models.TeamMember, error)
	Create(ctx context.Context, input MemberInput) (*models.TeamMember, error)
	Update(ctx context.Context, id uuid.UUID, input MemberInput) (*models.TeamMember, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemberInput carries the writable team member fields. Nil pointers leave
// the stored value untouched on update.
type MemberInput struct {
	Name         string
	Role         string
	Bio          *string
	PhotoURL     *string
	DisplayOrder *int
	IsActive     *bool
}

type service struct {
	repo Repository
}

// NewService builds a team service over the repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("team repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPublic(ctx context.Context) ([]models.TeamMember, error) {
	members, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list team members")
	}
	return members, nil
}

func (s *service) List(ctx context.Context) ([]models.TeamMember, error) {
	members, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list team members")
	}
	return members, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team member id required")
	}
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "team member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load team member")
	}
	return member, nil
}

func (s *service) Create(ctx context.Context, input MemberInput) (*models.TeamMember, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team member name required")
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team member role required")
	}

	member := &models.TeamMember{
		Name:     name,
		Role:     role,
		Bio:      input.Bio,
		PhotoURL: input.PhotoURL,
		IsActive: true,
	}
	if input.DisplayOrder != nil {
		member.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, member)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create team member")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input MemberInput) (*models.TeamMember, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team member id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "team member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load team member")
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if role := strings.TrimSpace(input.Role); role != "" {
		updates["role"] = role
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.PhotoURL != nil {
		updates["photo_url"] = *input.PhotoURL
	}
	if input.DisplayOrder != nil {
		updates["display_order"] = *input.DisplayOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update team member")
		}
	}
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload team member")
	}
	return member, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "team member id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete team member")
	}
	return nil
}
