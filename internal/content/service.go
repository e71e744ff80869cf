package content

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

// Service manages keyed blocks of editable storefront copy.
type Service interface {
	List(ctx context.Context) ([]models.SiteContent, error)
	Get(ctx context.Context, key string) (*models.SiteContent, error)
	Upsert(ctx context.Context, input BlockInput) (*models.SiteContent, error)
	Delete(ctx context.Context, key string) error
}

// BlockInput carries the writable site content fields.
type BlockInput struct {
	Key       string
	Title     *string
	BodyHTML  string
	UpdatedBy *uuid.UUID
}

type service struct {
	repo Repository
}

// NewService builds a site content service over the repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.SiteContent, error) {
	blocks, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list site content")
	}
	return blocks, nil
}

func (s *service) Get(ctx context.Context, key string) (*models.SiteContent, error) {
	if strings.TrimSpace(key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content key required")
	}
	block, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "content block not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content block")
	}
	return block, nil
}

func (s *service) Upsert(ctx context.Context, input BlockInput) (*models.SiteContent, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content key required")
	}
	if strings.TrimSpace(input.BodyHTML) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content body required")
	}

	block, err := s.repo.Upsert(ctx, &models.SiteContent{
		Key:       key,
		Title:     input.Title,
		BodyHTML:  input.BodyHTML,
		UpdatedBy: input.UpdatedBy,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert content block")
	}
	return block, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "content key required")
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete content block")
	}
	return nil
}
