package blog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
)

// PostFilters narrows blog post listings.
type PostFilters struct {
	CategoryID    *uuid.UUID
	Status        *enums.BlogPostStatus
	PublishedOnly bool
}

// Repository defines persistence operations for posts and blog categories.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListPosts(ctx context.Context, filters PostFilters) ([]models.BlogPost, error)
	FindPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	CreatePost(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeletePost(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.BlogCategory, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.BlogCategory, error)
	CreateCategory(ctx context.Context, category *models.BlogCategory) (*models.BlogCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
