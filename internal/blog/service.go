package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

// Service exposes public blog reads and admin management of posts and
// categories.
type Service interface {
	ListPublished(ctx context.Context, categoryID *uuid.UUID) ([]models.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)

	ListPosts(ctx context.Context, filters PostFilters) ([]models.BlogPost, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	CreatePost(ctx context.Context, input PostInput) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, input PostInput) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.BlogCategory, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.BlogCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.BlogCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// PostInput carries the writable blog post fields. Nil pointers leave the
// stored value untouched on update.
type PostInput struct {
	CategoryID    *uuid.UUID
	Title         string
	Slug          string
	Excerpt       *string
	BodyHTML      string
	CoverImageURL *string
	Status        *enums.BlogPostStatus
}

// CategoryInput carries the writable blog category fields.
type CategoryInput struct {
	Name string
	Slug string
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a blog service over the repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) ListPublished(ctx context.Context, categoryID *uuid.UUID) ([]models.BlogPost, error) {
	posts, err := s.repo.ListPosts(ctx, PostFilters{CategoryID: categoryID, PublishedOnly: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list published posts")
	}
	return posts, nil
}

// GetPublishedBySlug hides drafts from the public surface: an unpublished
// slug reads the same as a missing one.
func (s *service) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	post, err := s.repo.FindPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post.Status != enums.BlogPostStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return post, nil
}

func (s *service) ListPosts(ctx context.Context, filters PostFilters) ([]models.BlogPost, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid post status")
	}
	posts, err := s.repo.ListPosts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	return posts, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	post, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return post, nil
}

func (s *service) CreatePost(ctx context.Context, input PostInput) (*models.BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post title required")
	}
	if strings.TrimSpace(input.BodyHTML) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post body required")
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "blog category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check blog category")
		}
	}

	status := enums.BlogPostStatusDraft
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid post status")
		}
		status = *input.Status
	}

	post := &models.BlogPost{
		CategoryID:    input.CategoryID,
		Title:         title,
		Slug:          normalizeSlug(firstNonEmpty(input.Slug, title)),
		Excerpt:       input.Excerpt,
		BodyHTML:      input.BodyHTML,
		CoverImageURL: input.CoverImageURL,
		Status:        status,
	}
	if status == enums.BlogPostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
	}
	return created, nil
}

func (s *service) UpdatePost(ctx context.Context, id uuid.UUID, input PostInput) (*models.BlogPost, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	existing, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}

	updates := map[string]any{}
	if title := strings.TrimSpace(input.Title); title != "" {
		updates["title"] = title
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		updates["slug"] = normalizeSlug(slug)
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "blog category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check blog category")
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.Excerpt != nil {
		updates["excerpt"] = *input.Excerpt
	}
	if strings.TrimSpace(input.BodyHTML) != "" {
		updates["body_html"] = input.BodyHTML
	}
	if input.CoverImageURL != nil {
		updates["cover_image_url"] = *input.CoverImageURL
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid post status")
		}
		updates["status"] = *input.Status
		// The first publish stamps published_at; unpublishing keeps the
		// original timestamp so republishing does not reorder the feed.
		if *input.Status == enums.BlogPostStatusPublished && existing.PublishedAt == nil {
			updates["published_at"] = s.now()
		}
	}

	if len(updates) > 0 {
		if err := s.repo.UpdatePost(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
		}
	}
	post, err := s.repo.FindPostByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload post")
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.BlogCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list blog categories")
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.BlogCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	category := &models.BlogCategory{
		Name: name,
		Slug: normalizeSlug(firstNonEmpty(input.Slug, name)),
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create blog category")
	}
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.BlogCategory, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load blog category")
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		updates["slug"] = normalizeSlug(slug)
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update blog category")
		}
	}
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload blog category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete blog category")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func normalizeSlug(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	slug = strings.Join(strings.Fields(slug), "-")
	return strings.Trim(slug, "-")
}
