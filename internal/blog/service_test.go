package blog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

type stubBlogRepo struct {
	Repository

	postsByID    map[uuid.UUID]*models.BlogPost
	postsBySlug  map[string]*models.BlogPost
	categories   map[uuid.UUID]*models.BlogCategory
	createdPosts []*models.BlogPost
	postUpdates  map[string]any
}

func newStubBlogRepo() *stubBlogRepo {
	return &stubBlogRepo{
		postsByID:   map[uuid.UUID]*models.BlogPost{},
		postsBySlug: map[string]*models.BlogPost{},
		categories:  map[uuid.UUID]*models.BlogCategory{},
	}
}

func (s *stubBlogRepo) FindPostByID(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, ok := s.postsByID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (s *stubBlogRepo) FindPostBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	post, ok := s.postsBySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (s *stubBlogRepo) CreatePost(_ context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	s.createdPosts = append(s.createdPosts, post)
	s.postsByID[post.ID] = post
	s.postsBySlug[post.Slug] = post
	return post, nil
}

func (s *stubBlogRepo) UpdatePost(_ context.Context, id uuid.UUID, updates map[string]any) error {
	s.postUpdates = updates
	return nil
}

func (s *stubBlogRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*models.BlogCategory, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func newBlogService(t *testing.T, repo Repository) Service {
	t.Helper()

	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func requireBlogCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, code, appErr.Code())
}

func TestGetPublishedBySlugHidesDrafts(t *testing.T) {
	repo := newStubBlogRepo()
	svc := newBlogService(t, repo)

	repo.postsBySlug["moringa-benefits"] = &models.BlogPost{
		ID:     uuid.New(),
		Title:  "Moringa Benefits",
		Slug:   "moringa-benefits",
		Status: enums.BlogPostStatusDraft,
	}

	_, err := svc.GetPublishedBySlug(context.Background(), "moringa-benefits")
	requireBlogCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetPublishedBySlugReturnsPublished(t *testing.T) {
	repo := newStubBlogRepo()
	svc := newBlogService(t, repo)

	now := time.Now()
	repo.postsBySlug["moringa-benefits"] = &models.BlogPost{
		ID:          uuid.New(),
		Title:       "Moringa Benefits",
		Slug:        "moringa-benefits",
		Status:      enums.BlogPostStatusPublished,
		PublishedAt: &now,
	}

	post, err := svc.GetPublishedBySlug(context.Background(), "moringa-benefits")
	require.NoError(t, err)
	assert.Equal(t, "Moringa Benefits", post.Title)
}

func TestCreatePostValidation(t *testing.T) {
	repo := newStubBlogRepo()
	svc := newBlogService(t, repo)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, PostInput{BodyHTML: "<p>hello</p>"})
	requireBlogCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreatePost(ctx, PostInput{Title: "Untitled"})
	requireBlogCode(t, err, pkgerrors.CodeValidation)

	missing := uuid.New()
	_, err = svc.CreatePost(ctx, PostInput{
		Title:      "Moringa Benefits",
		BodyHTML:   "<p>hello</p>",
		CategoryID: &missing,
	})
	requireBlogCode(t, err, pkgerrors.CodeValidation)
}

func TestCreatePostDefaultsToDraft(t *testing.T) {
	repo := newStubBlogRepo()
	svc := newBlogService(t, repo)

	post, err := svc.CreatePost(context.Background(), PostInput{
		Title:    "Why Moringa Matters",
		BodyHTML: "<p>hello</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.BlogPostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, "why-moringa-matters", post.Slug)
}

func TestCreatePostPublishedStampsTimestamp(t *testing.T) {
	repo := newStubBlogRepo()
	svc := newBlogService(t, repo)

	status := enums.BlogPostStatusPublished
	post, err := svc.CreatePost(context.Background(), PostInput{
		Title:    "Launch Notes",
		BodyHTML: "<p>hello</p>",
		Status:   &status,
	})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
}

func TestUpdatePostFirstPublishSetsPublishedAt(t *testing.T) {
	repo := newStubBlogRepo()
	svc := newBlogService(t, repo)

	id := uuid.New()
	repo.postsByID[id] = &models.BlogPost{
		ID:     id,
		Title:  "Draft Post",
		Slug:   "draft-post",
		Status: enums.BlogPostStatusDraft,
	}

	status := enums.BlogPostStatusPublished
	_, err := svc.UpdatePost(context.Background(), id, PostInput{Status: &status})
	require.NoError(t, err)
	require.Contains(t, repo.postUpdates, "published_at")
}

func TestUpdatePostRepublishKeepsTimestamp(t *testing.T) {
	repo := newStubBlogRepo()
	svc := newBlogService(t, repo)

	published := time.Now().Add(-24 * time.Hour)
	id := uuid.New()
	repo.postsByID[id] = &models.BlogPost{
		ID:          id,
		Title:       "Old Post",
		Slug:        "old-post",
		Status:      enums.BlogPostStatusDraft,
		PublishedAt: &published,
	}

	status := enums.BlogPostStatusPublished
	_, err := svc.UpdatePost(context.Background(), id, PostInput{Status: &status})
	require.NoError(t, err)
	assert.NotContains(t, repo.postUpdates, "published_at")
}

func TestUpdatePostNotFound(t *testing.T) {
	repo := newStubBlogRepo()
	svc := newBlogService(t, repo)

	_, err := svc.UpdatePost(context.Background(), uuid.New(), PostInput{Title: "New Title"})
	requireBlogCode(t, err, pkgerrors.CodeNotFound)
}
