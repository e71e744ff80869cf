package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

type stubCatalogRepo struct {
	Repository

	products   map[uuid.UUID]*models.Product
	categories map[uuid.UUID]*models.Category
	created    *models.Product
	updates    map[string]any
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		products:   map[uuid.UUID]*models.Product{},
		categories: map[uuid.UUID]*models.Category{},
	}
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubCatalogRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (s *stubCatalogRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	s.created = product
	return product, nil
}

func (s *stubCatalogRepo) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubCatalogRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories[category.ID] = category
	return category, nil
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestCreateProductValidation(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), ProductInput{Name: "  "})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateProduct(context.Background(), ProductInput{Name: "Moringa Oil"})
	requireCode(t, err, pkgerrors.CodeValidation)

	negative := decimal.NewFromInt(-5)
	_, err = svc.CreateProduct(context.Background(), ProductInput{Name: "Moringa Oil", Price: &negative})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateProductUnknownCategoryRejected(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	missing := uuid.New()
	_, err = svc.CreateProduct(context.Background(), ProductInput{
		Name:       "Moringa Oil",
		Price:      decimalPtr(decimal.NewFromInt(1000)),
		CategoryID: &missing,
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateProductDefaults(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:  " Moringa Oil ",
		Price: decimalPtr(decimal.NewFromInt(1000)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Moringa Oil", created.Name)
	assert.True(t, created.IsActive)
	assert.True(t, created.TrackInventory)
	assert.True(t, created.Price.Equal(decimal.NewFromInt(1000)))
}

func TestUpdateProductNotFound(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), uuid.New(), ProductInput{Name: "New Name"})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateProductBuildsSparseUpdates(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	existing := &models.Product{ID: uuid.New(), Name: "Moringa Oil", Price: decimal.NewFromInt(1000)}
	repo.products[existing.ID] = existing

	active := false
	_, err = svc.UpdateProduct(context.Background(), existing.ID, ProductInput{
		Name:     "Moringa Body Oil",
		IsActive: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "Moringa Body Oil", repo.updates["name"])
	assert.Equal(t, false, repo.updates["is_active"])
	assert.NotContains(t, repo.updates, "price")
}

func TestCategorySlugNormalization(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	created, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Herbal Teas"})
	require.NoError(t, err)
	assert.Equal(t, "herbal-teas", created.Slug)
	assert.True(t, created.IsActive)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
