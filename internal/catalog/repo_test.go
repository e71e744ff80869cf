package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT,
  name TEXT NOT NULL,
  benefit TEXT,
  description TEXT,
  price NUMERIC NOT NULL,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 5,
  track_inventory INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     slug,
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, name string, categoryID *uuid.UUID, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:                uuid.New(),
		CategoryID:        categoryID,
		Name:              name,
		Price:             decimal.NewFromInt(1000),
		IsActive:          true,
		StockQuantity:     stock,
		LowStockThreshold: 5,
		TrackInventory:    true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListProductsFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	oils := seedCategory(t, db, "Oils", "oils")
	teas := seedCategory(t, db, "Teas", "teas")
	seedProduct(t, db, "Moringa Oil", &oils.ID, 10)
	seedProduct(t, db, "Hibiscus Tea", &teas.ID, 10)
	inactive := seedProduct(t, db, "Old Oil", &oils.ID, 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	all, err := repo.ListProducts(ctx, ProductFilters{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCategory, err := repo.ListProducts(ctx, ProductFilters{ActiveOnly: true, CategoryID: &oils.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Moringa Oil", byCategory[0].Name)

	bySearch, err := repo.ListProducts(ctx, ProductFilters{ActiveOnly: true, Search: "hibis"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Hibiscus Tea", bySearch[0].Name)
}

func TestListProductsLowStockOnly(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Plenty", nil, 50)
	low := seedProduct(t, db, "Nearly Out", nil, 2)

	rows, err := repo.ListProducts(ctx, ProductFilters{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, low.ID, rows[0].ID)
}

func TestDecrementStockGuards(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Shea Butter", nil, 1)

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "decrement above stock must report failure")

	var stock int
	require.NoError(t, db.Model(&models.Product{}).Select("stock_quantity").Where("id = ?", product.ID).Scan(&stock).Error)
	assert.Equal(t, 1, stock, "failed decrement must not change stock")

	ok, err = repo.DecrementStock(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, db.Model(&models.Product{}).Select("stock_quantity").Where("id = ?", product.ID).Scan(&stock).Error)
	assert.Equal(t, 0, stock)
}

func TestDecrementStockUntrackedIsNoop(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Digital Guide", nil, 0)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("track_inventory", false).Error)

	ok, err := repo.DecrementStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	var stock int
	require.NoError(t, db.Model(&models.Product{}).Select("stock_quantity").Where("id = ?", product.ID).Scan(&stock).Error)
	assert.Equal(t, 0, stock)
}

func TestCategoryProductCounts(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	oils := seedCategory(t, db, "Oils", "oils")
	seedCategory(t, db, "Teas", "teas")
	seedProduct(t, db, "Moringa Oil", &oils.ID, 10)
	seedProduct(t, db, "Baobab Oil", &oils.ID, 10)
	hidden := seedProduct(t, db, "Hidden Oil", &oils.ID, 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", hidden.ID).Update("is_active", false).Error)

	counts, err := repo.CategoryProductCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byName := map[string]int64{}
	for _, c := range counts {
		byName[c.CategoryName] = c.ProductCount
	}
	assert.Equal(t, int64(2), byName["Oils"])
	assert.Equal(t, int64(0), byName["Teas"])
}

func TestFindProductsByIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := seedProduct(t, db, "First", nil, 10)
	seedProduct(t, db, "Second", nil, 10)

	rows, err := repo.FindProductsByIDs(ctx, []uuid.UUID{first.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, first.ID, rows[0].ID)

	rows, err = repo.FindProductsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateProductPersistsInactiveFlag(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, &models.Product{
		ID:             uuid.New(),
		Name:           "Draft Balm",
		Price:          decimal.NewFromInt(500),
		IsActive:       false,
		TrackInventory: false,
	})
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	stored, err := repo.FindProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive, "inactive product must not come back active")
	assert.False(t, stored.TrackInventory)
}
