package affiliates

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

func setupAffiliatesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS affiliates (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT,
  agent_code TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS agent_code_counter (
  id INTEGER PRIMARY KEY,
  last_value INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE TABLE IF NOT EXISTS products (
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
);`,
		`CREATE TABLE IF NOT EXISTS product_affiliate_links (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  agent_code TEXT NOT NULL,
  assigned_to TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  click_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS referrals (
  id TEXT PRIMARY KEY,
  agent_code TEXT NOT NULL,
  slug TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  session_id TEXT NOT NULL,
  order_id TEXT,
  created_at DATETIME
);`,
		`INSERT INTO agent_code_counter (id, last_value) VALUES (1, 0);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedAffiliate(t *testing.T, db *gorm.DB, name, agentCode string) *models.Affiliate {
	t.Helper()

	affiliate := &models.Affiliate{
		ID:        uuid.New(),
		Name:      name,
		Phone:     "0712345678",
		AgentCode: agentCode,
		IsActive:  true,
	}
	require.NoError(t, db.Create(affiliate).Error)
	return affiliate
}

func seedLinkProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:             uuid.New(),
		Name:           name,
		Price:          decimal.NewFromInt(1500),
		IsActive:       true,
		TrackInventory: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedLink(t *testing.T, db *gorm.DB, productID uuid.UUID, slug, agentCode string, active bool) *models.ProductAffiliateLink {
	t.Helper()

	link := &models.ProductAffiliateLink{
		ID:         uuid.New(),
		ProductID:  productID,
		Slug:       slug,
		AgentCode:  agentCode,
		AssignedTo: "Moringa Powder Campaign",
		IsActive:   active,
	}
	require.NoError(t, db.Create(link).Error)
	return link
}

func TestNextAgentCodeSequences(t *testing.T) {
	db := setupAffiliatesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.NextAgentCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AGT-0001", first)

	second, err := repo.NextAgentCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AGT-0002", second)
}

func TestNextAgentCodeMissingCounterRow(t *testing.T) {
	db := setupAffiliatesTestDB(t)
	require.NoError(t, db.Exec(`DELETE FROM agent_code_counter`).Error)
	repo := NewRepository(db)

	_, err := repo.NextAgentCode(context.Background())
	require.Error(t, err)
}

func TestIncrementLinkClicks(t *testing.T) {
	db := setupAffiliatesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedLinkProduct(t, db, "Moringa Powder")
	seedLink(t, db, product.ID, "mp-amina", "AGT-0001", true)

	require.NoError(t, repo.IncrementLinkClicks(ctx, "mp-amina"))
	require.NoError(t, repo.IncrementLinkClicks(ctx, "MP-AMINA"))

	link, err := repo.FindLinkBySlug(ctx, "mp-amina")
	require.NoError(t, err)
	assert.Equal(t, int64(2), link.ClickCount)
	require.NotNil(t, link.Product)
	assert.Equal(t, "Moringa Powder", link.Product.Name)
}

func TestFindLinkBySlugNormalizes(t *testing.T) {
	db := setupAffiliatesTestDB(t)
	repo := NewRepository(db)

	product := seedLinkProduct(t, db, "Baobab Oil")
	seedLink(t, db, product.ID, "bo-special", "AGT-0001", true)

	link, err := repo.FindLinkBySlug(context.Background(), "  BO-Special ")
	require.NoError(t, err)
	assert.Equal(t, "bo-special", link.Slug)
}

func TestListLinksFilters(t *testing.T) {
	db := setupAffiliatesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedLinkProduct(t, db, "Moringa Powder")
	seedLink(t, db, product.ID, "active-one", "AGT-0001", true)
	seedLink(t, db, product.ID, "inactive-one", "AGT-0001", false)
	seedLink(t, db, product.ID, "other-agent", "AGT-0002", true)

	agentCode := "AGT-0001"
	links, err := repo.ListLinks(ctx, LinkFilters{AgentCode: &agentCode, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "active-one", links[0].Slug)

	all, err := repo.ListLinks(ctx, LinkFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAttachOrderToSessionReferrals(t *testing.T) {
	db := setupAffiliatesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sessionID := uuid.NewString()
	_, err := repo.CreateReferral(ctx, &models.Referral{
		ID:          uuid.New(),
		AgentCode:   "AGT-0001",
		Slug:        "mp-amina",
		ProductName: "Moringa Powder",
		SessionID:   sessionID,
	})
	require.NoError(t, err)

	alreadyLinked := uuid.New()
	_, err = repo.CreateReferral(ctx, &models.Referral{
		ID:          uuid.New(),
		AgentCode:   "AGT-0001",
		Slug:        "mp-amina",
		ProductName: "Moringa Powder",
		SessionID:   sessionID,
		OrderID:     &alreadyLinked,
	})
	require.NoError(t, err)

	orderID := uuid.New()
	require.NoError(t, repo.AttachOrderToSessionReferrals(ctx, sessionID, orderID))

	referrals, err := repo.ListReferrals(ctx, nil)
	require.NoError(t, err)
	require.Len(t, referrals, 2)
	for _, referral := range referrals {
		require.NotNil(t, referral.OrderID)
	}

	var linkedToNew int64
	require.NoError(t, db.Model(&models.Referral{}).Where("order_id = ?", orderID).Count(&linkedToNew).Error)
	assert.Equal(t, int64(1), linkedToNew)

	var stillOld int64
	require.NoError(t, db.Model(&models.Referral{}).Where("order_id = ?", alreadyLinked).Count(&stillOld).Error)
	assert.Equal(t, int64(1), stillOld)
}

func TestStatsByAgentCode(t *testing.T) {
	db := setupAffiliatesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedAffiliate(t, db, "Amina Njeri", "AGT-0001")
	product := seedLinkProduct(t, db, "Moringa Powder")
	seedLink(t, db, product.ID, "mp-one", "AGT-0001", true)
	seedLink(t, db, product.ID, "mp-two", "AGT-0001", true)
	require.NoError(t, repo.IncrementLinkClicks(ctx, "mp-one"))
	require.NoError(t, repo.IncrementLinkClicks(ctx, "mp-one"))
	require.NoError(t, repo.IncrementLinkClicks(ctx, "mp-two"))

	orderID := uuid.New()
	_, err := repo.CreateReferral(ctx, &models.Referral{
		ID: uuid.New(), AgentCode: "AGT-0001", Slug: "mp-one",
		ProductName: "Moringa Powder", SessionID: uuid.NewString(), OrderID: &orderID,
	})
	require.NoError(t, err)
	_, err = repo.CreateReferral(ctx, &models.Referral{
		ID: uuid.New(), AgentCode: "AGT-0001", Slug: "mp-two",
		ProductName: "Moringa Powder", SessionID: uuid.NewString(),
	})
	require.NoError(t, err)

	stats, err := repo.StatsByAgentCode(ctx, "AGT-0001")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.LinkCount)
	assert.Equal(t, int64(3), stats.TotalClicks)
	assert.Equal(t, int64(2), stats.ReferralCount)
	assert.Equal(t, int64(1), stats.ConvertedCount)
}

func TestStatsByAgentCodeNoLinks(t *testing.T) {
	db := setupAffiliatesTestDB(t)
	repo := NewRepository(db)

	stats, err := repo.StatsByAgentCode(context.Background(), "AGT-0099")
	require.NoError(t, err)
	assert.Zero(t, stats.LinkCount)
	assert.Zero(t, stats.TotalClicks)
}
