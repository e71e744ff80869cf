package cart

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

type memoryStore struct {
	carts map[string]*Cart
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: map[string]*Cart{}}
}

func (m *memoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if cart, ok := m.carts[sessionID]; ok {
		copied := *cart
		copied.Items = append([]Item(nil), cart.Items...)
		return &copied, nil
	}
	return &Cart{SessionID: sessionID}, nil
}

func (m *memoryStore) Save(ctx context.Context, cart *Cart) error {
	m.carts[cart.SessionID] = cart
	return nil
}

func (m *memoryStore) Clear(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newCartService(t *testing.T, products ...*models.Product) (Service, *memoryStore) {
	t.Helper()

	store := newMemoryStore()
	reader := &stubProducts{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		reader.products[p.ID] = p
	}
	svc, err := NewService(store, reader)
	require.NoError(t, err)
	return svc, store
}

func activeProduct(name string, price int64) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromInt(price),
		IsActive: true,
	}
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	product := activeProduct("Moringa Oil", 1000)
	svc, _ := newCartService(t, product)

	cart, err := svc.AddItem(context.Background(), "sess-1", product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Moringa Oil", cart.Items[0].Name)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 2, cart.TotalItems())
}

func TestAddItemMergesAcrossCalls(t *testing.T) {
	product := activeProduct("Moringa Oil", 1000)
	svc, _ := newCartService(t, product)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", product.ID, 1)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "sess-1", product.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newCartService(t)

	_, err := svc.AddItem(context.Background(), "sess-1", uuid.New(), 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddItemInactiveProduct(t *testing.T) {
	product := activeProduct("Hidden", 100)
	product.IsActive = false
	svc, _ := newCartService(t, product)

	_, err := svc.AddItem(context.Background(), "sess-1", product.ID, 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddItemRejectsNonPositiveQty(t *testing.T) {
	product := activeProduct("Moringa Oil", 1000)
	svc, _ := newCartService(t, product)

	_, err := svc.AddItem(context.Background(), "sess-1", product.ID, 0)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateQuantityRemovesAtZero(t *testing.T) {
	product := activeProduct("Moringa Oil", 1000)
	svc, _ := newCartService(t, product)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "sess-1", product.ID, 0)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestClearEmptiesSession(t *testing.T) {
	product := activeProduct("Moringa Oil", 1000)
	svc, store := newCartService(t, product)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", product.ID, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "sess-1"))

	assert.NotContains(t, store.carts, "sess-1")
}
