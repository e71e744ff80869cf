package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	"github.com/jkimanzi/dukahub-backend/pkg/pagination"
)

// ListFilters narrows the admin order listing.
type ListFilters struct {
	Status    *enums.OrderStatus
	AgentCode *string
}

// List is one page of orders plus the cursor for the next page.
type List struct {
	Orders     []models.Order `json:"orders"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

// Repository defines read/update operations over placed orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	List(ctx context.Context, params pagination.Params, filters ListFilters) (*List, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}
