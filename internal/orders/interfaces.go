package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/pagination"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	HasPendingForUniqueID(ctx context.Context, uniqueID string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error)
}

// VehicleCatalog is the slice of the vehicle service checkout needs to
// snapshot line items.
type VehicleCatalog interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vehicle, error)
}

// BanChecker answers whether a citizen unique ID is banned from ordering.
type BanChecker interface {
	IsBanned(ctx context.Context, uniqueID string) (bool, error)
}

// Notifier receives best-effort order events for webhook fan-out. Deliveries
// are detached from the request; implementations must never block the caller.
type Notifier interface {
	OrderCreated(order *models.Order)
	OrderStatusChanged(order *models.Order, previous enums.OrderStatus)
}

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
