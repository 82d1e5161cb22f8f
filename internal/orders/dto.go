package orders

import (
	"github.com/google/uuid"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/pagination"
)

// CheckoutItemInput is one cart line submitted from the storefront.
type CheckoutItemInput struct {
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CheckoutInput is a storefront checkout submission. Prices are never taken
// from the client; they are snapshotted from the catalog at insert time.
type CheckoutInput struct {
	FirstName string              `json:"first_name" validate:"required"`
	LastName  string              `json:"last_name" validate:"required"`
	Phone     string              `json:"phone" validate:"required"`
	UniqueID  string              `json:"unique_id" validate:"required"`
	Items     []CheckoutItemInput `json:"items" validate:"required,min=1,dive"`
	ClientIP  string              `json:"-"`
}

// ListParams configures filtering and pagination for the admin order list.
type ListParams struct {
	Limit    int
	Cursor   string
	Status   *enums.OrderStatus
	UniqueID string
}

// ListResult wraps returned orders and the cursor for the next page.
type ListResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}

type listOrdersParams struct {
	Limit    int
	Cursor   *pagination.Cursor
	Status   *enums.OrderStatus
	UniqueID string
}
