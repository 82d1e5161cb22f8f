package vehicles

import (
	"github.com/shopspring/decimal"
)

// VehicleInput carries the fields accepted when creating a vehicle.
type VehicleInput struct {
	Name          string          `json:"name" validate:"required"`
	Category      string          `json:"category" validate:"required"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	TrunkCapacity int             `json:"trunk_capacity" validate:"gte=0"`
	Seats         int             `json:"seats" validate:"gte=1"`
	ImageURL      *string         `json:"image_url"`
	Particularity *string         `json:"particularity"`
	CatalogPage   *int            `json:"catalog_page"`
	Manufacturer  *string         `json:"manufacturer"`
	RealName      *string         `json:"real_name"`
}

// VehicleUpdate carries a partial edit; nil fields are left untouched.
type VehicleUpdate struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	TrunkCapacity *int             `json:"trunk_capacity"`
	Seats         *int             `json:"seats"`
	ImageURL      *string          `json:"image_url"`
	Particularity *string          `json:"particularity"`
	CatalogPage   *int             `json:"catalog_page"`
	Manufacturer  *string          `json:"manufacturer"`
	RealName      *string          `json:"real_name"`
}

// CatalogFilters narrows the public vehicle listing.
type CatalogFilters struct {
	Category      string
	Particularity string
}

// CategoryInput carries the fields accepted when creating or editing a category.
type CategoryInput struct {
	Name     string `json:"name" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}

// ParticularityInput carries the label for a descriptive tag.
type ParticularityInput struct {
	Label string `json:"label" validate:"required"`
}
