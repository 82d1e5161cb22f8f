package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle is a catalog entry shown on the public storefront.
type Vehicle struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Category      string          `gorm:"column:category;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	TrunkCapacity int             `gorm:"column:trunk_capacity;not null;default:0"`
	Seats         int             `gorm:"column:seats;not null;default:2"`
	ImageURL      *string         `gorm:"column:image_url"`
	Particularity *string         `gorm:"column:particularity"`
	CatalogPage   *int            `gorm:"column:catalog_page"`
	Manufacturer  *string         `gorm:"column:manufacturer"`
	RealName      *string         `gorm:"column:real_name"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
