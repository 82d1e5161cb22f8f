package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
)

// Order is a checkout submitted from the storefront. UniqueID is the
// client-supplied citizen identifier correlating orders to an in-city account;
// it is not a primary key.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UniqueID      string            `gorm:"column:unique_id;not null;index"`
	FirstName     string            `gorm:"column:first_name;not null"`
	LastName      string            `gorm:"column:last_name;not null"`
	Phone         string            `gorm:"column:phone;not null"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalPrice    decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	ValidatorName *string           `gorm:"column:validator_name"`
	ValidatedAt   *time.Time        `gorm:"column:validated_at"`
	CancelReason  *string           `gorm:"column:cancel_reason"`
	ClientIP      string            `gorm:"column:client_ip;not null;default:''"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a vehicle snapshot taken at checkout time. Later edits to the
// vehicle never alter historical orders.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	VehicleID     *uuid.UUID      `gorm:"column:vehicle_id;type:uuid"`
	Name          string          `gorm:"column:name;not null"`
	Category      string          `gorm:"column:category;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	Particularity *string         `gorm:"column:particularity"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
