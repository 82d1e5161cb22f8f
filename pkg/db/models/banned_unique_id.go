package models

import (
	"time"

	"github.com/google/uuid"
)

// BannedUniqueID blocks checkout for a citizen identifier while present.
type BannedUniqueID struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UniqueID  string    `gorm:"column:unique_id;not null;uniqueIndex"`
	Reason    *string   `gorm:"column:reason"`
	BannedBy  string    `gorm:"column:banned_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
