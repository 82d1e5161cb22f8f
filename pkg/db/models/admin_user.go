package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
)

// AdminUser is a back-office account. AccessKeyHash holds the Argon2id digest
// of the login secret; Permissions is the nested boolean record consulted by
// the permission gate on every mutation.
type AdminUser struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username      string          `gorm:"column:username;not null;uniqueIndex"`
	AccessKeyHash string          `gorm:"column:access_key_hash;not null"`
	UniqueID      *int64          `gorm:"column:unique_id"`
	Permissions   permissions.Set `gorm:"column:permissions;type:jsonb;serializer:json"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
