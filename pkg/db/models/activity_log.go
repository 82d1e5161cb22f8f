package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
)

// FieldChange records the before/after values of one edited field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Diff maps a human-readable field label to its change. Callers build it
// field by field when applying a mutation; there is no generic reflection
// based diffing.
type Diff map[string]FieldChange

// ActivityLog is an append-only ledger row recording who changed what.
// Rows are never updated or deleted.
type ActivityLog struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID       uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	ActorUsername string            `gorm:"column:actor_username;not null"`
	ActorUniqueID *int64            `gorm:"column:actor_unique_id"`
	Action        enums.AuditAction `gorm:"column:action;type:text;not null"`
	ResourceType  string            `gorm:"column:resource_type;not null"`
	ResourceName  string            `gorm:"column:resource_name;not null"`
	Description   string            `gorm:"column:description;not null"`
	Changes       Diff              `gorm:"column:changes;type:jsonb;serializer:json"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
}
