package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a singleton row: updates delete and reinsert it wholesale,
// so at most one row ever exists.
type Announcement struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Content   string    `gorm:"column:content;not null"`
	Active    bool      `gorm:"column:active;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
