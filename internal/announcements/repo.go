package announcements

import (
	"context"

	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
)

// Repository exposes persistence helpers for the announcement singleton.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context) (*models.Announcement, error)
	DeleteAll(ctx context.Context) error
	Create(ctx context.Context, announcement *models.Announcement) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an announcement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Find(ctx context.Context) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.WithContext(ctx).Order("created_at DESC").First(&announcement).Error; err != nil {
		return nil, err
	}
	return &announcement, nil
}

// DeleteAll clears the table. Combined with Create in one transaction it
// implements the wholesale replace that keeps the row a singleton.
func (r *repositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Announcement{}).Error
}

func (r *repositoryImpl) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}
