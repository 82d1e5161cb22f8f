package moderation

import (
	"context"

	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
)

// Repository exposes persistence helpers for the ban list.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ban *models.BannedUniqueID) error
	FindByUniqueID(ctx context.Context, uniqueID string) (*models.BannedUniqueID, error)
	DeleteByUniqueID(ctx context.Context, uniqueID string) (bool, error)
	ListAll(ctx context.Context) ([]models.BannedUniqueID, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a ban list repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, ban *models.BannedUniqueID) error {
	return r.db.WithContext(ctx).Create(ban).Error
}

func (r *repositoryImpl) FindByUniqueID(ctx context.Context, uniqueID string) (*models.BannedUniqueID, error) {
	var ban models.BannedUniqueID
	if err := r.db.WithContext(ctx).Where("unique_id = ?", uniqueID).First(&ban).Error; err != nil {
		return nil, err
	}
	return &ban, nil
}

func (r *repositoryImpl) DeleteByUniqueID(ctx context.Context, uniqueID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("unique_id = ?", uniqueID).Delete(&models.BannedUniqueID{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListAll returns every ban, newest first. The ban list is small enough that
// it is not paginated.
func (r *repositoryImpl) ListAll(ctx context.Context) ([]models.BannedUniqueID, error) {
	var bans []models.BannedUniqueID
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&bans).Error; err != nil {
		return nil, err
	}
	return bans, nil
}
