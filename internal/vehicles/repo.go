package vehicles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
)

// Repository exposes persistence helpers for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	FindVehicleByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindVehiclesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteVehicle(ctx context.Context, id uuid.UUID) (bool, error)
	ListVehicles(ctx context.Context, filters CatalogFilters) ([]models.Vehicle, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateParticularity(ctx context.Context, particularity *models.Particularity) error
	FindParticularityByID(ctx context.Context, id uuid.UUID) (*models.Particularity, error)
	UpdateParticularity(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteParticularity(ctx context.Context, id uuid.UUID) (bool, error)
	ListParticularities(ctx context.Context) ([]models.Particularity, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *repositoryImpl) FindVehicleByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repositoryImpl) FindVehiclesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vehicle, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Vehicle
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) UpdateVehicle(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repositoryImpl) DeleteVehicle(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Vehicle{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListVehicles returns the full catalog, optionally narrowed by category name
// or particularity label. The storefront caches the result client side, so no
// pagination is applied.
func (r *repositoryImpl) ListVehicles(ctx context.Context, filters CatalogFilters) ([]models.Vehicle, error) {
	query := r.db.WithContext(ctx).Model(&models.Vehicle{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Particularity != "" {
		query = query.Where("particularity = ?", filters.Particularity)
	}
	var rows []models.Vehicle
	if err := query.Order("category ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repositoryImpl) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repositoryImpl) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repositoryImpl) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("position ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) CreateParticularity(ctx context.Context, particularity *models.Particularity) error {
	return r.db.WithContext(ctx).Create(particularity).Error
}

func (r *repositoryImpl) FindParticularityByID(ctx context.Context, id uuid.UUID) (*models.Particularity, error) {
	var particularity models.Particularity
	if err := r.db.WithContext(ctx).First(&particularity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &particularity, nil
}

func (r *repositoryImpl) UpdateParticularity(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Particularity{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repositoryImpl) DeleteParticularity(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Particularity{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListParticularities(ctx context.Context) ([]models.Particularity, error) {
	var rows []models.Particularity
	if err := r.db.WithContext(ctx).Order("label ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
