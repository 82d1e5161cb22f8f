package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
)

// Service defines catalog operations for both the storefront and the
// back-office.
type Service interface {
	ListVehicles(ctx context.Context, filters CatalogFilters) ([]models.Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vehicle, error)
	CreateVehicle(ctx context.Context, actor audit.Actor, input VehicleInput) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, actor audit.Actor, id uuid.UUID, input VehicleUpdate) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, actor audit.Actor, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, actor audit.Actor, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, actor audit.Actor, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, actor audit.Actor, id uuid.UUID) error

	ListParticularities(ctx context.Context) ([]models.Particularity, error)
	CreateParticularity(ctx context.Context, actor audit.Actor, input ParticularityInput) (*models.Particularity, error)
	UpdateParticularity(ctx context.Context, actor audit.Actor, id uuid.UUID, input ParticularityInput) (*models.Particularity, error)
	DeleteParticularity(ctx context.Context, actor audit.Actor, id uuid.UUID) error
}

type service struct {
	repo  Repository
	audit audit.Service
}

// NewService wires catalog dependencies.
func NewService(repo Repository, auditSvc audit.Service) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if auditSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit service required")
	}
	return &service{repo: repo, audit: auditSvc}, nil
}

func (s *service) ListVehicles(ctx context.Context, filters CatalogFilters) ([]models.Vehicle, error) {
	rows, err := s.repo.ListVehicles(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vehicles")
	}
	return rows, nil
}

func (s *service) GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := s.repo.FindVehicleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Véhicule introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vehicle")
	}
	return vehicle, nil
}

func (s *service) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vehicle, error) {
	return s.repo.FindVehiclesByIDs(ctx, ids)
}

func (s *service) CreateVehicle(ctx context.Context, actor audit.Actor, input VehicleInput) (*models.Vehicle, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "🚫 Le prix doit être positif")
	}

	vehicle := &models.Vehicle{
		Name:          input.Name,
		Category:      input.Category,
		Price:         input.Price,
		TrunkCapacity: input.TrunkCapacity,
		Seats:         input.Seats,
		ImageURL:      input.ImageURL,
		Particularity: input.Particularity,
		CatalogPage:   input.CatalogPage,
		Manufacturer:  input.Manufacturer,
		RealName:      input.RealName,
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert vehicle")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionCreate,
		ResourceType: "vehicule",
		ResourceName: vehicle.Name,
		Description:  fmt.Sprintf("Création du véhicule %s", vehicle.Name),
	})
	return vehicle, nil
}

// UpdateVehicle applies a partial edit and records a field-by-field diff in
// the activity log.
func (s *service) UpdateVehicle(ctx context.Context, actor audit.Actor, id uuid.UUID, input VehicleUpdate) (*models.Vehicle, error) {
	current, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	changes := models.Diff{}

	if input.Name != nil && *input.Name != current.Name {
		updates["name"] = *input.Name
		changes["Nom"] = models.FieldChange{Old: current.Name, New: *input.Name}
	}
	if input.Category != nil && *input.Category != current.Category {
		updates["category"] = *input.Category
		changes["Catégorie"] = models.FieldChange{Old: current.Category, New: *input.Category}
	}
	if input.Price != nil && !input.Price.Equal(current.Price) {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "🚫 Le prix doit être positif")
		}
		updates["price"] = *input.Price
		changes["Prix"] = models.FieldChange{Old: current.Price.String(), New: input.Price.String()}
	}
	if input.TrunkCapacity != nil && *input.TrunkCapacity != current.TrunkCapacity {
		updates["trunk_capacity"] = *input.TrunkCapacity
		changes["Coffre"] = models.FieldChange{Old: current.TrunkCapacity, New: *input.TrunkCapacity}
	}
	if input.Seats != nil && *input.Seats != current.Seats {
		updates["seats"] = *input.Seats
		changes["Places"] = models.FieldChange{Old: current.Seats, New: *input.Seats}
	}
	if input.ImageURL != nil && !equalPtr(input.ImageURL, current.ImageURL) {
		updates["image_url"] = *input.ImageURL
		changes["Image"] = models.FieldChange{Old: strPtrValue(current.ImageURL), New: *input.ImageURL}
	}
	if input.Particularity != nil && !equalPtr(input.Particularity, current.Particularity) {
		updates["particularity"] = *input.Particularity
		changes["Particularité"] = models.FieldChange{Old: strPtrValue(current.Particularity), New: *input.Particularity}
	}
	if input.CatalogPage != nil && !equalIntPtr(input.CatalogPage, current.CatalogPage) {
		updates["catalog_page"] = *input.CatalogPage
		changes["Page catalogue"] = models.FieldChange{Old: intPtrValue(current.CatalogPage), New: *input.CatalogPage}
	}
	if input.Manufacturer != nil && !equalPtr(input.Manufacturer, current.Manufacturer) {
		updates["manufacturer"] = *input.Manufacturer
		changes["Fabricant"] = models.FieldChange{Old: strPtrValue(current.Manufacturer), New: *input.Manufacturer}
	}
	if input.RealName != nil && !equalPtr(input.RealName, current.RealName) {
		updates["real_name"] = *input.RealName
		changes["Nom réel"] = models.FieldChange{Old: strPtrValue(current.RealName), New: *input.RealName}
	}

	if len(updates) == 0 {
		return current, nil
	}
	if err := s.repo.UpdateVehicle(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update vehicle")
	}
	updated, err := s.repo.FindVehicleByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload vehicle")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionUpdate,
		ResourceType: "vehicule",
		ResourceName: updated.Name,
		Description:  fmt.Sprintf("Modification du véhicule %s", updated.Name),
		Changes:      changes,
	})
	return updated, nil
}

func (s *service) DeleteVehicle(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	vehicle, err := s.GetVehicle(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteVehicle(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete vehicle")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Véhicule introuvable")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionDelete,
		ResourceType: "vehicule",
		ResourceName: vehicle.Name,
		Description:  fmt.Sprintf("Suppression du véhicule %s", vehicle.Name),
	})
	return nil
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrValue(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtrValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
