package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
)

// Category and particularity management. Both are small reference tables
// edited from the back-office and read by the storefront filters.

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, actor audit.Actor, input CategoryInput) (*models.Category, error) {
	category := &models.Category{Name: input.Name, Position: input.Position}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "🚫 Cette catégorie existe déjà")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert category")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionCreate,
		ResourceType: "categorie",
		ResourceName: category.Name,
		Description:  fmt.Sprintf("Création de la catégorie %s", category.Name),
	})
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, actor audit.Actor, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	current, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Catégorie introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	updates := map[string]any{}
	changes := models.Diff{}
	if input.Name != current.Name {
		updates["name"] = input.Name
		changes["Nom"] = models.FieldChange{Old: current.Name, New: input.Name}
	}
	if input.Position != current.Position {
		updates["position"] = input.Position
		changes["Position"] = models.FieldChange{Old: current.Position, New: input.Position}
	}
	if len(updates) == 0 {
		return current, nil
	}

	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "🚫 Cette catégorie existe déjà")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	updated, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload category")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionUpdate,
		ResourceType: "categorie",
		ResourceName: updated.Name,
		Description:  fmt.Sprintf("Modification de la catégorie %s", updated.Name),
		Changes:      changes,
	})
	return updated, nil
}

func (s *service) DeleteCategory(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Catégorie introuvable")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	deleted, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Catégorie introuvable")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionDelete,
		ResourceType: "categorie",
		ResourceName: category.Name,
		Description:  fmt.Sprintf("Suppression de la catégorie %s", category.Name),
	})
	return nil
}

func (s *service) ListParticularities(ctx context.Context) ([]models.Particularity, error) {
	rows, err := s.repo.ListParticularities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list particularities")
	}
	return rows, nil
}

func (s *service) CreateParticularity(ctx context.Context, actor audit.Actor, input ParticularityInput) (*models.Particularity, error) {
	particularity := &models.Particularity{Label: input.Label}
	if err := s.repo.CreateParticularity(ctx, particularity); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "🚫 Cette particularité existe déjà")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert particularity")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionCreate,
		ResourceType: "particularite",
		ResourceName: particularity.Label,
		Description:  fmt.Sprintf("Création de la particularité %s", particularity.Label),
	})
	return particularity, nil
}

func (s *service) UpdateParticularity(ctx context.Context, actor audit.Actor, id uuid.UUID, input ParticularityInput) (*models.Particularity, error) {
	current, err := s.repo.FindParticularityByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Particularité introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load particularity")
	}
	if input.Label == current.Label {
		return current, nil
	}

	if err := s.repo.UpdateParticularity(ctx, id, map[string]any{"label": input.Label}); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "🚫 Cette particularité existe déjà")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update particularity")
	}
	updated, err := s.repo.FindParticularityByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload particularity")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionUpdate,
		ResourceType: "particularite",
		ResourceName: updated.Label,
		Description:  fmt.Sprintf("Modification de la particularité %s", updated.Label),
		Changes: models.Diff{
			"Libellé": {Old: current.Label, New: updated.Label},
		},
	})
	return updated, nil
}

func (s *service) DeleteParticularity(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	particularity, err := s.repo.FindParticularityByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Particularité introuvable")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load particularity")
	}

	deleted, err := s.repo.DeleteParticularity(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete particularity")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Particularité introuvable")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionDelete,
		ResourceType: "particularite",
		ResourceName: particularity.Label,
		Description:  fmt.Sprintf("Suppression de la particularité %s", particularity.Label),
	})
	return nil
}
