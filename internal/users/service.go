package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/security"
)

// AccessKeyLength is the size of generated login secrets.
const AccessKeyLength = 24

// CreateUserInput carries the fields accepted when creating an account.
// The access key is generated server side and returned exactly once.
type CreateUserInput struct {
	Username    string           `json:"username" validate:"required,min=3"`
	UniqueID    *int64           `json:"unique_id"`
	Permissions *permissions.Set `json:"permissions"`
}

// UpdateUserInput carries a partial account edit; nil fields are untouched.
type UpdateUserInput struct {
	Username    *string          `json:"username"`
	UniqueID    *int64           `json:"unique_id"`
	Permissions *permissions.Set `json:"permissions"`
}

// CreateResult pairs the persisted account with its one-time plaintext key.
type CreateResult struct {
	User      *models.AdminUser `json:"user"`
	AccessKey string            `json:"access_key"`
}

// Service defines back-office account management.
type Service interface {
	List(ctx context.Context) ([]models.AdminUser, error)
	Get(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	Create(ctx context.Context, actor audit.Actor, input CreateUserInput) (*CreateResult, error)
	Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input UpdateUserInput) (*models.AdminUser, error)
	RotateAccessKey(ctx context.Context, actor audit.Actor, id uuid.UUID) (string, error)
	Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error
}

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo   Repository
	tx     TxRunner
	audit  audit.Service
	keyCfg config.AccessKeyConfig
}

// NewService wires account management dependencies.
func NewService(repo Repository, tx TxRunner, auditSvc audit.Service, keyCfg config.AccessKeyConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if auditSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit service required")
	}
	return &service{repo: repo, tx: tx, audit: auditSvc, keyCfg: keyCfg}, nil
}

func (s *service) List(ctx context.Context) ([]models.AdminUser, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admin users")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Utilisateur introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin user")
	}
	return user, nil
}

func (s *service) Create(ctx context.Context, actor audit.Actor, input CreateUserInput) (*CreateResult, error) {
	accessKey, err := security.GenerateAccessKey(AccessKeyLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate access key")
	}
	hash, err := security.HashAccessKey(accessKey, s.keyCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash access key")
	}

	perms := permissions.ReadOnly()
	if input.Permissions != nil {
		perms = *input.Permissions
	}
	user := &models.AdminUser{
		Username:      input.Username,
		AccessKeyHash: hash,
		UniqueID:      input.UniqueID,
		Permissions:   perms,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "🚫 Ce nom d'utilisateur existe déjà")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert admin user")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionCreate,
		ResourceType: "utilisateur",
		ResourceName: user.Username,
		Description:  fmt.Sprintf("Création de l'utilisateur %s", user.Username),
	})
	return &CreateResult{User: user, AccessKey: accessKey}, nil
}

func (s *service) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input UpdateUserInput) (*models.AdminUser, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	changes := models.Diff{}
	if input.Username != nil && *input.Username != current.Username {
		updates["username"] = *input.Username
		changes["Nom d'utilisateur"] = models.FieldChange{Old: current.Username, New: *input.Username}
	}
	if input.UniqueID != nil && (current.UniqueID == nil || *current.UniqueID != *input.UniqueID) {
		updates["unique_id"] = *input.UniqueID
		var old any
		if current.UniqueID != nil {
			old = *current.UniqueID
		}
		changes["Identifiant unique"] = models.FieldChange{Old: old, New: *input.UniqueID}
	}
	if input.Permissions != nil {
		updates["permissions"] = *input.Permissions
		changes["Permissions"] = models.FieldChange{Old: current.Permissions, New: *input.Permissions}
	}
	if len(updates) == 0 {
		return current, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "🚫 Ce nom d'utilisateur existe déjà")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update admin user")
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload admin user")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionUpdate,
		ResourceType: "utilisateur",
		ResourceName: updated.Username,
		Description:  fmt.Sprintf("Modification de l'utilisateur %s", updated.Username),
		Changes:      changes,
	})
	return updated, nil
}

// RotateAccessKey replaces the account's login secret and returns the new
// plaintext exactly once. Existing tokens stay valid until they expire.
func (s *service) RotateAccessKey(ctx context.Context, actor audit.Actor, id uuid.UUID) (string, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	accessKey, err := security.GenerateAccessKey(AccessKeyLength)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate access key")
	}
	hash, err := security.HashAccessKey(accessKey, s.keyCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash access key")
	}
	if err := s.repo.Update(ctx, id, map[string]any{"access_key_hash": hash}); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate access key")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionUpdate,
		ResourceType: "utilisateur",
		ResourceName: user.Username,
		Description:  fmt.Sprintf("Régénération de la clé d'accès de %s", user.Username),
	})
	return accessKey, nil
}

// Delete removes an account. The count check and the delete share one
// transaction so two concurrent deletes cannot both see a surviving admin.
func (s *service) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count admin users")
		}
		if count <= 1 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "🚫 Impossible de supprimer le dernier administrateur")
		}
		deleted, err := repo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete admin user")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Utilisateur introuvable")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionDelete,
		ResourceType: "utilisateur",
		ResourceName: user.Username,
		Description:  fmt.Sprintf("Suppression de l'utilisateur %s", user.Username),
	})
	return nil
}
