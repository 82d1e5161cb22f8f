package moderation

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
)

var uniqueIDRe = regexp.MustCompile(`^[0-9]+$`)

// Service defines ban list operations and the lookup used by checkout.
type Service interface {
	IsBanned(ctx context.Context, uniqueID string) (bool, error)
	List(ctx context.Context) ([]models.BannedUniqueID, error)
	Ban(ctx context.Context, actor audit.Actor, uniqueID string, reason string) (*models.BannedUniqueID, error)
	Unban(ctx context.Context, actor audit.Actor, uniqueID string) error
}

type service struct {
	repo  Repository
	audit audit.Service
}

// NewService wires moderation dependencies.
func NewService(repo Repository, auditSvc audit.Service) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "moderation repository required")
	}
	if auditSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit service required")
	}
	return &service{repo: repo, audit: auditSvc}, nil
}

func (s *service) IsBanned(ctx context.Context, uniqueID string) (bool, error) {
	_, err := s.repo.FindByUniqueID(ctx, uniqueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) List(ctx context.Context) ([]models.BannedUniqueID, error) {
	bans, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bans")
	}
	return bans, nil
}

func (s *service) Ban(ctx context.Context, actor audit.Actor, uniqueID string, reason string) (*models.BannedUniqueID, error) {
	if !uniqueIDRe.MatchString(uniqueID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "🚫 L'identifiant unique est invalide")
	}

	ban := &models.BannedUniqueID{
		UniqueID: uniqueID,
		BannedBy: actor.Username,
	}
	if reason != "" {
		ban.Reason = &reason
	}
	if err := s.repo.Create(ctx, ban); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "🚫 Cet identifiant est déjà banni")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert ban")
	}

	changes := models.Diff{}
	if reason != "" {
		changes["Raison"] = models.FieldChange{Old: nil, New: reason}
	}
	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionBan,
		ResourceType: "moderation",
		ResourceName: uniqueID,
		Description:  fmt.Sprintf("Bannissement de l'identifiant %s", uniqueID),
		Changes:      changes,
	})
	return ban, nil
}

func (s *service) Unban(ctx context.Context, actor audit.Actor, uniqueID string) error {
	deleted, err := s.repo.DeleteByUniqueID(ctx, uniqueID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete ban")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Cet identifiant n'est pas banni")
	}

	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionUnban,
		ResourceType: "moderation",
		ResourceName: uniqueID,
		Description:  fmt.Sprintf("Débannissement de l'identifiant %s", uniqueID),
	})
	return nil
}
