package announcements

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
)

// UpdateInput replaces the announcement wholesale.
type UpdateInput struct {
	Content string `json:"content" validate:"required"`
	Active  bool   `json:"active"`
}

// Service defines announcement operations. Get returns nil without error when
// no announcement exists; the storefront treats that as "nothing to show".
type Service interface {
	Get(ctx context.Context) (*models.Announcement, error)
	Replace(ctx context.Context, actor audit.Actor, input UpdateInput) (*models.Announcement, error)
}

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo  Repository
	tx    TxRunner
	audit audit.Service
}

// NewService wires announcement dependencies.
func NewService(repo Repository, tx TxRunner, auditSvc audit.Service) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "announcements repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if auditSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit service required")
	}
	return &service{repo: repo, tx: tx, audit: auditSvc}, nil
}

func (s *service) Get(ctx context.Context) (*models.Announcement, error) {
	announcement, err := s.repo.Find(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load announcement")
	}
	return announcement, nil
}

// Replace deletes the current row and inserts the new one in a single
// transaction, so readers never observe two announcements.
func (s *service) Replace(ctx context.Context, actor audit.Actor, input UpdateInput) (*models.Announcement, error) {
	previous, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	announcement := &models.Announcement{
		Content: input.Content,
		Active:  input.Active,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear announcement")
		}
		if err := repo.Create(ctx, announcement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert announcement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes := models.Diff{
		"Contenu": {New: announcement.Content},
		"Active":  {New: announcement.Active},
	}
	if previous != nil {
		changes["Contenu"] = models.FieldChange{Old: previous.Content, New: announcement.Content}
		changes["Active"] = models.FieldChange{Old: previous.Active, New: announcement.Active}
	}
	s.audit.LogChange(ctx, audit.Entry{
		Actor:        actor,
		Action:       enums.AuditActionUpdate,
		ResourceType: "annonce",
		ResourceName: "Annonce",
		Description:  "Modification de l'annonce de la concession",
		Changes:      changes,
	})
	return announcement, nil
}
