package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/pagination"
)

// Actor identifies the admin responsible for a recorded action.
type Actor struct {
	ID       uuid.UUID
	Username string
	UniqueID *int64
}

// Entry captures one action to append to the activity log.
type Entry struct {
	Actor        Actor
	Action       enums.AuditAction
	ResourceType string
	ResourceName string
	Description  string
	Changes      models.Diff
}

// Service defines activity log read/write operations.
type Service interface {
	Record(ctx context.Context, entry Entry) error
	LogChange(ctx context.Context, entry Entry)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

// ListParams configures filtering and pagination for the activity log.
type ListParams struct {
	Limit        int
	Cursor       string
	Action       *enums.AuditAction
	ResourceType string
	ActorID      string
}

// ListResult wraps returned entries and the cursor for the next page.
type ListResult struct {
	Items  []models.ActivityLog `json:"items"`
	Cursor string               `json:"cursor"`
}

// NewService wires activity log dependencies.
func NewService(repo Repository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "activity log repository required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "activity log logger required")
	}
	return &service{repo: repo, log: log}, nil
}

// Record appends one entry and returns any persistence error to the caller.
func (s *service) Record(ctx context.Context, entry Entry) error {
	if entry.Actor.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit actor required")
	}
	if !entry.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown audit action")
	}
	row := &models.ActivityLog{
		ActorID:       entry.Actor.ID,
		ActorUsername: entry.Actor.Username,
		ActorUniqueID: entry.Actor.UniqueID,
		Action:        entry.Action,
		ResourceType:  entry.ResourceType,
		ResourceName:  entry.ResourceName,
		Description:   entry.Description,
		Changes:       entry.Changes,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record activity log entry")
	}
	return nil
}

// LogChange appends one entry after the mutation it describes has already
// committed. A write failure here must never fail the admin's request, so
// the error is logged and swallowed.
func (s *service) LogChange(ctx context.Context, entry Entry) {
	if err := s.Record(ctx, entry); err != nil {
		ctx = s.log.WithFields(ctx, map[string]any{
			"action":        string(entry.Action),
			"resource_type": entry.ResourceType,
			"resource_name": entry.ResourceName,
		})
		s.log.Error(ctx, "activity log write failed", err)
	}
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listLogsParams{
		Limit:        params.Limit,
		Action:       params.Action,
		ResourceType: params.ResourceType,
		ActorID:      params.ActorID,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	entries, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list activity log")
	}

	result := &ListResult{Items: entries}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}
