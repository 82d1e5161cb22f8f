package controllers

import (
	"net/http"
	"strings"

	"github.com/volcantech/elitevinewoodrs-sub000/api/responses"
	"github.com/volcantech/elitevinewoodrs-sub000/api/validators"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/pagination"
)

// AdminActivityLogs returns the paginated audit trail, newest first.
func AdminActivityLogs(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := audit.ListParams{
			Limit:        limit,
			Cursor:       strings.TrimSpace(r.URL.Query().Get("cursor")),
			ResourceType: strings.TrimSpace(r.URL.Query().Get("resource_type")),
			ActorID:      strings.TrimSpace(r.URL.Query().Get("actor_id")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("action")); raw != "" {
			action := enums.AuditAction(raw)
			if !action.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "🚫 Action inconnue"))
				return
			}
			params.Action = &action
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
