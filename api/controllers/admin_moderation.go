package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/volcantech/elitevinewoodrs-sub000/api/responses"
	"github.com/volcantech/elitevinewoodrs-sub000/api/validators"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/moderation"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
)

type banRequest struct {
	UniqueID string `json:"unique_id" validate:"required"`
	Reason   string `json:"reason"`
}

// AdminBanList returns every banned identifier, newest first.
func AdminBanList(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminBanCreate blocks an identifier from checking out.
func AdminBanCreate(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		var body banRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ban, err := svc.Ban(r.Context(), actorFrom(r), body.UniqueID, body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ban)
	}
}

// AdminBanDelete lifts a ban.
func AdminBanDelete(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "moderation service unavailable"))
			return
		}

		uniqueID := strings.TrimSpace(chi.URLParam(r, "uniqueId"))
		if uniqueID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "🚫 L'identifiant unique est invalide"))
			return
		}

		if err := svc.Unban(r.Context(), actorFrom(r), uniqueID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unbanned"})
	}
}
