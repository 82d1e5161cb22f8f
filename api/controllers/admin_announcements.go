package controllers

import (
	"net/http"

	"github.com/volcantech/elitevinewoodrs-sub000/api/responses"
	"github.com/volcantech/elitevinewoodrs-sub000/api/validators"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/announcements"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
)

// AdminAnnouncementGet returns the current banner, published or not.
func AdminAnnouncementGet(svc announcements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "announcements service unavailable"))
			return
		}

		announcement, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, announcement)
	}
}

// AdminAnnouncementReplace swaps the storefront banner. At most one
// announcement exists at a time.
func AdminAnnouncementReplace(svc announcements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "announcements service unavailable"))
			return
		}

		var body announcements.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		announcement, err := svc.Replace(r.Context(), actorFrom(r), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, announcement)
	}
}
