package middleware

import (
	"net/http"

	"github.com/volcantech/elitevinewoodrs-sub000/api/responses"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
)

// RequirePermission gates a route on one (category, action) pair. An unknown
// category yields the generic section denial; a known category with the
// action toggled off yields the action-specific message.
func RequirePermission(category permissions.Category, action permissions.Action, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "🚫 Authentification requise"))
				return
			}

			allowed, known := principal.Permissions.Allows(category, action)
			if !allowed {
				msg := permissions.GenericDenialMessage
				if known {
					msg = permissions.DenialMessage(category, action)
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, msg))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
