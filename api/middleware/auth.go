package middleware

import (
	"net/http"
	"strings"

	"github.com/volcantech/elitevinewoodrs-sub000/api/responses"
	intauth "github.com/volcantech/elitevinewoodrs-sub000/internal/auth"
	pkgauth "github.com/volcantech/elitevinewoodrs-sub000/pkg/auth"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
)

// Auth validates a bearer token, re-fetches the account behind it and seeds
// the request context with the resulting principal. Permissions always come
// from the database row, never from the token snapshot, so edits and
// revocations take effect on the next request.
func Auth(cfg config.JWTConfig, svc intauth.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "🚫 Authentification requise"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "🚫 Authentification requise"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "🚫 Session invalide ou expirée"))
				return
			}

			principal, err := svc.LoadPrincipal(r.Context(), claims.UserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithAdminID(ctx, principal.UserID.String())
				ctx = logg.WithUsername(ctx, principal.Username)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
