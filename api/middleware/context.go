package middleware

import (
	"context"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/auth"
	intaudit "github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// WithPrincipal injects the authenticated admin into the context.
func WithPrincipal(ctx context.Context, principal *auth.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// PrincipalFromContext returns the authenticated admin or nil.
func PrincipalFromContext(ctx context.Context) *auth.Principal {
	if ctx == nil {
		return nil
	}
	if principal, ok := ctx.Value(ctxPrincipal).(*auth.Principal); ok {
		return principal
	}
	return nil
}

// ActorFromContext converts the request principal into an audit actor.
func ActorFromContext(ctx context.Context) intaudit.Actor {
	principal := PrincipalFromContext(ctx)
	if principal == nil {
		return intaudit.Actor{}
	}
	return intaudit.Actor{
		ID:       principal.UserID,
		Username: principal.Username,
		UniqueID: principal.UniqueID,
	}
}
