package controllers

import (
	"net/http"

	"github.com/volcantech/elitevinewoodrs-sub000/api/middleware"
	intaudit "github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/auth"
)

func principalOrNil(r *http.Request) *auth.Principal {
	return middleware.PrincipalFromContext(r.Context())
}

func actorFrom(r *http.Request) intaudit.Actor {
	return middleware.ActorFromContext(r.Context())
}
