package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
)

// AccessTokenPayload captures the data available when minting a session token.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Username    string
	UniqueID    *int64
	Permissions permissions.Set
}

// AccessTokenClaims is the typed JWT issued to admin sessions. The embedded
// permission set is a login-time snapshot; the auth middleware re-fetches the
// user row on every protected request, so a revoked account is rejected even
// while its token is unexpired.
type AccessTokenClaims struct {
	UserID        uuid.UUID       `json:"user_id"`
	Username      string          `json:"username"`
	UniqueID      *int64          `json:"unique_id,omitempty"`
	Permissions   permissions.Set `json:"permissions"`
	Authenticated bool            `json:"authenticated"`
	jwt.RegisteredClaims
}
