package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/users"
	pkgauth "github.com/volcantech/elitevinewoodrs-sub000/pkg/auth"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/security"
)

// LoginInput carries the credentials submitted to the admin login form.
type LoginInput struct {
	Username  string `json:"username" validate:"required"`
	AccessKey string `json:"access_key" validate:"required"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Username  string          `json:"username"`
	UniqueID  *int64          `json:"unique_id,omitempty"`
	Perms     permissions.Set `json:"permissions"`
}

// Principal is the authenticated admin attached to each protected request.
// It is rebuilt from the database on every request, never from token claims
// alone, so revocations and permission edits apply immediately.
type Principal struct {
	UserID      uuid.UUID
	Username    string
	UniqueID    *int64
	Permissions permissions.Set
}

// Service defines authentication operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	LoadPrincipal(ctx context.Context, userID uuid.UUID) (*Principal, error)
}

type service struct {
	repo users.Repository
	cfg  config.JWTConfig
}

// NewService wires authentication dependencies.
func NewService(repo users.Repository, cfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if cfg.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "jwt secret required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// Login verifies the access key against the stored Argon2id hash and mints a
// session token. Unknown usernames and wrong keys share one message so the
// login form cannot be used to enumerate accounts.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "🚫 Identifiants invalides")

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin user")
	}

	ok, err := security.VerifyAccessKey(input.AccessKey, user.AccessKeyHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify access key")
	}
	if !ok {
		return nil, invalid
	}

	now := time.Now().UTC()
	token, err := pkgauth.MintAccessToken(s.cfg, now, pkgauth.AccessTokenPayload{
		UserID:      user.ID,
		Username:    user.Username,
		UniqueID:    user.UniqueID,
		Permissions: user.Permissions,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(s.cfg.ExpirationMinutes) * time.Minute),
		Username:  user.Username,
		UniqueID:  user.UniqueID,
		Perms:     user.Permissions,
	}, nil
}

// LoadPrincipal re-fetches the account behind a verified token. A deleted
// account fails closed: the token was valid, the authorization is gone.
func (s *service) LoadPrincipal(ctx context.Context, userID uuid.UUID) (*Principal, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "🚫 Ce compte n'existe plus")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin user")
	}
	return &Principal{
		UserID:      user.ID,
		Username:    user.Username,
		UniqueID:    user.UniqueID,
		Permissions: user.Permissions,
	}, nil
}
