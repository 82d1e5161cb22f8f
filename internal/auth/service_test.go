package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/users"
	pkgauth "github.com/volcantech/elitevinewoodrs-sub000/pkg/auth"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/security"
)

type stubUsersRepo struct {
	byUsername map[string]*models.AdminUser
	byID       map[uuid.UUID]*models.AdminUser
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{
		byUsername: make(map[string]*models.AdminUser),
		byID:       make(map[uuid.UUID]*models.AdminUser),
	}
}

func (s *stubUsersRepo) add(user *models.AdminUser) {
	s.byUsername[user.Username] = user
	s.byID[user.ID] = user
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUsersRepo) Create(ctx context.Context, user *models.AdminUser) error {
	s.add(user)
	return nil
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubUsersRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (s *stubUsersRepo) ListAll(ctx context.Context) ([]models.AdminUser, error) {
	return nil, nil
}

func (s *stubUsersRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.byID)), nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "elitevinewoodrs",
		ExpirationMinutes: 60,
	}
}

func testKeyConfig() config.AccessKeyConfig {
	return config.AccessKeyConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func seedUser(t *testing.T, repo *stubUsersRepo, username, accessKey string) *models.AdminUser {
	t.Helper()

	hash, err := security.HashAccessKey(accessKey, testKeyConfig())
	if err != nil {
		t.Fatalf("HashAccessKey returned error: %v", err)
	}
	user := &models.AdminUser{
		ID:            uuid.New(),
		Username:      username,
		AccessKeyHash: hash,
		Permissions:   permissions.Full(),
	}
	repo.add(user)
	return user
}

func TestLoginMintsVerifiableToken(t *testing.T) {
	repo := newStubUsersRepo()
	seedUser(t, repo, "sergio", "SuperCleSecrete12345678")
	svc, err := NewService(repo, testJWTConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginInput{Username: "sergio", AccessKey: "SuperCleSecrete12345678"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.Username != "sergio" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if allowed, _ := claims.Permissions.Allows(permissions.CategoryOrders, permissions.ActionValidate); !allowed {
		t.Fatalf("permissions snapshot missing from claims")
	}
}

func TestLoginWrongKeyAndUnknownUserShareMessage(t *testing.T) {
	repo := newStubUsersRepo()
	seedUser(t, repo, "sergio", "SuperCleSecrete12345678")
	svc, _ := NewService(repo, testJWTConfig())

	_, errWrongKey := svc.Login(context.Background(), LoginInput{Username: "sergio", AccessKey: "mauvaise-cle"})
	_, errUnknown := svc.Login(context.Background(), LoginInput{Username: "fantome", AccessKey: "SuperCleSecrete12345678"})

	for _, err := range []error{errWrongKey, errUnknown} {
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	}
	if pkgerrors.As(errWrongKey).Message() != pkgerrors.As(errUnknown).Message() {
		t.Fatalf("login failures must not reveal whether the account exists")
	}
}

func TestLoadPrincipalFailsClosedWhenUserDeleted(t *testing.T) {
	repo := newStubUsersRepo()
	svc, _ := NewService(repo, testJWTConfig())

	_, err := svc.LoadPrincipal(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLoadPrincipalUsesFreshPermissions(t *testing.T) {
	repo := newStubUsersRepo()
	user := seedUser(t, repo, "sergio", "SuperCleSecrete12345678")
	svc, _ := NewService(repo, testJWTConfig())

	// Permissions edited after login must win over the token snapshot.
	user.Permissions = permissions.ReadOnly()

	principal, err := svc.LoadPrincipal(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("LoadPrincipal returned error: %v", err)
	}
	if allowed, _ := principal.Permissions.Allows(permissions.CategoryOrders, permissions.ActionValidate); allowed {
		t.Fatalf("principal must carry current permissions, not the login snapshot")
	}
}
