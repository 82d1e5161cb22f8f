package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/announcements"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/auth"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/orders"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/users"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/vehicles"
	pkgauth "github.com/volcantech/elitevinewoodrs-sub000/pkg/auth"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
)

var routerTestJWT = config.JWTConfig{
	Secret:            "router-test-secret",
	Issuer:            "elitevinewoodrs-test",
	ExpirationMinutes: 60,
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct {
	perms permissions.Set
}

func (s stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "🚫 Identifiants invalides")
}

func (s stubAuthService) LoadPrincipal(ctx context.Context, userID uuid.UUID) (*auth.Principal, error) {
	return &auth.Principal{
		UserID:      userID,
		Username:    "marcus",
		Permissions: s.perms,
	}, nil
}

type stubVehiclesService struct{}

func (stubVehiclesService) ListVehicles(ctx context.Context, filters vehicles.CatalogFilters) ([]models.Vehicle, error) {
	return []models.Vehicle{{ID: uuid.New(), Name: "Sultan RS", Category: "Sport", Price: decimal.NewFromInt(150000)}}, nil
}

func (stubVehiclesService) GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Véhicule introuvable")
}

func (stubVehiclesService) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vehicle, error) {
	return nil, nil
}

func (stubVehiclesService) CreateVehicle(ctx context.Context, actor audit.Actor, input vehicles.VehicleInput) (*models.Vehicle, error) {
	return &models.Vehicle{ID: uuid.New(), Name: input.Name}, nil
}

func (stubVehiclesService) UpdateVehicle(ctx context.Context, actor audit.Actor, id uuid.UUID, input vehicles.VehicleUpdate) (*models.Vehicle, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Véhicule introuvable")
}

func (stubVehiclesService) DeleteVehicle(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return nil
}

func (stubVehiclesService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

func (stubVehiclesService) CreateCategory(ctx context.Context, actor audit.Actor, input vehicles.CategoryInput) (*models.Category, error) {
	return &models.Category{ID: uuid.New(), Name: input.Name}, nil
}

func (stubVehiclesService) UpdateCategory(ctx context.Context, actor audit.Actor, id uuid.UUID, input vehicles.CategoryInput) (*models.Category, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Catégorie introuvable")
}

func (stubVehiclesService) DeleteCategory(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return nil
}

func (stubVehiclesService) ListParticularities(ctx context.Context) ([]models.Particularity, error) {
	return nil, nil
}

func (stubVehiclesService) CreateParticularity(ctx context.Context, actor audit.Actor, input vehicles.ParticularityInput) (*models.Particularity, error) {
	return &models.Particularity{ID: uuid.New(), Label: input.Label}, nil
}

func (stubVehiclesService) UpdateParticularity(ctx context.Context, actor audit.Actor, id uuid.UUID, input vehicles.ParticularityInput) (*models.Particularity, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Particularité introuvable")
}

func (stubVehiclesService) DeleteParticularity(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Checkout(ctx context.Context, input orders.CheckoutInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}, nil
}

func (stubOrdersService) List(ctx context.Context, params orders.ListParams) (*orders.ListResult, error) {
	return &orders.ListResult{}, nil
}

func (stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Commande introuvable")
}

func (stubOrdersService) Deliver(ctx context.Context, actor audit.Actor, id uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: id, Status: enums.OrderStatusDelivered}, nil
}

func (stubOrdersService) Cancel(ctx context.Context, actor audit.Actor, id uuid.UUID, reason string) (*models.Order, error) {
	return &models.Order{ID: id, Status: enums.OrderStatusCancelled}, nil
}

func (stubOrdersService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) List(ctx context.Context) ([]models.AdminUser, error) { return nil, nil }

func (stubUsersService) Get(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Utilisateur introuvable")
}

func (stubUsersService) Create(ctx context.Context, actor audit.Actor, input users.CreateUserInput) (*users.CreateResult, error) {
	return &users.CreateResult{User: &models.AdminUser{ID: uuid.New(), Username: input.Username}, AccessKey: "k"}, nil
}

func (stubUsersService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input users.UpdateUserInput) (*models.AdminUser, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "🚫 Utilisateur introuvable")
}

func (stubUsersService) RotateAccessKey(ctx context.Context, actor audit.Actor, id uuid.UUID) (string, error) {
	return "k", nil
}

func (stubUsersService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return nil
}

type stubModerationService struct{}

func (stubModerationService) IsBanned(ctx context.Context, uniqueID string) (bool, error) {
	return false, nil
}

func (stubModerationService) List(ctx context.Context) ([]models.BannedUniqueID, error) {
	return nil, nil
}

func (stubModerationService) Ban(ctx context.Context, actor audit.Actor, uniqueID, reason string) (*models.BannedUniqueID, error) {
	return &models.BannedUniqueID{ID: uuid.New(), UniqueID: uniqueID}, nil
}

func (stubModerationService) Unban(ctx context.Context, actor audit.Actor, uniqueID string) error {
	return nil
}

type stubAnnouncementsService struct{}

func (stubAnnouncementsService) Get(ctx context.Context) (*models.Announcement, error) {
	return nil, nil
}

func (stubAnnouncementsService) Replace(ctx context.Context, actor audit.Actor, input announcements.UpdateInput) (*models.Announcement, error) {
	return &models.Announcement{ID: uuid.New(), Content: input.Content, Active: input.Active}, nil
}

type stubAuditService struct{}

func (stubAuditService) Record(ctx context.Context, entry audit.Entry) error { return nil }

func (stubAuditService) LogChange(ctx context.Context, entry audit.Entry) {}

func (stubAuditService) List(ctx context.Context, params audit.ListParams) (*audit.ListResult, error) {
	return &audit.ListResult{}, nil
}

func newTestRouter(perms permissions.Set) http.Handler {
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: routerTestJWT,
	}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	return NewRouter(Deps{
		Cfg:           cfg,
		Logger:        logg,
		DB:            stubPinger{},
		Auth:          stubAuthService{perms: perms},
		Vehicles:      stubVehiclesService{},
		Orders:        stubOrdersService{},
		Users:         stubUsersService{},
		Moderation:    stubModerationService{},
		Announcements: stubAnnouncementsService{},
		Audit:         stubAuditService{},
	})
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(routerTestJWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "marcus",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestRouterPublicCatalog(t *testing.T) {
	t.Parallel()

	router := newTestRouter(permissions.Full())
	req := httptest.NewRequest(http.MethodGet, "/api/public/vehicles", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Sultan RS") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestRouterPublicCheckout(t *testing.T) {
	t.Parallel()

	router := newTestRouter(permissions.Full())
	body := `{"first_name":"Jean","last_name":"Dupont","phone":"0601020304","unique_id":"12345","items":[{"vehicle_id":"` + uuid.NewString() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/public/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterAdminRequiresToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(permissions.Full())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterAdminOrdersWithToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(permissions.Full())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterReadOnlyCannotDeliver(t *testing.T) {
	t.Parallel()

	router := newTestRouter(permissions.ReadOnly())
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+uuid.NewString()+"/deliver", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterReadOnlyCanView(t *testing.T) {
	t.Parallel()

	router := newTestRouter(permissions.ReadOnly())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/activity-logs", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterHealthLive(t *testing.T) {
	t.Parallel()

	router := newTestRouter(permissions.Full())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-EVRS-Env") != "test" {
		t.Fatalf("missing env header")
	}
}

func TestRouterHealthReady(t *testing.T) {
	t.Parallel()

	router := newTestRouter(permissions.Full())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
