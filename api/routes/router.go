package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/volcantech/elitevinewoodrs-sub000/api/controllers"
	"github.com/volcantech/elitevinewoodrs-sub000/api/middleware"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/announcements"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/auth"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/moderation"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/orders"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/users"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/vehicles"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/metrics"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Cfg         *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Auth          auth.Service
	Vehicles      vehicles.Service
	Orders        orders.Service
	Users         users.Service
	Moderation    moderation.Service
	Announcements announcements.Service
	Audit         audit.Service
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger, d.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Cfg))
		r.Get("/ready", controllers.HealthReady(d.Cfg, d.Logger, d.DB, redisPinger(d.Redis)))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/vehicles", controllers.CatalogVehicles(d.Vehicles, d.Logger))
		r.Get("/vehicles/{vehicleId}", controllers.CatalogVehicleDetail(d.Vehicles, d.Logger))
		r.Get("/categories", controllers.CatalogCategories(d.Vehicles, d.Logger))
		r.Get("/particularities", controllers.CatalogParticularities(d.Vehicles, d.Logger))
		r.Get("/announcement", controllers.CatalogAnnouncement(d.Announcements, d.Logger))
		r.Post("/orders", controllers.Checkout(d.Orders, d.Logger))
	})

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		d.Cfg.AuthRateLimit.LoginWindow,
		d.Cfg.AuthRateLimit.LoginIPLimit,
		d.Cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/api/admin/v1", func(r chi.Router) {
		if d.Redis != nil {
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, d.Logger)).
				Post("/auth/login", controllers.AuthLogin(d.Auth, d.Logger))
		} else {
			r.Post("/auth/login", controllers.AuthLogin(d.Auth, d.Logger))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Cfg.JWT, d.Auth, d.Logger))

			r.Get("/auth/me", controllers.AuthMe(d.Logger))

			r.Route("/vehicles", func(r chi.Router) {
				r.With(perm(permissions.CategoryVehicles, permissions.ActionView, d.Logger)).
					Get("/", controllers.CatalogVehicles(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionView, d.Logger)).
					Get("/{vehicleId}", controllers.CatalogVehicleDetail(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionCreate, d.Logger)).
					Post("/", controllers.AdminVehicleCreate(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionUpdate, d.Logger)).
					Patch("/{vehicleId}", controllers.AdminVehicleUpdate(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionDelete, d.Logger)).
					Delete("/{vehicleId}", controllers.AdminVehicleDelete(d.Vehicles, d.Logger))
			})

			r.Route("/categories", func(r chi.Router) {
				r.With(perm(permissions.CategoryVehicles, permissions.ActionView, d.Logger)).
					Get("/", controllers.CatalogCategories(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionCreate, d.Logger)).
					Post("/", controllers.AdminCategoryCreate(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionUpdate, d.Logger)).
					Patch("/{categoryId}", controllers.AdminCategoryUpdate(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionDelete, d.Logger)).
					Delete("/{categoryId}", controllers.AdminCategoryDelete(d.Vehicles, d.Logger))
			})

			r.Route("/particularities", func(r chi.Router) {
				r.With(perm(permissions.CategoryVehicles, permissions.ActionView, d.Logger)).
					Get("/", controllers.CatalogParticularities(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionCreate, d.Logger)).
					Post("/", controllers.AdminParticularityCreate(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionUpdate, d.Logger)).
					Patch("/{particularityId}", controllers.AdminParticularityUpdate(d.Vehicles, d.Logger))
				r.With(perm(permissions.CategoryVehicles, permissions.ActionDelete, d.Logger)).
					Delete("/{particularityId}", controllers.AdminParticularityDelete(d.Vehicles, d.Logger))
			})

			r.Route("/orders", func(r chi.Router) {
				r.With(perm(permissions.CategoryOrders, permissions.ActionView, d.Logger)).
					Get("/", controllers.AdminOrderList(d.Orders, d.Logger))
				r.With(perm(permissions.CategoryOrders, permissions.ActionView, d.Logger)).
					Get("/{orderId}", controllers.AdminOrderDetail(d.Orders, d.Logger))
				r.With(perm(permissions.CategoryOrders, permissions.ActionValidate, d.Logger)).
					Post("/{orderId}/deliver", controllers.AdminOrderDeliver(d.Orders, d.Logger))
				r.With(perm(permissions.CategoryOrders, permissions.ActionCancel, d.Logger)).
					Post("/{orderId}/cancel", controllers.AdminOrderCancel(d.Orders, d.Logger))
				r.With(perm(permissions.CategoryOrders, permissions.ActionDelete, d.Logger)).
					Delete("/{orderId}", controllers.AdminOrderDelete(d.Orders, d.Logger))
			})

			r.Route("/users", func(r chi.Router) {
				r.With(perm(permissions.CategoryUsers, permissions.ActionView, d.Logger)).
					Get("/", controllers.AdminUserList(d.Users, d.Logger))
				r.With(perm(permissions.CategoryUsers, permissions.ActionView, d.Logger)).
					Get("/{userId}", controllers.AdminUserDetail(d.Users, d.Logger))
				r.With(perm(permissions.CategoryUsers, permissions.ActionCreate, d.Logger)).
					Post("/", controllers.AdminUserCreate(d.Users, d.Logger))
				r.With(perm(permissions.CategoryUsers, permissions.ActionUpdate, d.Logger)).
					Patch("/{userId}", controllers.AdminUserUpdate(d.Users, d.Logger))
				r.With(perm(permissions.CategoryUsers, permissions.ActionUpdate, d.Logger)).
					Post("/{userId}/rotate-key", controllers.AdminUserRotateKey(d.Users, d.Logger))
				r.With(perm(permissions.CategoryUsers, permissions.ActionDelete, d.Logger)).
					Delete("/{userId}", controllers.AdminUserDelete(d.Users, d.Logger))
			})

			r.Route("/bans", func(r chi.Router) {
				r.With(perm(permissions.CategoryModeration, permissions.ActionView, d.Logger)).
					Get("/", controllers.AdminBanList(d.Moderation, d.Logger))
				r.With(perm(permissions.CategoryModeration, permissions.ActionBan, d.Logger)).
					Post("/", controllers.AdminBanCreate(d.Moderation, d.Logger))
				r.With(perm(permissions.CategoryModeration, permissions.ActionUnban, d.Logger)).
					Delete("/{uniqueId}", controllers.AdminBanDelete(d.Moderation, d.Logger))
			})

			r.Route("/announcement", func(r chi.Router) {
				r.With(perm(permissions.CategoryAnnouncements, permissions.ActionView, d.Logger)).
					Get("/", controllers.AdminAnnouncementGet(d.Announcements, d.Logger))
				r.With(perm(permissions.CategoryAnnouncements, permissions.ActionUpdate, d.Logger)).
					Put("/", controllers.AdminAnnouncementReplace(d.Announcements, d.Logger))
			})

			r.With(perm(permissions.CategoryLogs, permissions.ActionView, d.Logger)).
				Get("/activity-logs", controllers.AdminActivityLogs(d.Audit, d.Logger))
		})
	})

	return r
}

func perm(category permissions.Category, action permissions.Action, logg *logger.Logger) func(http.Handler) http.Handler {
	return middleware.RequirePermission(category, action, logg)
}

// redisPinger keeps the typed nil out of the readiness probe's interface slot.
func redisPinger(c *redis.Client) controllers.Pinger {
	if c == nil {
		return nil
	}
	return c
}
