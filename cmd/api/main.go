package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/volcantech/elitevinewoodrs-sub000/api/routes"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/announcements"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/auth"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/moderation"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/notify"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/orders"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/users"
	"github.com/volcantech/elitevinewoodrs-sub000/internal/vehicles"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/metrics"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/migrate"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/redis"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/security"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, login rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	vehiclesRepo := vehicles.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	moderationRepo := moderation.NewRepository(dbClient.DB())
	announcementsRepo := announcements.NewRepository(dbClient.DB())
	auditRepo := audit.NewRepository(dbClient.DB())

	auditService, err := audit.NewService(auditRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}
	authService, err := auth.NewService(usersRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	vehiclesService, err := vehicles.NewService(vehiclesRepo, auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	moderationService, err := moderation.NewService(moderationRepo, auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create moderation service", err)
		os.Exit(1)
	}
	announcementsService, err := announcements.NewService(announcementsRepo, dbClient, auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create announcements service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(usersRepo, dbClient, auditService, cfg.AccessKey)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	notifier := notify.NewService(cfg.Webhooks, logg, webhookMetrics)
	if !notifier.Enabled() {
		logg.Warn(context.Background(), "no webhook url configured, order notifications disabled")
	}

	ordersService, err := orders.NewService(ordersRepo, vehiclesService, moderationService, dbClient, auditService, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	if err := seedFirstAdmin(context.Background(), logg, usersRepo, cfg.AccessKey); err != nil {
		logg.Error(context.Background(), "failed to seed initial admin account", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Cfg:           cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Registry:      registry,
			HTTPMetrics:   httpMetrics,
			Auth:          authService,
			Vehicles:      vehiclesService,
			Orders:        ordersService,
			Users:         usersService,
			Moderation:    moderationService,
			Announcements: announcementsService,
			Audit:         auditService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
		notifier.Wait()
	}
}

// seedFirstAdmin provisions a full-access account when the users table is
// empty, logging the plaintext key once. Without it a fresh deployment has no
// way to log in.
func seedFirstAdmin(ctx context.Context, logg *logger.Logger, repo users.Repository, keyCfg config.AccessKeyConfig) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	accessKey, err := security.GenerateAccessKey(users.AccessKeyLength)
	if err != nil {
		return err
	}
	hash, err := security.HashAccessKey(accessKey, keyCfg)
	if err != nil {
		return err
	}

	admin := &models.AdminUser{
		Username:      "admin",
		AccessKeyHash: hash,
		Permissions:   permissions.Full(),
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"username":   admin.Username,
		"access_key": accessKey,
	})
	logg.Warn(ctx, "seeded initial admin account, store this key now, it will not be shown again")
	return nil
}
