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
	"go.uber.org/multierr"

	"github.com/oakmart/storefront-backend/api/routes"
	"github.com/oakmart/storefront-backend/internal/auth"
	"github.com/oakmart/storefront-backend/internal/cart"
	"github.com/oakmart/storefront-backend/internal/catalog"
	"github.com/oakmart/storefront-backend/internal/profiles"
	usersession "github.com/oakmart/storefront-backend/internal/session"
	"github.com/oakmart/storefront-backend/pkg/auth/session"
	"github.com/oakmart/storefront-backend/pkg/config"
	"github.com/oakmart/storefront-backend/pkg/db"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"github.com/oakmart/storefront-backend/pkg/metrics"
	"github.com/oakmart/storefront-backend/pkg/migrate"
	"github.com/oakmart/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	holder := usersession.NewHolder()

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(cart.NewRepository(dbClient.DB()), catalogService, holder, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		ProfileRepo:    profiles.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		SessionHolder:  holder,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	refreshMetrics := metrics.NewRefreshMetrics(registry)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the mirror before serving, then keep it fresh in the background.
	catalogService.Refresh(rootCtx)
	go runCatalogRefresher(rootCtx, cfg.Catalog.RefreshInterval, catalogService, refreshMetrics, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(rootCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:         cfg,
			Logger:         logg,
			DBPinger:       dbClient,
			RedisPinger:    redisClient,
			SessionChecker: sessionManager,
			AuthService:    authService,
			CatalogService: catalogService,
			CartManager:    cartManager,
			HTTPMetrics:    httpMetrics,
			Registry:       registry,
		}),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-rootCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}

	logg.Info(ctx, "shutdown complete")
}

func runCatalogRefresher(
	ctx context.Context,
	interval time.Duration,
	svc catalog.Service,
	refreshMetrics *metrics.RefreshMetrics,
	logg *logger.Logger,
) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			svc.Refresh(ctx)
			refreshMetrics.ObserveDuration("catalog", time.Since(start))
			refreshMetrics.IncSuccess("catalog")
			logg.Info(logg.WithField(ctx, "duration_ms", time.Since(start).Milliseconds()), "catalog mirror refreshed")
		}
	}
}
