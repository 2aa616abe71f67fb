package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/storeops-app/admin-backend/api/controllers"
	"github.com/storeops-app/admin-backend/api/routes"
	"github.com/storeops-app/admin-backend/internal/grants"
	"github.com/storeops-app/admin-backend/internal/profiles"
	"github.com/storeops-app/admin-backend/internal/provisioning"
	"github.com/storeops-app/admin-backend/internal/stores"
	"github.com/storeops-app/admin-backend/pkg/config"
	"github.com/storeops-app/admin-backend/pkg/db"
	"github.com/storeops-app/admin-backend/pkg/identity"
	"github.com/storeops-app/admin-backend/pkg/logger"
	"github.com/storeops-app/admin-backend/pkg/metrics"
	"github.com/storeops-app/admin-backend/pkg/migrate"
	"github.com/storeops-app/admin-backend/pkg/redis"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "storeops-admin-backend",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "service exited with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	directory, err := identity.NewClient(cfg.Identity)
	if err != nil {
		return err
	}

	provMetrics := metrics.NewProvisioningMetrics(prometheus.DefaultRegisterer)

	profileRepo, err := profiles.NewRepo(dbClient.DB())
	if err != nil {
		return err
	}
	storeRepo, err := stores.NewRepo(dbClient.DB())
	if err != nil {
		return err
	}
	grantRepo, err := grants.NewRepo(dbClient.DB())
	if err != nil {
		return err
	}

	profileService, err := profiles.NewService(profileRepo, logg)
	if err != nil {
		return err
	}
	storeService, err := stores.NewService(storeRepo, logg)
	if err != nil {
		return err
	}
	grantService, err := grants.NewService(grantRepo, storeRepo, profileRepo, logg)
	if err != nil {
		return err
	}
	provisioningService, err := provisioning.NewService(directory, profileRepo, cfg.Provisioning, provMetrics, logg)
	if err != nil {
		return err
	}

	router := routes.New(routes.Dependencies{
		Logger:       logg,
		JWT:          cfg.JWT,
		Profiles:     profileRepo,
		Idempotency:  redisClient,
		Health:       controllers.NewHealthController(dbClient, redisClient, logg),
		Provisioning: controllers.NewProvisioningController(provisioningService, logg),
		ProfilesCtrl: controllers.NewProfilesController(profileService, logg),
		StoresCtrl:   controllers.NewStoresController(storeService, logg),
		GrantsCtrl:   controllers.NewGrantsController(grantService, logg),
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
