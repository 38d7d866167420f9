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

	"github.com/foguel/delivery-backend/api/controllers"
	"github.com/foguel/delivery-backend/api/routes"
	"github.com/foguel/delivery-backend/internal/activity"
	"github.com/foguel/delivery-backend/internal/auth"
	"github.com/foguel/delivery-backend/internal/clients"
	"github.com/foguel/delivery-backend/internal/collaborators"
	"github.com/foguel/delivery-backend/internal/deliveries"
	"github.com/foguel/delivery-backend/internal/products"
	routesvc "github.com/foguel/delivery-backend/internal/routes"
	"github.com/foguel/delivery-backend/pkg/auth/session"
	"github.com/foguel/delivery-backend/pkg/config"
	"github.com/foguel/delivery-backend/pkg/db"
	"github.com/foguel/delivery-backend/pkg/instance"
	"github.com/foguel/delivery-backend/pkg/logger"
	"github.com/foguel/delivery-backend/pkg/metrics"
	"github.com/foguel/delivery-backend/pkg/migrate"
	"github.com/foguel/delivery-backend/pkg/outbox"
	"github.com/foguel/delivery-backend/pkg/redis"
	"github.com/foguel/delivery-backend/pkg/security"
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
		Format:      cfg.App.LogFormat,
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	cipher, err := security.NewAccessCodeCipher(cfg.Crypto)
	if err != nil {
		logg.Error(context.Background(), "failed to create access code cipher", err)
		os.Exit(1)
	}

	services, err := buildServices(cfg, logg, dbClient, sessionManager, cipher)
	if err != nil {
		logg.Error(context.Background(), "failed to create services", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID("api"),
	})

	handler := routes.NewRouter(cfg, logg, routes.Infra{
		Sessions:    sessionManager,
		RateLimiter: redisClient,
		Pingers: map[string]controllers.Pinger{
			"db":    dbClient,
			"redis": redisClient,
		},
		HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Gatherer:    prometheus.DefaultGatherer,
	}, services)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager, cipher *security.AccessCodeCipher) (routes.Services, error) {
	conn := dbClient.DB()
	loc := cfg.App.Location()
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)

	collaboratorRepo := collaborators.NewRepository(conn)
	clientRepo := clients.NewRepository(conn)

	collaboratorSvc, err := collaborators.NewService(collaboratorRepo, dbClient, cipher)
	if err != nil {
		return routes.Services{}, err
	}
	clientSvc, err := clients.NewService(clientRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	productSvc, err := products.NewService(products.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	routeSvc, err := routesvc.NewService(routesvc.ServiceParams{
		Repository: routesvc.NewRepository(conn),
		DB:         dbClient,
		Outbox:     emitter,
		Location:   loc,
	})
	if err != nil {
		return routes.Services{}, err
	}
	deliverySvc, err := deliveries.NewService(deliveries.ServiceParams{
		Repository: deliveries.NewRepository(conn),
		DB:         dbClient,
		Outbox:     emitter,
		Location:   loc,
	})
	if err != nil {
		return routes.Services{}, err
	}
	activitySvc, err := activity.NewService(activity.ServiceParams{
		Repository:    activity.NewRepository(conn),
		Collaborators: collaboratorRepo,
		Clients:       clientRepo,
		Logger:        logg,
		Location:      loc,
		FeedLimit:     cfg.Activity.FeedLimit,
	})
	if err != nil {
		return routes.Services{}, err
	}
	authSvc, err := auth.NewService(auth.ServiceParams{
		Collaborators:  collaboratorRepo,
		SessionManager: sessions,
		Cipher:         cipher,
		JWTConfig:      cfg.JWT,
		Admin:          cfg.Admin,
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authSvc,
		Collaborators: collaboratorSvc,
		Clients:       clientSvc,
		Products:      productSvc,
		Routes:        routeSvc,
		Deliveries:    deliverySvc,
		Activity:      activitySvc,
	}, nil
}
