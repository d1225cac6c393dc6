package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/enrollment-service/internal/api/http"
	"github.com/spec-kit/enrollment-service/internal/api/http/handlers"
	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/config"
	"github.com/spec-kit/enrollment-service/internal/events"
	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/persistence"
	"github.com/spec-kit/enrollment-service/internal/repository"
	"github.com/spec-kit/enrollment-service/internal/repository/inmem"
	"github.com/spec-kit/enrollment-service/internal/service"
	"github.com/spec-kit/enrollment-service/internal/store"
	"github.com/spec-kit/enrollment-service/internal/worker"
)

const coalesceWindow = 2 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics("enrollment")
	dispatcher := events.NewInMemoryDispatcher()
	pingers := map[string]handlers.Pinger{}

	var (
		client   *repository.Client
		registry auth.SessionRegistry
	)
	switch cfg.Store.Backend {
	case "memory":
		client = inmem.New().Client()
		registry = auth.NewMemorySessionRegistry()
		if err := persistence.NewSeeder(client, cfg.Seed, cfg.Auth.BcryptCost, logger).Seed(ctx); err != nil {
			logger.Fatal("failed to seed memory store", zap.Error(err))
		}
		logger.Warn("using in-memory store; data is lost on exit")

	default:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		client = pg.Client(metrics)
		if err := pg.Prepare(ctx, client, *cfg, logger); err != nil {
			logger.Fatal("database not ready", zap.Error(err))
		}

		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		registry = redis.SessionRegistry()
		pingers["postgres"] = pg
		pingers["redis"] = redis

		listener := pg.Listener(dispatcher, logger)
		go func() {
			if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("change listener stopped", zap.Error(err))
			}
		}()
	}

	defaultStudentHash := ""
	if cfg.Auth.DefaultStudentSecret != "" {
		defaultStudentHash, err = auth.HashPassword(cfg.Auth.DefaultStudentSecret, cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("failed to hash default student secret", zap.Error(err))
		}
	}
	authenticator := auth.NewAuthenticator(client.Admins, client.Persons, defaultStudentHash, logger)

	st := store.New(store.Deps{
		Remote:     client,
		Verifier:   authenticator,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	}, store.WithRemoteTimeout(cfg.Store.RemoteTimeout()))
	st.LoadAll(ctx)

	worker.StartChangeLog(service.NewChangeLogService(dispatcher, logger))
	coalescer := worker.NewChangeCoalescer(dispatcher, st, coalesceWindow, logger)
	go coalescer.Run(ctx)

	scheduler := worker.NewRefreshScheduler(st, cfg.Store.RefreshSpec, cfg.Store.RemoteTimeout(), logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start refresh scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Authenticator: authenticator,
		Tokens:        tokens,
		Registry:      registry,
		AdminRepo:     client.Admins,
		PersonRepo:    client.Persons,
		Logger:        logger,
	})
	staffService := service.NewStaffService(*cfg, service.StaffDependencies{
		AdminRepo: client.Admins,
		StaffRepo: client.Staff,
		UnitRepo:  client.Units,
	})
	enrollmentService := service.NewEnrollmentService(st)
	certificateService := service.NewCertificateService(client.Certificates, st, logger)
	settingsService := service.NewSettingsService(client.Settings, client.Stats)

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, st, pingers),
		Auth:           handlers.NewAuthHandler(authService, st),
		Persons:        handlers.NewPersonsHandler(enrollmentService),
		Units:          handlers.NewUnitsHandler(enrollmentService),
		Enrollments:    handlers.NewEnrollmentsHandler(enrollmentService),
		Certificates:   handlers.NewCertificatesHandler(certificateService),
		Staff:          handlers.NewStaffHandler(staffService),
		Settings:       handlers.NewSettingsHandler(settingsService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, registry, authenticator),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.ShutdownWithTimeout(10 * time.Second)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
