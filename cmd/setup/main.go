// Command setup provisions a Postgres database: it applies the embedded
// migrations and seeds default settings, the bootstrap admin and, with
// SEED_SAMPLE_DATA=true, sample units and students.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/config"
	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/persistence"
)

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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.Provision(ctx, pg.Pool, pg.Client(nil), *cfg, logger); err != nil {
		logger.Fatal("provisioning failed", zap.Error(err))
	}
	if err := persistence.CheckProvisioned(ctx, pg.Pool); err != nil {
		logger.Fatal("provisioning incomplete", zap.Error(err))
	}
	logger.Info("database provisioned")
}
