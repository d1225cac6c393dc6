package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/config"
	"github.com/spec-kit/enrollment-service/internal/events"
	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

// ErrNoDSN is returned when the postgres backend is selected without a DSN.
var ErrNoDSN = errors.New("POSTGRES_DSN is required for the postgres backend")

// Postgres is the remote store connection: a pgx pool for queries plus the
// DSN and channel the change listener needs for its own connection.
type Postgres struct {
	Pool    *pgxpool.Pool
	dsn     string
	channel string
}

// NewPostgres opens and pings the pool.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	applyPoolConfig(poolCfg, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	channel := cfg.NotifyChannel
	if channel == "" {
		channel = DefaultNotifyChannel
	}
	logger.Info("connected to postgres",
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.String("notify_channel", channel))
	return &Postgres{Pool: pool, dsn: cfg.DSN, channel: channel}, nil
}

func applyPoolConfig(poolCfg *pgxpool.Config, cfg config.PostgresConfig) {
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}
	if cfg.AppName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
}

// Client returns the repositories bound to the pool.
func (p *Postgres) Client(metrics *observability.Metrics) *repository.Client {
	return repository.NewClient(p.Pool, metrics)
}

// Prepare checks the schema and migrates or provisions it per cfg.
func (p *Postgres) Prepare(ctx context.Context, client *repository.Client, cfg config.Config, logger *zap.Logger) error {
	cfg.Postgres.NotifyChannel = p.channel
	return Prepare(ctx, p.Pool, client, cfg, logger)
}

// Listener returns a change listener on a dedicated connection to the same
// database. Its notifications are published to dispatcher.
func (p *Postgres) Listener(dispatcher events.Dispatcher, logger *zap.Logger) *events.Listener {
	return events.NewListener(p.dsn, p.channel, dispatcher, logger)
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Ping verifies Postgres connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}
