package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/config"
)

const redisPingTimeout = 3 * time.Second

// Redis holds the client behind the HTTP session registry. Every key it
// hands out starts with the configured prefix so several deployments can
// share one database.
type Redis struct {
	Client *redis.Client
	prefix string
}

// NewRedis builds the client and probes it once. An unreachable server is
// logged, not fatal: logins fail until it recovers and readiness reports it.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	r := &Redis{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.KeyPrefix,
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		logger.Warn("redis unreachable; sessions unavailable", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return r
}

// Key namespaces name under the configured prefix.
func (r *Redis) Key(name string) string {
	return r.prefix + name
}

// SessionRegistry returns the token registry kept under the session:
// namespace.
func (r *Redis) SessionRegistry() *auth.RedisSessionRegistry {
	return auth.NewRedisSessionRegistry(r.Client, r.Key("session:"))
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
