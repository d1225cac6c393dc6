package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/enrollment-service/internal/domain"
)

// ErrSessionNotFound is returned for unknown, expired or revoked sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionRecord is what the registry keeps per issued token.
type SessionRecord struct {
	Kind      domain.SessionKind
	SubjectID string
}

// SessionRegistry tracks the tokens that are still valid.
type SessionRegistry interface {
	Register(ctx context.Context, tokenID string, rec SessionRecord, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (SessionRecord, error)
	Revoke(ctx context.Context, tokenID string) error
}

// RedisSessionRegistry stores sessions as expiring Redis hashes keyed by
// prefix + token id.
type RedisSessionRegistry struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionRegistry wraps a connected client.
func NewRedisSessionRegistry(client *redis.Client, prefix string) *RedisSessionRegistry {
	return &RedisSessionRegistry{client: client, prefix: prefix}
}

func (r *RedisSessionRegistry) Register(ctx context.Context, tokenID string, rec SessionRecord, ttl time.Duration) error {
	key := r.prefix + tokenID
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, "kind", string(rec.Kind), "subject", rec.SubjectID)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisSessionRegistry) Lookup(ctx context.Context, tokenID string) (SessionRecord, error) {
	vals, err := r.client.HGetAll(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return SessionRecord{}, err
	}
	if len(vals) == 0 {
		return SessionRecord{}, ErrSessionNotFound
	}
	return SessionRecord{Kind: domain.SessionKind(vals["kind"]), SubjectID: vals["subject"]}, nil
}

func (r *RedisSessionRegistry) Revoke(ctx context.Context, tokenID string) error {
	return r.client.Del(ctx, r.prefix+tokenID).Err()
}

// MemorySessionRegistry keeps sessions in process. It serves the memory
// backend where no Redis is configured.
type MemorySessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	rec     SessionRecord
	expires time.Time
}

// NewMemorySessionRegistry returns an empty registry.
func NewMemorySessionRegistry() *MemorySessionRegistry {
	return &MemorySessionRegistry{sessions: make(map[string]memorySession), now: time.Now}
}

func (r *MemorySessionRegistry) Register(_ context.Context, tokenID string, rec SessionRecord, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[tokenID] = memorySession{rec: rec, expires: r.now().Add(ttl)}
	return nil
}

func (r *MemorySessionRegistry) Lookup(_ context.Context, tokenID string) (SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tokenID]
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	if !r.now().Before(s.expires) {
		delete(r.sessions, tokenID)
		return SessionRecord{}, ErrSessionNotFound
	}
	return s.rec, nil
}

func (r *MemorySessionRegistry) Revoke(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenID)
	return nil
}
