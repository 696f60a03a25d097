package cache

import (
	"fmt"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory creates idempotency stores based on configuration
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based idempotency store
func (f *IdempotencyStoreFactory) CreateRedisStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis idempotency store: %w", err)
	}

	return store, nil
}

// CreateInMemoryStore creates an in-memory idempotency store.
// In-memory stores do not share state across instances, so a retried
// disposition may hit the slower repository lookup path in distributed
// deployments.
func (f *IdempotencyStoreFactory) CreateInMemoryStore() shared.IdempotencyStore {
	return NewInMemoryIdempotencyStore()
}

// CreateStore creates an idempotency store, preferring Redis and falling
// back to in-memory when Redis is unavailable and fallback is allowed.
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
