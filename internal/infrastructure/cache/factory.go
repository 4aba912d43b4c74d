package cache

import (
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore creates an idempotency store based on configuration.
// When Redis is enabled it is tried first; if the connection fails the
// store falls back to in-memory, which is fine for a single instance but
// does not share state across processes.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(cfg)
	if err == nil {
		logger.Info("using Redis idempotency store")
		return store, nil
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Checkout finalization may be duplicated across instances.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

// NewRequiredRedisStore creates a Redis store and fails hard if Redis is
// unavailable, for deployments where shared state is mandatory.
func NewRequiredRedisStore(cfg config.RedisConfig) (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}
	return store, nil
}
