// Package cache stores computed plan sets keyed by unit price.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/payment-plans/pkg/constants"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON-encodable values with an expiration.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Close() error
}

// Key is the cache key of the plan set for a unit price.
func Key(price int64) string {
	return fmt.Sprintf("%s%d", constants.CacheKeyPrefix, price)
}

// GetOrSet returns the cached value for key, or calls fn and caches its
// result. Cache read and write failures are logged and fall through to fn.
func GetOrSet[T any](ctx context.Context, logger *zap.Logger, c Cache, key string, expiration time.Duration, fn func() (T, error)) (T, bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var result T
	err := c.Get(ctx, key, &result)
	if err == nil {
		return result, true, nil
	}
	if !errors.Is(err, ErrMiss) {
		logger.Warn("cache read failed",
			zap.String("op", "cache.GetOrSet"),
			zap.String("key", key),
			zap.Error(err),
		)
	}

	result, err = fn()
	if err != nil {
		return result, false, err
	}

	if err := c.Set(ctx, key, result, expiration); err != nil {
		logger.Warn("cache write failed",
			zap.String("op", "cache.GetOrSet"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return result, false, nil
}
