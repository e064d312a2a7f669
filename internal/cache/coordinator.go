package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Coordinator wraps a Store with read-through and prefix invalidation
// semantics. Store failures are logged and absorbed: a broken cache means
// every read hits the loader, never an error to the caller.
type Coordinator struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCoordinator creates a Coordinator with the given default TTL.
func NewCoordinator(store Store, ttl time.Duration, logger *zap.Logger) *Coordinator {
	return &Coordinator{store: store, ttl: ttl, logger: logger}
}

// TTL returns the default entry lifetime.
func (c *Coordinator) TTL() time.Duration {
	return c.ttl
}

// ReadThrough returns the cached value for key, or invokes loader, stores
// its result under key for ttl, and returns it. The boolean reports a cache
// hit. Loader errors pass through; store errors do not.
func (c *Coordinator) ReadThrough(ctx context.Context, key string, ttl time.Duration, loader func() ([]byte, error)) ([]byte, bool, error) {
	if value, ok := c.Lookup(ctx, key); ok {
		return value, true, nil
	}
	value, err := loader()
	if err != nil {
		return nil, false, err
	}
	c.Put(ctx, key, value, ttl)
	return value, false, nil
}

// Lookup fetches key from the store, treating store failure as a miss.
func (c *Coordinator) Lookup(ctx context.Context, key string) ([]byte, bool) {
	value, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, ok
}

// Put stores a value best-effort.
func (c *Coordinator) Put(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every key under prefix. Best-effort: a failure leaves
// stale entries to age out through the TTL and never propagates to the
// mutation that requested it.
func (c *Coordinator) Invalidate(ctx context.Context, prefix string) {
	if err := c.store.DeletePrefix(ctx, prefix); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}
