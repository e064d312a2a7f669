// Package cache provides the read-through response cache. Cached entries
// are never authoritative: any store failure degrades to loading from the
// source, and a missed invalidation only means staleness until the TTL runs
// out.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is the backing key-value store for cached responses.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key builds a cache key scoped to a user and route. userID 0 means an
// unauthenticated read.
func Key(userID uint, route string) string {
	if userID == 0 {
		return route
	}
	return fmt.Sprintf("%d:%s", userID, route)
}
