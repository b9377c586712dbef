// Package cache defines the port interface for the page/content cache.
//
// Keys are always prefixed with the tenant's dataset identifier so entries
// for different tenants can never collide.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key builds a dataset-scoped cache key.
func Key(dataset string, parts ...string) string {
	key := dataset
	for _, p := range parts {
		key += ":" + p
	}
	return key
}
