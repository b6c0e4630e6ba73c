package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache answers Get from the cache and falls back to load on a
// miss. Every hit restarts the entry's TTL, so a value that keeps being read
// stays cached. Errors from load are never cached.
type ReadThroughCache[K comparable, V any] struct {
	cache CacheManager[K, V]
	load  func(ctx context.Context, key K) (V, error)
}

// NewReadThroughCache fills cache from load.
func NewReadThroughCache[K comparable, V any](
	cache CacheManager[K, V],
	load func(ctx context.Context, key K) (V, error),
) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{
		cache: cache,
		load:  load,
	}
}

func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K, ttl time.Duration) (V, error) {
	if value, ok := r.cache.GetWithRefresh(ctx, key, ttl); ok {
		return value, nil
	}

	value, err := r.load(ctx, key)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Prime stores value without calling load, for write-through callers.
func (r *ReadThroughCache[K, V]) Prime(ctx context.Context, key K, value V, ttl time.Duration) {
	r.cache.Set(ctx, key, value, ttl)
}

// Invalidate drops key so the next Get reloads it.
func (r *ReadThroughCache[K, V]) Invalidate(ctx context.Context, key K) error {
	return r.cache.Delete(ctx, key)
}
