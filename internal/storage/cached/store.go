// Package cached wraps a storage.Store with an in-process read-through cache.
package cached

import (
	"context"
	"time"

	"github.com/zjrosen/kcal/internal/cachemanager"
	"github.com/zjrosen/kcal/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store answers Get from the cache when it can. Put writes through and
// refreshes the cached copy; Delete invalidates it. Misses that end in
// storage.ErrNotFound are not cached.
type Store struct {
	inner storage.Store
	reads *cachemanager.ReadThroughCache[string, []byte]
	ttl   time.Duration
}

// New wraps inner. Entries live for ttl.
func New(inner storage.Store, ttl time.Duration) *Store {
	cache := cachemanager.NewInMemoryCacheManager[string, []byte]("snapshots", ttl, cachemanager.DefaultCleanupInterval)
	return &Store{
		inner: inner,
		reads: cachemanager.NewReadThroughCache[string, []byte](cache, inner.Get),
		ttl:   ttl,
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.reads.Get(ctx, key, s.ttl)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), value...), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.inner.Put(ctx, key, value); err != nil {
		_ = s.reads.Invalidate(ctx, key)
		return err
	}
	s.reads.Prime(ctx, key, append([]byte(nil), value...), s.ttl)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_ = s.reads.Invalidate(ctx, key)
	return s.inner.Delete(ctx, key)
}

func (s *Store) Close() error {
	return s.inner.Close()
}
