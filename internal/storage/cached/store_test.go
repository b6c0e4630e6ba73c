package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/kcal/internal/storage"
	"github.com/zjrosen/kcal/internal/storage/memory"
	"github.com/zjrosen/kcal/internal/testutil"
)

// countingStore records Get calls and can be told to fail Put.
type countingStore struct {
	*memory.Store
	gets   int
	putErr error
}

func (c *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	c.gets++
	return c.Store.Get(ctx, key)
}

func (c *countingStore) Put(ctx context.Context, key string, value []byte) error {
	if c.putErr != nil {
		return c.putErr
	}
	return c.Store.Put(ctx, key, value)
}

func TestStore_Contract(t *testing.T) {
	testutil.RunStoreContract(t, func(t *testing.T) storage.Store {
		return New(memory.New(), time.Minute)
	})
}

func TestStore_GetIsReadThrough(t *testing.T) {
	inner := &countingStore{Store: memory.New()}
	require.NoError(t, inner.Store.Put(context.Background(), "items", []byte("[]")))
	s := New(inner, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := s.Get(context.Background(), "items")
		require.NoError(t, err)
		require.Equal(t, []byte("[]"), got)
	}
	require.Equal(t, 1, inner.gets)
}

func TestStore_NotFoundIsNotCached(t *testing.T) {
	inner := &countingStore{Store: memory.New()}
	s := New(inner, time.Minute)
	ctx := context.Background()

	_, err := s.Get(ctx, "items")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, inner.Store.Put(ctx, "items", []byte("[1]")))
	got, err := s.Get(ctx, "items")
	require.NoError(t, err)
	require.Equal(t, []byte("[1]"), got)
	require.Equal(t, 2, inner.gets)
}

func TestStore_PutWritesThrough(t *testing.T) {
	inner := &countingStore{Store: memory.New()}
	s := New(inner, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "items", []byte("[2]")))

	got, err := s.Get(ctx, "items")
	require.NoError(t, err)
	require.Equal(t, []byte("[2]"), got)
	require.Equal(t, 0, inner.gets, "put primes the cache")

	stored, err := inner.Store.Get(ctx, "items")
	require.NoError(t, err)
	require.Equal(t, []byte("[2]"), stored)
}

func TestStore_FailedPutInvalidates(t *testing.T) {
	inner := &countingStore{Store: memory.New()}
	s := New(inner, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "items", []byte("old")))
	inner.putErr = errors.New("disk full")
	require.EqualError(t, s.Put(ctx, "items", []byte("new")), "disk full")

	got, err := s.Get(ctx, "items")
	require.NoError(t, err)
	require.Equal(t, []byte("old"), got)
	require.Equal(t, 1, inner.gets)
}
