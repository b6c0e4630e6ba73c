package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/kcal/internal/storage"
)

// RunStoreContract exercises the storage.Store contract against a fresh
// store from newStore for each subtest.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "absent")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "items", []byte(`[{"id":0}]`)))

		got, err := s.Get(ctx, "items")
		require.NoError(t, err)
		require.Equal(t, []byte(`[{"id":0}]`), got)
	})

	t.Run("put overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "items", []byte("first")))
		require.NoError(t, s.Put(ctx, "items", []byte("second")))

		got, err := s.Get(ctx, "items")
		require.NoError(t, err)
		require.Equal(t, []byte("second"), got)
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "a", []byte("1")))
		require.NoError(t, s.Put(ctx, "b", []byte("2")))
		require.NoError(t, s.Delete(ctx, "a"))

		got, err := s.Get(ctx, "b")
		require.NoError(t, err)
		require.Equal(t, []byte("2"), got)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "items", []byte("x")))
		require.NoError(t, s.Delete(ctx, "items"))

		_, err := s.Get(ctx, "items")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete missing key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Delete(ctx, "absent"))
	})

	t.Run("returned bytes are not aliased", func(t *testing.T) {
		s := newStore(t)
		value := []byte("abc")
		require.NoError(t, s.Put(ctx, "items", value))
		value[0] = 'z'

		got, err := s.Get(ctx, "items")
		require.NoError(t, err)
		require.Equal(t, []byte("abc"), got)

		got[1] = 'z'
		again, err := s.Get(ctx, "items")
		require.NoError(t, err)
		require.Equal(t, []byte("abc"), again)
	})

	t.Run("concurrent puts", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- s.Put(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		for i := 0; i < 8; i++ {
			got, err := s.Get(ctx, fmt.Sprintf("k%d", i))
			require.NoError(t, err)
			require.Equal(t, []byte{byte(i)}, got)
		}
	})
}
