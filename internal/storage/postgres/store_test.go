package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/kcal/internal/storage"
	"github.com/zjrosen/kcal/internal/testutil"
)

const dsnEnv = "KCAL_TEST_POSTGRES_DSN"

func TestStore_Contract(t *testing.T) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}

	testutil.RunStoreContract(t, func(t *testing.T) storage.Store {
		s, err := NewStore(context.Background(), dsn)
		require.NoError(t, err)
		_, err = s.DB().Exec(`TRUNCATE kv_state`)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestNewStore_OpenError(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })

	sqlOpen = func(string, string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}

	_, err := NewStore(context.Background(), "")
	require.ErrorContains(t, err, "open postgres")
}

func TestNewStore_PingError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(ctx, "postgres://127.0.0.1:1/kcal?sslmode=disable&connect_timeout=1")
	require.ErrorContains(t, err, "ping postgres")
}
