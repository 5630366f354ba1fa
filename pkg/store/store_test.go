package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formguard/pkg/store"
)

// exerciseStore checks the contract every backend shares.
func exerciseStore(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := st.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, st.Set(ctx, "registeredUsers", `[{"email":"a@x.com"}]`))
	value, found, err := st.Get(ctx, "registeredUsers")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"email":"a@x.com"}]`, value)

	require.NoError(t, st.Set(ctx, "registeredUsers", `[]`))
	value, _, err = st.Get(ctx, "registeredUsers")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	require.NoError(t, st.Set(ctx, "empty", ""))
	value, found, err = st.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, found, "empty values are still present")
	assert.Equal(t, "", value)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, store.NewMemory())
}

func TestCacheStore(t *testing.T) {
	st := store.NewCache()
	exerciseStore(t, st)

	st.Flush()
	_, found, err := st.Get(context.Background(), "registeredUsers")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheStoreFromRegistryKeepsUsers(t *testing.T) {
	ctx := context.Background()
	st, err := store.DefaultRegistry().Open(ctx, store.BackendCache, store.Options{})
	require.NoError(t, err)
	require.IsType(t, &store.Cache{}, st)

	require.NoError(t, st.Set(ctx, "registeredUsers", `[{"email":"a@x.com"}]`))
	value, found, err := st.Get(ctx, "registeredUsers")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"email":"a@x.com"}]`, value)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "users.json")
	st, err := store.NewFile(path)
	require.NoError(t, err)
	exerciseStore(t, st)

	reopened, err := store.NewFile(path)
	require.NoError(t, err)
	value, found, err := reopened.Get(context.Background(), "registeredUsers")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, value)

	require.NoError(t, st.Close())
	_, _, err = st.Get(context.Background(), "registeredUsers")
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	st, err := store.NewFile(path)
	require.NoError(t, err)
	_, _, err = st.Get(context.Background(), "registeredUsers")
	assert.Error(t, err)
}

func TestFileStoreRequiresPath(t *testing.T) {
	_, err := store.NewFile("  ")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.db")

	st, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	exerciseStore(t, st)
	require.NoError(t, st.Close())

	reopened, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	value, found, err := reopened.Get(ctx, "registeredUsers")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, value)

	_, _, err = st.Get(ctx, "registeredUsers")
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FORMGUARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FORMGUARD_TEST_REDIS_ADDR not set")
	}
	st, err := store.DialRedis(context.Background(), addr, "formguard-test")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	exerciseStore(t, st)
}

func TestRegistryOpensBuiltins(t *testing.T) {
	reg := store.DefaultRegistry()
	assert.Equal(t, []string{"cache", "file", "memory", "redis", "sqlite"}, reg.List())

	st, err := reg.Open(context.Background(), " Memory ", store.Options{})
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, st)

	st, err = reg.Open(context.Background(), store.BackendFile, store.Options{Path: filepath.Join(t.TempDir(), "kv.json")})
	require.NoError(t, err)
	assert.IsType(t, &store.File{}, st)
}

func TestRegistryUnknownBackend(t *testing.T) {
	_, err := store.DefaultRegistry().Open(context.Background(), "etcd", store.Options{})
	assert.True(t, errors.Is(err, store.ErrUnknownBackend), "got %v", err)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := store.NewRegistry()
	factory := func(context.Context, store.Options) (store.Store, error) { return store.NewMemory(), nil }

	require.NoError(t, reg.Register("custom", factory))
	assert.Error(t, reg.Register("CUSTOM", factory))
	assert.Error(t, reg.Register("", factory))
	assert.Error(t, reg.Register("nil", nil))
}
