package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbistack/kbsearch/internal/core/domain"
)

func newTestStore(t *testing.T) *KVStore {
	t.Helper()
	store, err := NewKVStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKVStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "recent:alice", `[{"query":"vpn"}]`))

	got, err := store.Get(ctx, "recent:alice")
	require.NoError(t, err)
	assert.Equal(t, `[{"query":"vpn"}]`, got)
}

func TestKVStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKVStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "key", "old"))
	require.NoError(t, store.Set(ctx, "key", "new"))

	got, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestKVStore_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "key", "value"))
	require.NoError(t, store.Remove(ctx, "key"))
	require.NoError(t, store.Remove(ctx, "key"))

	_, err := store.Get(ctx, "key")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKVStore_KeysSorted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "b", "2"))
	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "c", "3"))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestKVStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewKVStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "key", "value"))
	require.NoError(t, store.Close())

	reopened, err := NewKVStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}
