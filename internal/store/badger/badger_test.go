package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/mindnest/internal/store/kv"
)

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Get(ctx, "SavedBookmarks")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "SavedBookmarks", []byte(`["a"]`)))
	require.NoError(t, s.Set(ctx, "SavedBookmarks", []byte(`["a","b"]`)))

	got, err := s.Get(ctx, "SavedBookmarks")
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(got))
	assert.NoError(t, s.Ping(ctx))
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "SelectedCategories", []byte(`["Art"]`)))
	require.NoError(t, first.Close())
	assert.Error(t, first.Ping(ctx))

	second, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Get(ctx, "SelectedCategories")
	require.NoError(t, err)
	assert.Equal(t, `["Art"]`, string(got))
}

func TestOnDiskWritesAreSynced(t *testing.T) {
	dir := t.TempDir()

	onDisk := badgerOptions(Options{Dir: dir})
	assert.True(t, onDisk.SyncWrites)
	assert.Equal(t, dir, onDisk.Dir)
	assert.False(t, onDisk.InMemory)

	inMemory := badgerOptions(Options{InMemory: true})
	assert.True(t, inMemory.InMemory)
}
