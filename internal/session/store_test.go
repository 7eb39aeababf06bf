package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LoadEmpty(t *testing.T) {
	store := openTestStore(t)

	token, nome, err := store.Load(context.Background())
	require.NoError(t, err, "a missing session is not an error")
	assert.Empty(t, token)
	assert.Empty(t, nome)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", "Ana"))

	token, nome, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "Ana", nome)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", "Ana"))
	require.NoError(t, store.Save(ctx, "tok-2", "Bruno"))

	token, nome, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token, "a new login replaces the old session")
	assert.Equal(t, "Bruno", nome)
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", "Ana"))
	require.NoError(t, store.Clear(ctx))

	token, nome, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, nome)

	// Clearing an empty store is fine too.
	require.NoError(t, store.Clear(ctx))
}

func TestStore_OpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "tok-1", "Ana"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	token, nome, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token, "session survives a restart")
	assert.Equal(t, "Ana", nome)
}
