package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalObjectStore_PutGetDelete(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	key := "user-123/2025/07/02/conversations.json"
	payload := []byte(`{"conversation_count": 2}`)

	require.NoError(t, store.Put(ctx, key, payload))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, store.Delete(ctx, key))

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalObjectStore_PutOverwrites(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a/b.json", []byte("first")))
	require.NoError(t, store.Put(ctx, "a/b.json", []byte("second")))

	got, err := store.Get(ctx, "a/b.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestLocalObjectStore_KeyHierarchyMapsToDirectories(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalObjectStore(root, nil)
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "user-x/2025/07/02/conversations.json", []byte("{}")))

	_, err = os.Stat(filepath.Join(root, "user-x", "2025", "07", "02", "conversations.json"))
	assert.NoError(t, err)
}

func TestLocalObjectStore_DeleteMissingIsNotAnError(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir(), nil)
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never/written.json"))
}
