package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/kv"
)

func openTemp(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "aiopad.db")
	db, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestGetSet(t *testing.T) {
	db, _ := openTemp(t)
	ctx := context.Background()

	_, err := db.Get(ctx, "notepad-notes")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, db.Set(ctx, "notepad-notes", []byte(`[]`)))
	require.NoError(t, db.Set(ctx, "notepad-color-mode", []byte("dark")))
	require.NoError(t, db.Set(ctx, "notepad-notes", []byte(`[{"id":"1"}]`)))

	v, err := db.Get(ctx, "notepad-notes")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(v))

	keys, err := db.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notepad-color-mode", "notepad-notes"}, keys)
}

func TestNilValueStoresEmpty(t *testing.T) {
	db, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, db.Set(ctx, "k", nil))
	v, err := db.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestReopenKeepsDataAndSchema(t *testing.T) {
	db, path := openTemp(t)
	ctx := context.Background()
	require.NoError(t, db.Set(ctx, "notepad-theme-variant", []byte("forest")))
	require.NoError(t, db.Close())

	again, err := New(path)
	require.NoError(t, err)
	defer again.Close()

	v, err := again.Get(ctx, "notepad-theme-variant")
	require.NoError(t, err)
	assert.Equal(t, "forest", string(v))

	version, err := again.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
