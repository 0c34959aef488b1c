package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func exerciseGateway(t *testing.T, g Gateway) {
	ctx := context.Background()

	_, ok, err := g.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Put(ctx, KeyTasks, "[]"))
	require.NoError(t, g.Put(ctx, KeyTasks, `[["a",{}]]`))
	v, ok, err := g.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[["a",{}]]`, v, "put replaces in full")

	require.NoError(t, g.Put(ctx, KeyTheme, "dark"))
	require.NoError(t, g.Delete(ctx, KeyTasks))
	require.NoError(t, g.Delete(ctx, "missing"))
	_, ok, err = g.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.False(t, ok)

	v, _, err = g.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	require.NoError(t, g.Put(ctx, KeyDraft, ""))
	v, ok, err = g.Get(ctx, KeyDraft)
	require.NoError(t, err)
	assert.True(t, ok, "empty values are stored")
	assert.Empty(t, v)
}

func TestSQLiteStore_Gateway(t *testing.T) {
	exerciseGateway(t, newSQLite(t))
}

func TestMemoryStore_Gateway(t *testing.T) {
	exerciseGateway(t, NewMemoryStore())
}

func TestSQLiteStore_Migrations(t *testing.T) {
	s := newSQLite(t)
	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].version, v)

	require.NoError(t, s.runMigrations(), "re-running migrations is a no-op")
	v, err = s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].version, v)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, KeyTheme, "light"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestMemoryStore_Closed(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Close())
	_, _, err := m.Get(context.Background(), KeyTasks)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Put(context.Background(), KeyTasks, "x"), ErrClosed)
}
