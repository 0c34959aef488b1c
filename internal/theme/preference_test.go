package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-manager/internal/store"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()
	orig := detectDark
	t.Cleanup(func() { detectDark = orig })
	detectDark = func() bool { return true }

	gw := store.NewMemoryStore()

	m, err := Resolve(ctx, gw, "")
	require.NoError(t, err)
	assert.Equal(t, Dark, m, "falls back to terminal background")

	require.NoError(t, Save(ctx, gw, Light))
	m, err = Resolve(ctx, gw, "")
	require.NoError(t, err)
	assert.Equal(t, Light, m)

	m, err = Resolve(ctx, gw, "dark")
	require.NoError(t, err)
	assert.Equal(t, Dark, m, "override wins")

	_, err = Resolve(ctx, gw, "sepia")
	assert.Error(t, err)

	require.NoError(t, gw.Put(ctx, store.KeyTheme, "garbage"))
	detectDark = func() bool { return false }
	m, err = Resolve(ctx, gw, "")
	require.NoError(t, err)
	assert.Equal(t, Light, m, "unreadable preference is ignored")
}

func TestSave_DoesNotTouchTasks(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryStore()
	require.NoError(t, gw.Put(ctx, store.KeyTasks, "[]"))

	require.NoError(t, Save(ctx, gw, Dark))
	v, _, err := gw.Get(ctx, store.KeyTasks)
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestMode_Toggled(t *testing.T) {
	assert.Equal(t, Light, Dark.Toggled())
	assert.Equal(t, Dark, Light.Toggled())
}
