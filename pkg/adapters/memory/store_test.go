package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwalk/botwalk/pkg/adapters/memory"
	"github.com/botwalk/botwalk/pkg/flow"
)

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	state := flow.NewState("n1")
	state.Variables["k"] = "v"
	require.NoError(t, store.Save(ctx, "sim-1", state))

	loaded, err := store.Load(ctx, "sim-1")
	require.NoError(t, err)
	assert.Equal(t, "n1", loaded.CurrentNodeID)
	assert.Equal(t, "v", loaded.Variables["k"])
}

func TestStore_LoadMissing(t *testing.T) {
	store := memory.NewStore()

	_, err := store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, flow.ErrSessionNotFound)
}

func TestStore_IsolatesCallersFromStoredState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	state := flow.NewState("n1")
	state.Variables["k"] = "v"
	require.NoError(t, store.Save(ctx, "sim-1", state))

	// Mutating the original after Save must not affect the store.
	state.Variables["k"] = "mutated"

	loaded, err := store.Load(ctx, "sim-1")
	require.NoError(t, err)
	assert.Equal(t, "v", loaded.Variables["k"])

	// Mutating a loaded copy must not affect later loads.
	loaded.Variables["k"] = "mutated"
	again, err := store.Load(ctx, "sim-1")
	require.NoError(t, err)
	assert.Equal(t, "v", again.Variables["k"])
}

func TestStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Save(ctx, "a", flow.NewState("n")))
	require.NoError(t, store.Save(ctx, "b", flow.NewState("n")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "missing"))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}
