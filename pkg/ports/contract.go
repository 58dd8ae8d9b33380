package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwalk/botwalk/pkg/flow"
)

// RunStateStoreContract verifies that a StateStore implementation
// adheres to the interface contract. Adapter test packages call it
// against their concrete store.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	simulationID := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := flow.NewState("start")
		state.Status = flow.StatusWaitingInput
		state.Variables["topic"] = "billing"
		state.Messages = append(state.Messages, flow.Message{
			ID:        "m1",
			NodeID:    "hello",
			Direction: flow.Outgoing,
			Content:   "Hello!",
		})

		err := store.Save(ctx, simulationID, state)
		require.NoError(t, err)

		loaded, err := store.Load(ctx, simulationID)
		require.NoError(t, err)
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, state.Status, loaded.Status)
		assert.Equal(t, "billing", loaded.Variables["topic"])
		require.Len(t, loaded.Messages, 1)
		assert.Equal(t, "Hello!", loaded.Messages[0].Content)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+simulationID)
		assert.ErrorIs(t, err, flow.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, simulationID, flow.NewState("start"))
		require.NoError(t, err)

		err = store.Delete(ctx, simulationID)
		require.NoError(t, err)

		_, err = store.Load(ctx, simulationID)
		assert.ErrorIs(t, err, flow.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := simulationID + "-1"
		id2 := simulationID + "-2"
		_ = store.Save(ctx, id1, flow.NewState("start"))
		_ = store.Save(ctx, id2, flow.NewState("start"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
