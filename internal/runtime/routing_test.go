package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwalk/botwalk/internal/runtime"
	"github.com/botwalk/botwalk/pkg/flow"
)

func TestNextNode(t *testing.T) {
	g, err := flow.NewGraph(
		[]flow.Node{
			{ID: "a", Type: flow.NodeStart, Data: flow.StartData{}},
			{ID: "b", Type: flow.NodeEnd, Data: flow.EndData{}},
			{ID: "c", Type: flow.NodeEnd, Data: flow.EndData{}},
			{ID: "d", Type: flow.NodeEnd, Data: flow.EndData{}},
		},
		[]flow.Edge{
			{ID: "e1", Source: "a", SourceHandle: "yes", Target: "b"},
			{ID: "e2", Source: "a", Target: "c"},
			{ID: "e3", Source: "a", SourceHandle: "no", Target: "d"},
		},
	)
	require.NoError(t, err)

	t.Run("handle match wins", func(t *testing.T) {
		assert.Equal(t, "b", runtime.NextNode(g, "a", "yes"))
		assert.Equal(t, "d", runtime.NextNode(g, "a", "no"))
	})

	t.Run("unknown handle falls back to first edge", func(t *testing.T) {
		assert.Equal(t, "b", runtime.NextNode(g, "a", "maybe"))
	})

	t.Run("empty handle takes first edge", func(t *testing.T) {
		assert.Equal(t, "b", runtime.NextNode(g, "a", ""))
	})

	t.Run("no route", func(t *testing.T) {
		assert.Equal(t, "", runtime.NextNode(g, "b", ""))
		assert.Equal(t, "", runtime.NextNode(g, "ghost", "yes"))
	})

	t.Run("handle-bound edge still serves as fallback", func(t *testing.T) {
		g2, err := flow.NewGraph(
			[]flow.Node{
				{ID: "a", Type: flow.NodeStart, Data: flow.StartData{}},
				{ID: "b", Type: flow.NodeEnd, Data: flow.EndData{}},
			},
			[]flow.Edge{
				{ID: "e1", Source: "a", SourceHandle: "yes", Target: "b"},
			},
		)
		require.NoError(t, err)
		assert.Equal(t, "b", runtime.NextNode(g2, "a", "other"))
		assert.Equal(t, "b", runtime.NextNode(g2, "a", ""))
	})
}
