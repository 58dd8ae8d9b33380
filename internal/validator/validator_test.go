package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwalk/botwalk/internal/validator"
	"github.com/botwalk/botwalk/pkg/flow"
)

func buildGraph(t *testing.T, nodes []flow.Node, edges []flow.Edge) *flow.Graph {
	t.Helper()
	g, err := flow.NewGraph(nodes, edges)
	require.NoError(t, err)
	return g
}

func TestValidateGraph_Valid(t *testing.T) {
	g := buildGraph(t,
		[]flow.Node{
			{ID: "start", Type: flow.NodeStart, Data: flow.StartData{}},
			{ID: "m", Type: flow.NodeMessage, Data: flow.MessageData{Content: "hi"}},
			{ID: "end", Type: flow.NodeEnd, Data: flow.EndData{}},
		},
		[]flow.Edge{
			{ID: "e1", Source: "start", Target: "m"},
			{ID: "e2", Source: "m", Target: "end"},
		},
	)

	report := validator.ValidateGraph(g)
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Warnings)
}

func TestValidateGraph_MissingStart(t *testing.T) {
	g := buildGraph(t,
		[]flow.Node{{ID: "m", Type: flow.NodeMessage, Data: flow.MessageData{}}},
		nil,
	)

	report := validator.ValidateGraph(g)
	assert.False(t, report.OK())
	assert.Error(t, report.Err())
}

func TestValidateGraph_DanglingEdge(t *testing.T) {
	g := buildGraph(t,
		[]flow.Node{
			{ID: "start", Type: flow.NodeStart, Data: flow.StartData{}},
		},
		[]flow.Edge{
			{ID: "e1", Source: "start", Target: "ghost"},
		},
	)

	report := validator.ValidateGraph(g)
	require.False(t, report.OK())
	assert.Contains(t, report.Errors[0], "ghost")
}

func TestValidateGraph_ShadowedHandleWarns(t *testing.T) {
	g := buildGraph(t,
		[]flow.Node{
			{ID: "start", Type: flow.NodeStart, Data: flow.StartData{}},
			{ID: "a", Type: flow.NodeEnd, Data: flow.EndData{}},
			{ID: "b", Type: flow.NodeEnd, Data: flow.EndData{}},
		},
		[]flow.Edge{
			{ID: "e1", Source: "start", Target: "a"},
			{ID: "e2", Source: "start", Target: "b"},
		},
	)

	report := validator.ValidateGraph(g)
	assert.True(t, report.OK())
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "only the first will ever fire")
}

func TestValidateGraph_TimeoutConfigWarns(t *testing.T) {
	t.Run("seconds below one", func(t *testing.T) {
		g := buildGraph(t,
			[]flow.Node{
				{ID: "start", Type: flow.NodeStart, Data: flow.StartData{}},
				{ID: "ask", Type: flow.NodeButton, Data: flow.ButtonData{
					Content: "Still there?",
					Buttons: []flow.Button{{ID: "yes", Label: "Yes"}},
					Timeout: flow.Timeout{Enabled: true, Seconds: 0},
				}},
				{ID: "end", Type: flow.NodeEnd, Data: flow.EndData{}},
			},
			[]flow.Edge{
				{ID: "e1", Source: "start", Target: "ask"},
				{ID: "e2", Source: "ask", Target: "end"},
			},
		)

		report := validator.ValidateGraph(g)
		assert.True(t, report.OK())
		require.NotEmpty(t, report.Warnings)
		assert.Contains(t, report.Warnings[0], "minimum is 1")
	})

	t.Run("missing timeout target", func(t *testing.T) {
		g := buildGraph(t,
			[]flow.Node{
				{ID: "start", Type: flow.NodeStart, Data: flow.StartData{}},
				{ID: "ask", Type: flow.NodeWaitResponse, Data: flow.WaitResponseData{
					Content: "Name?",
					Timeout: flow.Timeout{Enabled: true, Seconds: 30, NextNodeID: "ghost"},
				}},
				{ID: "end", Type: flow.NodeEnd, Data: flow.EndData{}},
			},
			[]flow.Edge{
				{ID: "e1", Source: "start", Target: "ask"},
				{ID: "e2", Source: "ask", Target: "end"},
			},
		)

		report := validator.ValidateGraph(g)
		assert.True(t, report.OK())
		require.NotEmpty(t, report.Warnings)
		assert.Contains(t, report.Warnings[0], "ghost")
	})

	t.Run("disabled timeout is ignored", func(t *testing.T) {
		g := buildGraph(t,
			[]flow.Node{
				{ID: "start", Type: flow.NodeStart, Data: flow.StartData{}},
				{ID: "ask", Type: flow.NodeButton, Data: flow.ButtonData{
					Content: "Pick",
					Buttons: []flow.Button{{ID: "a", Label: "A"}},
					Timeout: flow.Timeout{Enabled: false, Seconds: 0},
				}},
				{ID: "end", Type: flow.NodeEnd, Data: flow.EndData{}},
			},
			[]flow.Edge{
				{ID: "e1", Source: "start", Target: "ask"},
				{ID: "e2", Source: "ask", Target: "end"},
			},
		)

		report := validator.ValidateGraph(g)
		assert.True(t, report.OK())
		assert.Empty(t, report.Warnings)
	})
}

func TestValidateGraph_UnreachableNodeWarns(t *testing.T) {
	g := buildGraph(t,
		[]flow.Node{
			{ID: "start", Type: flow.NodeStart, Data: flow.StartData{}},
			{ID: "end", Type: flow.NodeEnd, Data: flow.EndData{}},
			{ID: "island", Type: flow.NodeMessage, Data: flow.MessageData{Content: "lost"}},
		},
		[]flow.Edge{
			{ID: "e1", Source: "start", Target: "end"},
		},
	)

	report := validator.ValidateGraph(g)
	assert.True(t, report.OK())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "island")
}
