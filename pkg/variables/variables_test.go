package variables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwalk/botwalk/pkg/flow"
	"github.com/botwalk/botwalk/pkg/variables"
)

func TestSubstitute(t *testing.T) {
	vars := map[string]any{
		"name":    "Ada",
		"node-42": "pro",
		"count":   7,
	}

	cases := []struct {
		name     string
		template string
		expected string
	}{
		{"simple", "Hi {{name}}!", "Hi Ada!"},
		{"hyphenated key", "Plan: {{node-42}}", "Plan: pro"},
		{"non-string value", "You have {{count}} items", "You have 7 items"},
		{"unbound stays literal", "Hi {{ghost}}", "Hi {{ghost}}"},
		{"repeated", "{{name}} {{name}}", "Ada Ada"},
		{"malformed braces untouched", "Hi {name} {{na me}}", "Hi {name} {{na me}}"},
		{"no placeholders", "plain text", "plain text"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, variables.Substitute(tc.template, vars))
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, variables.Names("{{a}} {{b}} {{a}}"))
	assert.Empty(t, variables.Names("nothing here"))
}

func TestUpstreamNodeIDs(t *testing.T) {
	edges := []flow.Edge{
		{Source: "start", Target: "a"},
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "a"}, // cycle back
		{Source: "x", Target: "c"},
	}

	got := variables.UpstreamNodeIDs("c", edges)
	assert.ElementsMatch(t, []string{"start", "a", "b", "x"}, got)
}

func TestAvailable(t *testing.T) {
	g, err := flow.NewGraph(
		[]flow.Node{
			{ID: "start", Type: flow.NodeStart, Data: flow.StartData{}},
			{ID: "ask-name", Type: flow.NodeWaitResponse, Data: flow.WaitResponseData{VariableName: "name"}},
			{ID: "ask-plan", Type: flow.NodeButton, Data: flow.ButtonData{
				Buttons: []flow.Button{{ID: "basic", Label: "Basic"}},
			}},
			{ID: "msg", Type: flow.NodeMessage, Data: flow.MessageData{Content: "hi"}},
			{ID: "downstream", Type: flow.NodeWaitResponse, Data: flow.WaitResponseData{VariableName: "later"}},
		},
		[]flow.Edge{
			{Source: "start", Target: "ask-name"},
			{Source: "ask-name", Target: "ask-plan"},
			{Source: "ask-plan", Target: "msg"},
			{Source: "msg", Target: "downstream"},
		},
	)
	require.NoError(t, err)

	got := variables.Available("msg", g)
	require.Len(t, got, 2)

	// Sorted by label: "ask-plan" (no variable_name, falls back to id)
	// before "name".
	assert.Equal(t, "ask-plan", got[0].Name)
	assert.Equal(t, "ask-plan", got[0].Label)
	require.Len(t, got[0].PossibleValues, 1)

	assert.Equal(t, "ask-name", got[1].Name)
	assert.Equal(t, "name", got[1].Label)
	assert.Empty(t, got[1].PossibleValues)

	// The node downstream of msg is not readable at msg.
	for _, d := range got {
		assert.NotEqual(t, "downstream", d.Name)
	}
}
