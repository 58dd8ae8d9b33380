package botwalk_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwalk/botwalk"
	"github.com/botwalk/botwalk/pkg/flow"
)

const onboardingDoc = `
name: onboarding
nodes:
  - id: start
    type: start
  - id: welcome
    type: message
    data:
      content: "Welcome!"
  - id: ask-plan
    type: button
    data:
      content: "Which plan?"
      variable_name: plan
      buttons:
        - id: basic
          label: Basic
        - id: pro
          label: Pro
  - id: route
    type: conditional
    data:
      conditions:
        - id: is-pro
          variable: plan
          operator: equals
          value: pro
      default_next_node_id: basic-msg
  - id: pro-msg
    type: message
    data:
      content: "Pro it is, enjoy priority support."
  - id: basic-msg
    type: message
    data:
      content: "Basic it is."
  - id: end
    type: end
edges:
  - id: e1
    source: start
    target: welcome
  - id: e2
    source: welcome
    target: ask-plan
  - id: e3
    source: ask-plan
    target: route
  - id: e4
    source: route
    source_handle: is-pro
    target: pro-msg
  - id: e5
    source: route
    source_handle: default
    target: basic-msg
  - id: e6
    source: pro-msg
    target: end
  - id: e7
    source: basic-msg
    target: end
`

func TestSimulator_EndToEnd(t *testing.T) {
	f, err := botwalk.ParseFlow([]byte(onboardingDoc))
	require.NoError(t, err)
	assert.Equal(t, "onboarding", f.Name)

	warnings, err := botwalk.Validate(f.Graph)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	sim := botwalk.New()
	ctx := context.Background()

	resp, err := sim.Start(ctx, "demo", f)
	require.NoError(t, err)
	assert.True(t, resp.WaitingForInput)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "Welcome!", resp.Messages[0].Content)
	require.Len(t, resp.Messages[1].Buttons, 2)

	resp, err = sim.SendInput(ctx, "demo", flow.Input{ButtonID: "pro"})
	require.NoError(t, err)
	assert.Equal(t, flow.StatusCompleted, resp.Status)
	last := resp.Messages[len(resp.Messages)-1]
	assert.Equal(t, "Pro it is, enjoy priority support.", last.Content)
	assert.Equal(t, "pro", resp.Variables["plan"])

	require.NoError(t, sim.End(ctx, "demo"))
	ids, err := sim.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestValidate_ReportsDefects(t *testing.T) {
	f, err := botwalk.ParseFlow([]byte(`{"nodes":[{"id":"m","type":"message","data":{}}],"edges":[]}`))
	require.NoError(t, err)

	_, err = botwalk.Validate(f.Graph)
	assert.Error(t, err)
}
