package botwalk_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwalk/botwalk"
)

func TestRunner_InteractiveWalk(t *testing.T) {
	f, err := botwalk.ParseFlow([]byte(onboardingDoc))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := botwalk.NewRunner()
	runner.Input = strings.NewReader("2\n")
	runner.Output = &out
	runner.SimulationID = "tty"

	err = runner.Run(context.Background(), botwalk.New(), f)
	require.NoError(t, err)

	transcript := out.String()
	assert.Contains(t, transcript, "Welcome!")
	assert.Contains(t, transcript, "[1] Basic")
	assert.Contains(t, transcript, "[2] Pro")
	// Answering "2" presses the Pro button.
	assert.Contains(t, transcript, "Pro it is")
}

func TestRunner_AnswersByLabel(t *testing.T) {
	f, err := botwalk.ParseFlow([]byte(onboardingDoc))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := botwalk.NewRunner()
	runner.Input = strings.NewReader("basic\n")
	runner.Output = &out

	err = runner.Run(context.Background(), botwalk.New(), f)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Basic it is.")
}

func TestRunner_ExitCommand(t *testing.T) {
	f, err := botwalk.ParseFlow([]byte(onboardingDoc))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := botwalk.NewRunner()
	runner.Input = strings.NewReader("exit\n")
	runner.Output = &out

	err = runner.Run(context.Background(), botwalk.New(), f)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunner_EOFStopsGracefully(t *testing.T) {
	f, err := botwalk.ParseFlow([]byte(onboardingDoc))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := botwalk.NewRunner()
	runner.Input = strings.NewReader("")
	runner.Output = &out

	err = runner.Run(context.Background(), botwalk.New(), f)
	assert.NoError(t, err)
}

func TestRunner_RequiresIO(t *testing.T) {
	f, err := botwalk.ParseFlow([]byte(onboardingDoc))
	require.NoError(t, err)

	runner := botwalk.NewRunner()
	assert.Error(t, runner.Run(context.Background(), botwalk.New(), f))
}
