/*
Package botwalk simulates chatbot flows without sending a single real
message. A flow is a graph of typed nodes (messages, buttons, option
lists, waits, conditionals) exported by a visual editor; botwalk
interprets it as a state machine, emitting the messages a contact
would receive and pausing wherever the flow waits for input.

# Concept

The engine walks the graph from its start node, executing each node's
behavior: message nodes append to the transcript and advance, input
nodes block until the host supplies a user turn, conditional nodes
branch on captured variables. Execution state (position, variables,
transcript) is a plain value persisted through a pluggable store, so
simulations survive process restarts when backed by Redis.

Errors inside a walk never escape as panics or error returns: the
simulation transitions to its error status and reports it in the
response, the way a chat UI would show a broken flow.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/botwalk/botwalk"
		"github.com/botwalk/botwalk/pkg/flow"
	)

	func main() {
		f, err := botwalk.LoadFlow("./onboarding.yaml")
		if err != nil {
			log.Fatal(err)
		}

		sim := botwalk.New()
		ctx := context.Background()

		resp, err := sim.Start(ctx, "demo", f)
		if err != nil {
			log.Fatal(err)
		}
		for _, m := range resp.Messages {
			fmt.Println(m.Content)
		}

		for resp.WaitingForInput {
			resp, err = sim.SendInput(ctx, "demo", flow.Input{Text: "hello"})
			if err != nil {
				log.Fatal(err)
			}
			for _, m := range resp.Messages {
				fmt.Println(m.Content)
			}
		}
	}

The same Simulator can be served over HTTP (internal/adapters/http)
or MCP (pkg/adapters/mcp) for remote and agent-driven sessions.
*/
package botwalk
