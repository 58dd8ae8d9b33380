package botwalk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/botwalk/botwalk/pkg/flow"
)

// ContentRenderer transforms message content before outputting it.
// This allows TUI rendering (markdown to ANSI) without coupling the
// core package to a terminal library.
type ContentRenderer func(string) (string, error)

// Runner drives an interactive simulation over provided IO. Injecting
// Input/Output keeps it testable and frontend-agnostic.
type Runner struct {
	Input        io.Reader
	Output       io.Writer
	Renderer     ContentRenderer
	SimulationID string
}

// NewRunner creates a Runner. The caller must set Input and Output
// (os.Stdin / os.Stdout for a terminal session).
func NewRunner() *Runner {
	return &Runner{SimulationID: "local"}
}

// Run starts the flow and loops until the simulation reaches a
// terminal status, the user types exit/quit, or input hits EOF.
func (r *Runner) Run(ctx context.Context, sim *Simulator, f *Flow) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)

	resp, err := sim.Start(ctx, r.SimulationID, f)
	if err != nil {
		return fmt.Errorf("start error: %w", err)
	}
	r.printMessages(resp.Messages)

	for resp.WaitingForInput {
		fmt.Fprint(r.Output, "> ")
		text, err := lineReader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("input error: %w", err)
		}
		text = strings.TrimSpace(text)

		if text == "exit" || text == "quit" {
			fmt.Fprintln(r.Output, "Bye!")
			break
		}

		input := resolveInput(text, lastButtons(resp.Messages))
		resp, err = sim.SendInput(ctx, r.SimulationID, input)
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}
		r.printMessages(resp.Messages)
	}

	if resp.Status == flow.StatusError {
		return fmt.Errorf("simulation ended in error at node %q", resp.CurrentNodeID)
	}
	return nil
}

func (r *Runner) printMessages(msgs []flow.Message) {
	for _, msg := range msgs {
		output := msg.Content
		if r.Renderer != nil {
			if rendered, err := r.Renderer(msg.Content); err == nil {
				output = rendered
			}
		}
		fmt.Fprintln(r.Output, strings.TrimSpace(output))

		for i, b := range msg.Buttons {
			fmt.Fprintf(r.Output, "  [%d] %s\n", i+1, b.Label)
		}
	}
}

// lastButtons returns the choices offered by the most recent message,
// if any.
func lastButtons(msgs []flow.Message) []flow.Button {
	for i := len(msgs) - 1; i >= 0; i-- {
		if len(msgs[i].Buttons) > 0 {
			return msgs[i].Buttons
		}
	}
	return nil
}

// resolveInput maps what the user typed onto the offered choices: a
// 1-based index, a button id, or a label (case-insensitive) all press
// the button; anything else is free text.
func resolveInput(text string, buttons []flow.Button) flow.Input {
	if len(buttons) == 0 {
		return flow.Input{Text: text}
	}

	if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(buttons) {
		return flow.Input{ButtonID: buttons[n-1].ID}
	}
	for _, b := range buttons {
		if strings.EqualFold(text, b.ID) || strings.EqualFold(text, b.Label) {
			return flow.Input{ButtonID: b.ID}
		}
	}
	return flow.Input{Text: text}
}
