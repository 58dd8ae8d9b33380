// Package runtime implements the flow execution engine: a bounded,
// iterative graph walk that emits messages, captures variables and
// pauses at blocking nodes until the driver supplies input.
package runtime

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/botwalk/botwalk/internal/logging"
	"github.com/botwalk/botwalk/pkg/flow"
	"github.com/botwalk/botwalk/pkg/variables"
)

// DefaultMaxSteps bounds one synchronous walk. A flow that takes more
// hops without blocking is assumed to be cycling and is failed.
const DefaultMaxSteps = 100

// agentNotice is emitted for agent nodes without a welcome message.
// Real agent turns only happen in the backend runtime.
const agentNotice = "🤖 AI agent engaged. (Local simulation: agent replies require the backend runtime.)"

// Engine walks a frozen graph, mutating only the simulation state.
// It is stateless between calls and safe to share across sessions.
type Engine struct {
	logger *slog.Logger
	max    int
	now    func() time.Time
	newID  func() string
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger (default: no-op).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMaxSteps overrides the runaway-walk bound.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.max = n
		}
	}
}

// WithClock injects the message timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator injects the message id source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		max:    DefaultMaxSteps,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run advances the state from its current node until the walk blocks,
// terminates, or fails. All outcomes are reported through
// state.Status; Run never panics on malformed graphs.
func (e *Engine) Run(state *flow.State, g *flow.Graph) {
	for steps := 0; ; steps++ {
		if steps > e.max {
			e.logger.Warn("runaway walk aborted", "node", state.CurrentNodeID, "steps", steps)
			state.Status = flow.StatusError
			return
		}

		node := g.FindNode(state.CurrentNodeID)
		if node == nil {
			e.logger.Warn("current node missing", "node", state.CurrentNodeID)
			state.Status = flow.StatusError
			return
		}

		switch data := node.Data.(type) {
		case flow.StartData, flow.ConnectorData:
			if !e.advance(state, g, node.ID) {
				return
			}

		case flow.MessageData:
			e.emit(state, node.ID, data.MessageType, e.render(data.Content, state), func(m *flow.Message) {
				m.MediaURL = data.MediaURL
			})
			if !e.advance(state, g, node.ID) {
				return
			}

		case flow.ButtonData:
			e.emit(state, node.ID, flow.MessageText, e.render(data.Content, state), func(m *flow.Message) {
				m.Buttons = data.Buttons
			})
			state.Status = flow.StatusWaitingInput
			return

		case flow.OptionListData:
			content := e.render(data.Content, state)
			if data.ListTitle != "" {
				label := data.ListButtonLabel
				if label == "" {
					label = "Select"
				}
				content += "\n\n📋 " + data.ListTitle + "\n[" + label + "]"
			}
			buttons := make([]flow.Button, 0, len(data.Options))
			for _, opt := range data.Options {
				buttons = append(buttons, flow.Button{ID: opt.ID, Label: opt.Title, Value: opt.ID})
			}
			e.emit(state, node.ID, flow.MessageText, content, func(m *flow.Message) {
				m.Buttons = buttons
			})
			state.Status = flow.StatusWaitingInput
			return

		case flow.WaitResponseData:
			if data.Content != "" {
				e.emit(state, node.ID, flow.MessageText, e.render(data.Content, state), nil)
			}
			state.Status = flow.StatusWaitingInput
			return

		case flow.ConditionalData:
			next := e.resolveConditional(node.ID, data, state, g)
			if next == "" {
				state.Status = flow.StatusCompleted
				return
			}
			state.CurrentNodeID = next

		case flow.SemanticConditionsData:
			if data.Content != "" {
				e.emit(state, node.ID, flow.MessageText, e.render(data.Content, state), nil)
			}
			state.Status = flow.StatusWaitingInput
			return

		case flow.AgentData:
			content := agentNotice
			if data.WelcomeMessage != "" {
				content = e.render(data.WelcomeMessage, state)
			}
			e.emit(state, node.ID, flow.MessageText, content, nil)
			state.Status = flow.StatusWaitingInput
			return

		case flow.EndData:
			state.Status = flow.StatusCompleted
			return

		default:
			e.logger.Warn("unknown node type", "node", node.ID, "type", node.Type)
			state.Status = flow.StatusError
			return
		}
	}
}

// Resume applies driver input to a waiting state and re-runs the walk.
// Messages appended by this call are state.Messages[len(before):].
func (e *Engine) Resume(state *flow.State, g *flow.Graph, input flow.Input) {
	node := g.FindNode(state.CurrentNodeID)
	if node == nil {
		e.logger.Warn("resume with missing node", "node", state.CurrentNodeID)
		state.Status = flow.StatusError
		return
	}

	e.recordIncoming(state, node, input)
	e.bindVariable(state, node, input)

	next := e.resolveResume(node, g, input)
	if next == "" {
		state.Status = flow.StatusCompleted
		return
	}

	state.CurrentNodeID = next
	state.Status = flow.StatusRunning
	e.Run(state, g)
}

// recordIncoming appends the user's turn to the transcript, showing
// the chosen button/option label when the id resolves to one.
func (e *Engine) recordIncoming(state *flow.State, node *flow.Node, input flow.Input) {
	content := input.Text
	if content == "" {
		content = input.ButtonID
	}
	if content == "" {
		return
	}

	if input.ButtonID != "" {
		if b, ok := findChoice(node, input.ButtonID); ok {
			content = b.Label
		}
	}

	state.Messages = append(state.Messages, flow.Message{
		ID:          e.newID(),
		NodeID:      node.ID,
		Direction:   flow.Incoming,
		MessageType: flow.MessageText,
		Content:     content,
		Timestamp:   e.now(),
	})
}

// bindVariable captures the input under the producing node's id, and
// additionally under the human-facing variable_name when one is set.
func (e *Engine) bindVariable(state *flow.State, node *flow.Node, input flow.Input) {
	if !node.Type.ProducesVariable() {
		return
	}

	value := input.Text
	if value == "" {
		value = input.ButtonID
		if b, ok := findChoice(node, input.ButtonID); ok && b.Value != "" {
			value = b.Value
		}
	}
	if value == "" {
		return
	}

	state.Variables[node.ID] = value
	if name := variableName(node); name != "" {
		state.Variables[name] = value
	}
}

// resolveResume picks the next node after input, per node type.
func (e *Engine) resolveResume(node *flow.Node, g *flow.Graph, input flow.Input) string {
	switch data := node.Data.(type) {
	case flow.ButtonData:
		return e.resolveChoice(node.ID, g, input, data.DefaultNextNodeID)
	case flow.OptionListData:
		return e.resolveChoice(node.ID, g, input, data.DefaultNextNodeID)
	case flow.WaitResponseData:
		if data.DefaultNextNodeID != "" {
			return data.DefaultNextNodeID
		}
		return NextNode(g, node.ID, "")
	case flow.SemanticConditionsData:
		// Local stand-in for backend semantic matching: try the first
		// condition's edge when it declares a target, then the defaults.
		if len(data.Conditions) > 0 && data.Conditions[0].NextNodeID != "" {
			if next := NextNode(g, node.ID, data.Conditions[0].ID); next != "" {
				return next
			}
		}
		if data.DefaultNextNodeID != "" {
			return data.DefaultNextNodeID
		}
		return NextNode(g, node.ID, flow.HandleDefault)
	}
	// Agent and non-blocking types have no resume route; the flow ends.
	return ""
}

// resolveChoice routes a button/option reply: chosen handle first
// (a "timeout" reply matches a timeout edge the same way), then the
// configured default, then an explicit "default" edge.
func (e *Engine) resolveChoice(nodeID string, g *flow.Graph, input flow.Input, defaultNext string) string {
	if input.ButtonID != "" {
		if next := NextNode(g, nodeID, input.ButtonID); next != "" {
			return next
		}
	}
	if defaultNext != "" {
		return defaultNext
	}
	return NextNode(g, nodeID, flow.HandleDefault)
}

// resolveConditional evaluates the rules in document order; the first
// satisfied condition's edge wins, else the configured default, else
// the unconditional edge.
func (e *Engine) resolveConditional(nodeID string, data flow.ConditionalData, state *flow.State, g *flow.Graph) string {
	for _, c := range data.Conditions {
		ok, err := EvaluateCondition(c, state.Variables)
		if err != nil {
			e.logger.Warn("condition evaluation failed", "node", nodeID, "condition", c.ID, "err", err)
			continue
		}
		if !ok {
			continue
		}
		if next := NextNode(g, nodeID, c.ID); next != "" {
			return next
		}
	}
	if data.DefaultNextNodeID != "" {
		return data.DefaultNextNodeID
	}
	return NextNode(g, nodeID, flow.HandleDefault)
}

// advance moves to the unconditional successor; false means the walk
// is over (a dead end completes the flow).
func (e *Engine) advance(state *flow.State, g *flow.Graph, nodeID string) bool {
	next := NextNode(g, nodeID, "")
	if next == "" {
		state.Status = flow.StatusCompleted
		return false
	}
	state.CurrentNodeID = next
	return true
}

func (e *Engine) render(content string, state *flow.State) string {
	return variables.Substitute(content, state.Variables)
}

func (e *Engine) emit(state *flow.State, nodeID string, mt flow.MessageType, content string, decorate func(*flow.Message)) {
	msg := flow.Message{
		ID:          e.newID(),
		NodeID:      nodeID,
		Direction:   flow.Outgoing,
		MessageType: mt,
		Content:     content,
		Timestamp:   e.now(),
	}
	if decorate != nil {
		decorate(&msg)
	}
	state.Messages = append(state.Messages, msg)
}

// findChoice resolves a button id against the node's buttons or options.
func findChoice(node *flow.Node, id string) (flow.Button, bool) {
	switch data := node.Data.(type) {
	case flow.ButtonData:
		for _, b := range data.Buttons {
			if b.ID == id {
				return b, true
			}
		}
	case flow.OptionListData:
		for _, opt := range data.Options {
			if opt.ID == id {
				return flow.Button{ID: opt.ID, Label: opt.Title}, true
			}
		}
	}
	return flow.Button{}, false
}

func variableName(node *flow.Node) string {
	switch data := node.Data.(type) {
	case flow.ButtonData:
		return data.VariableName
	case flow.OptionListData:
		return data.VariableName
	case flow.WaitResponseData:
		return data.VariableName
	}
	return ""
}
