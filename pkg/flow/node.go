package flow

// NodeType identifies the control-flow behavior of a node.
// The set is closed: the engine matches it exhaustively and treats
// anything else as a terminal error.
type NodeType string

const (
	// NodeStart is the unique entry point of a flow.
	NodeStart NodeType = "start"
	// NodeEnd terminates the flow.
	NodeEnd NodeType = "end"
	// NodeMessage emits a message and continues immediately.
	NodeMessage NodeType = "message"
	// NodeButton emits a message with buttons and waits for a choice.
	NodeButton NodeType = "button"
	// NodeOptionList emits a message with a selectable list and waits.
	NodeOptionList NodeType = "option_list"
	// NodeWaitResponse waits for free-text input.
	NodeWaitResponse NodeType = "wait_response"
	// NodeConditional routes on variable conditions without emitting.
	NodeConditional NodeType = "conditional"
	// NodeSemanticConditions routes on AI-evaluated prompts. The local
	// engine only approximates this; real matching happens server-side.
	NodeSemanticConditions NodeType = "semantic_conditions"
	// NodeAgent hands the conversation to a server-side AI agent.
	NodeAgent NodeType = "agent"
	// NodeConnector is a silent pass-through used for graph layout.
	NodeConnector NodeType = "connector"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeStart, NodeEnd, NodeMessage, NodeButton, NodeOptionList,
		NodeWaitResponse, NodeConditional, NodeSemanticConditions,
		NodeAgent, NodeConnector:
		return true
	}
	return false
}

// ProducesVariable reports whether this node type captures user input
// as a variable (readable by downstream nodes).
func (t NodeType) ProducesVariable() bool {
	return t == NodeButton || t == NodeOptionList || t == NodeWaitResponse
}

// Blocking reports whether the engine halts at this node type and
// waits for external input before advancing.
func (t NodeType) Blocking() bool {
	switch t {
	case NodeButton, NodeOptionList, NodeWaitResponse,
		NodeSemanticConditions, NodeAgent:
		return true
	}
	return false
}

// Node is a vertex of the flow graph. Data carries the variant fields
// for the node's type; it is nil only for types without payload
// (start, end, connector may carry empty variants).
type Node struct {
	ID   string
	Type NodeType
	Data NodeData
}

// Button is a single pressable option attached to an outgoing message.
type Button struct {
	ID    string `json:"id" mapstructure:"id"`
	Label string `json:"label" mapstructure:"label"`
	Value string `json:"value,omitempty" mapstructure:"value"`
}

// ListOption is an entry of an option_list node.
type ListOption struct {
	ID          string `json:"id" mapstructure:"id"`
	Title       string `json:"title" mapstructure:"title"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// SemanticCondition is a prompt-based routing rule evaluated remotely.
type SemanticCondition struct {
	ID         string `json:"id" mapstructure:"id"`
	Prompt     string `json:"prompt" mapstructure:"prompt"`
	NextNodeID string `json:"next_node_id,omitempty" mapstructure:"next_node_id"`
}

// Timeout holds the inactivity routing configuration shared by the
// blocking node types. The local engine never schedules real delays;
// the fields exist so flows validate and so a driver can resume with
// the literal "timeout" handle.
type Timeout struct {
	Enabled    bool   `json:"timeout_enabled,omitempty" mapstructure:"timeout_enabled"`
	Seconds    int    `json:"timeout_seconds,omitempty" mapstructure:"timeout_seconds"`
	NextNodeID string `json:"timeout_next_node_id,omitempty" mapstructure:"timeout_next_node_id"`
}

// HandleTimeout is the reserved source handle for timeout edges.
const HandleTimeout = "timeout"

// HandleDefault is the reserved source handle for explicit default edges.
const HandleDefault = "default"
