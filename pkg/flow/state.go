package flow

// Status is the lifecycle state of one simulation.
type Status string

const (
	StatusPending      Status = "pending"
	StatusRunning      Status = "running"
	StatusWaitingInput Status = "waiting_input"
	StatusCompleted    Status = "completed"
	StatusError        Status = "error"
)

// Terminal reports whether no further processing can happen.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// State is the mutable snapshot of one running simulation. The engine
// mutates it on every advance; the graph it runs against is never
// touched.
type State struct {
	CurrentNodeID string         `json:"current_node_id,omitempty"`
	Variables     map[string]any `json:"variables"`
	Messages      []Message      `json:"messages"`
	Status        Status         `json:"status"`
}

// NewState creates a pending state positioned at the given node.
func NewState(startNodeID string) *State {
	return &State{
		CurrentNodeID: startNodeID,
		Variables:     make(map[string]any),
		Messages:      []Message{},
		Status:        StatusPending,
	}
}

// Clone returns a deep copy safe for independent mutation.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Variables = make(map[string]any, len(s.Variables))
	for k, v := range s.Variables {
		next.Variables[k] = v
	}
	next.Messages = make([]Message, len(s.Messages))
	copy(next.Messages, s.Messages)
	return &next
}

// Input is what a driver sends to resume a waiting simulation.
// Either field may be empty; ButtonID wins for routing.
type Input struct {
	Text     string `json:"text,omitempty"`
	ButtonID string `json:"button_id,omitempty"`
}

// Response is the shape returned by every simulation operation.
// Start returns the full transcript; SendInput returns only the
// messages appended by that call.
type Response struct {
	SimulationID    string         `json:"simulation_id"`
	Status          Status         `json:"status"`
	CurrentNodeID   string         `json:"current_node_id,omitempty"`
	Messages        []Message      `json:"messages"`
	WaitingForInput bool           `json:"waiting_for_input"`
	Variables       map[string]any `json:"variables"`
}
