package flow

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// NodeData is the tagged union of per-type node payloads. Each node
// type has exactly one variant; the engine type-switches on it, so an
// invalid field access is a compile-time error rather than a runtime
// map lookup.
type NodeData interface {
	nodeData()
}

// StartData has no payload.
type StartData struct{}

// EndData has no payload.
type EndData struct{}

// ConnectorData has no payload.
type ConnectorData struct{}

// MessageData configures a message node.
type MessageData struct {
	Content     string      `json:"content,omitempty" mapstructure:"content"`
	MessageType MessageType `json:"message_type,omitempty" mapstructure:"message_type"`
	MediaURL    string      `json:"media_url,omitempty" mapstructure:"media_url"`
}

// ButtonData configures a button node.
type ButtonData struct {
	Label             string   `json:"label,omitempty" mapstructure:"label"`
	Content           string   `json:"content,omitempty" mapstructure:"content"`
	Buttons           []Button `json:"buttons,omitempty" mapstructure:"buttons"`
	VariableName      string   `json:"variable_name,omitempty" mapstructure:"variable_name"`
	DefaultNextNodeID string   `json:"default_next_node_id,omitempty" mapstructure:"default_next_node_id"`
	Timeout           `mapstructure:",squash"`
}

// OptionListData configures an option_list node.
type OptionListData struct {
	Label             string       `json:"label,omitempty" mapstructure:"label"`
	Content           string       `json:"content,omitempty" mapstructure:"content"`
	Options           []ListOption `json:"options,omitempty" mapstructure:"options"`
	ListTitle         string       `json:"list_title,omitempty" mapstructure:"list_title"`
	ListButtonLabel   string       `json:"list_button_label,omitempty" mapstructure:"list_button_label"`
	VariableName      string       `json:"variable_name,omitempty" mapstructure:"variable_name"`
	DefaultNextNodeID string       `json:"default_next_node_id,omitempty" mapstructure:"default_next_node_id"`
	Timeout           `mapstructure:",squash"`
}

// WaitResponseData configures a wait_response node.
type WaitResponseData struct {
	Label             string `json:"label,omitempty" mapstructure:"label"`
	Content           string `json:"content,omitempty" mapstructure:"content"`
	VariableName      string `json:"variable_name,omitempty" mapstructure:"variable_name"`
	DefaultNextNodeID string `json:"default_next_node_id,omitempty" mapstructure:"default_next_node_id"`
	Timeout           `mapstructure:",squash"`
}

// ConditionalData configures a conditional node.
type ConditionalData struct {
	Conditions        []Condition `json:"conditions,omitempty" mapstructure:"conditions"`
	DefaultNextNodeID string      `json:"default_next_node_id,omitempty" mapstructure:"default_next_node_id"`
}

// SemanticConditionsData configures a semantic_conditions node.
type SemanticConditionsData struct {
	Content           string              `json:"content,omitempty" mapstructure:"content"`
	Conditions        []SemanticCondition `json:"semantic_conditions,omitempty" mapstructure:"semantic_conditions"`
	DefaultNextNodeID string              `json:"default_next_node_id,omitempty" mapstructure:"default_next_node_id"`
}

// AgentData configures an agent node.
type AgentData struct {
	WelcomeMessage string `json:"agent_welcome_message,omitempty" mapstructure:"agent_welcome_message"`
}

func (StartData) nodeData()              {}
func (EndData) nodeData()                {}
func (ConnectorData) nodeData()          {}
func (MessageData) nodeData()            {}
func (ButtonData) nodeData()             {}
func (OptionListData) nodeData()         {}
func (WaitResponseData) nodeData()       {}
func (ConditionalData) nodeData()        {}
func (SemanticConditionsData) nodeData() {}
func (AgentData) nodeData()              {}

// DecodeData converts the raw per-node data bag (as found in a flow
// document) into the variant matching the node type. Unknown fields
// are ignored: the editor stores presentation-only keys (label,
// colors, viewport hints) in the same bag.
func DecodeData(t NodeType, raw map[string]any) (NodeData, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, t)
	}

	var target NodeData
	switch t {
	case NodeStart:
		return StartData{}, nil
	case NodeEnd:
		return EndData{}, nil
	case NodeConnector:
		return ConnectorData{}, nil
	case NodeMessage:
		target = &MessageData{}
	case NodeButton:
		target = &ButtonData{}
	case NodeOptionList:
		target = &OptionListData{}
	case NodeWaitResponse:
		target = &WaitResponseData{}
	case NodeConditional:
		target = &ConditionalData{}
	case NodeSemanticConditions:
		target = &SemanticConditionsData{}
	case NodeAgent:
		target = &AgentData{}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: target,
		// JSON decodes numbers as float64; timeout_seconds is an int.
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", t, err)
	}

	switch v := target.(type) {
	case *MessageData:
		if v.MessageType == "" {
			v.MessageType = MessageText
		}
		return *v, nil
	case *ButtonData:
		return *v, nil
	case *OptionListData:
		return *v, nil
	case *WaitResponseData:
		return *v, nil
	case *ConditionalData:
		return *v, nil
	case *SemanticConditionsData:
		return *v, nil
	case *AgentData:
		return *v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, t)
}
