package flow

import (
	"encoding/json"
	"fmt"
)

// Edge is a directed arc between two nodes. SourceHandle selects
// which logical output of the source the edge belongs to (a button
// id, a condition id, "default", or "timeout"); empty means the
// unconditional output.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"source_handle,omitempty"`
	TargetHandle string `json:"target_handle,omitempty"`
}

// Graph is a frozen flow snapshot: nodes, edges in document order,
// and an id index. Construct with NewGraph; never mutate afterwards.
type Graph struct {
	Nodes []Node
	Edges []Edge

	byID map[string]int
}

// NewGraph indexes the given nodes and edges. It rejects duplicate
// node ids; everything else (dangling edges, missing start) is left
// to the validator and the engine, which report those conditions in
// their own terms.
func NewGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		Nodes: nodes,
		Edges: edges,
		byID:  make(map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		if _, dup := g.byID[n.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
		}
		g.byID[n.ID] = i
	}
	return g, nil
}

// FindNode returns the node with the given id, or nil.
func (g *Graph) FindNode(id string) *Node {
	if id == "" {
		return nil
	}
	i, ok := g.byID[id]
	if !ok {
		return nil
	}
	return &g.Nodes[i]
}

// EdgesFrom returns all edges whose source is the given node, in
// document order.
func (g *Graph) EdgesFrom(nodeID string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// StartNode locates the unique start node.
func (g *Graph) StartNode() (*Node, error) {
	var start *Node
	for i := range g.Nodes {
		if g.Nodes[i].Type != NodeStart {
			continue
		}
		if start != nil {
			return nil, ErrMultipleStartNodes
		}
		start = &g.Nodes[i]
	}
	if start == nil {
		return nil, ErrNoStartNode
	}
	return start, nil
}

// UnmarshalJSON accepts both the persisted snake_case handle keys and
// the camelCase keys found in raw canvas exports.
func (e *Edge) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID           string `json:"id"`
		Source       string `json:"source"`
		Target       string `json:"target"`
		SourceHandle string `json:"source_handle"`
		TargetHandle string `json:"target_handle"`
		SourceCamel  string `json:"sourceHandle"`
		TargetCamel  string `json:"targetHandle"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.ID = raw.ID
	e.Source = raw.Source
	e.Target = raw.Target
	e.SourceHandle = raw.SourceHandle
	if e.SourceHandle == "" {
		e.SourceHandle = raw.SourceCamel
	}
	e.TargetHandle = raw.TargetHandle
	if e.TargetHandle == "" {
		e.TargetHandle = raw.TargetCamel
	}
	return nil
}

// EdgeFromMap builds an edge from a generic document map (YAML path).
func EdgeFromMap(raw map[string]any) Edge {
	str := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := raw[k].(string); ok && v != "" {
				return v
			}
		}
		return ""
	}
	return Edge{
		ID:           str("id"),
		Source:       str("source"),
		Target:       str("target"),
		SourceHandle: str("source_handle", "sourceHandle"),
		TargetHandle: str("target_handle", "targetHandle"),
	}
}

// nodeEnvelope is the wire shape of a node before the data bag is
// resolved into its typed variant.
type nodeEnvelope struct {
	ID   string         `json:"id"`
	Type NodeType       `json:"type"`
	Data map[string]any `json:"data"`
}

// UnmarshalJSON decodes the editor's node shape, resolving the data
// bag into the variant for the declared type.
func (n *Node) UnmarshalJSON(b []byte) error {
	var env nodeEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	return n.fromEnvelope(env.ID, env.Type, env.Data)
}

// MarshalJSON re-emits the envelope shape so graphs round-trip.
func (n Node) MarshalJSON() ([]byte, error) {
	data, err := dataToMap(n.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeEnvelope{ID: n.ID, Type: n.Type, Data: data})
}

// NodeFromMap builds a typed node from a generic document map (the
// YAML path; JSON goes through UnmarshalJSON).
func NodeFromMap(raw map[string]any) (Node, error) {
	var n Node
	id, _ := raw["id"].(string)
	typ, _ := raw["type"].(string)
	data, _ := raw["data"].(map[string]any)
	err := n.fromEnvelope(id, NodeType(typ), data)
	return n, err
}

func (n *Node) fromEnvelope(id string, t NodeType, raw map[string]any) error {
	if id == "" {
		return fmt.Errorf("node missing id")
	}
	data, err := DecodeData(t, raw)
	if err != nil {
		return fmt.Errorf("node %s: %w", id, err)
	}
	n.ID = id
	n.Type = t
	n.Data = data
	return nil
}

func dataToMap(d NodeData) (map[string]any, error) {
	if d == nil {
		return map[string]any{}, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
