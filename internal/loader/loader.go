// Package loader reads flow documents from disk. Documents are the
// editor's export format: a name plus nodes and edges, in JSON or
// YAML. Canvas-only fields (positions, viewport) are ignored.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/botwalk/botwalk/pkg/flow"
)

// Document is a parsed flow document.
type Document struct {
	Name  string
	Graph *flow.Graph
}

// Load reads and parses the document at path. The format is chosen by
// extension (.json is JSON, anything else YAML); Parse sniffs when the
// extension lies.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flow document: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if doc.Name == "" {
		doc.Name = strippedName(path)
	}
	return doc, nil
}

// Parse decodes a flow document from JSON or YAML bytes.
func Parse(data []byte) (*Document, error) {
	if isJSON(data) {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func isJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

func parseJSON(data []byte) (*Document, error) {
	var doc struct {
		Name  string      `json:"name"`
		Nodes []flow.Node `json:"nodes"`
		Edges []flow.Edge `json:"edges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	g, err := flow.NewGraph(doc.Nodes, doc.Edges)
	if err != nil {
		return nil, err
	}
	return &Document{Name: doc.Name, Graph: g}, nil
}

func parseYAML(data []byte) (*Document, error) {
	var doc struct {
		Name  string           `yaml:"name"`
		Nodes []map[string]any `yaml:"nodes"`
		Edges []map[string]any `yaml:"edges"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	nodes := make([]flow.Node, 0, len(doc.Nodes))
	for _, raw := range doc.Nodes {
		n, err := flow.NodeFromMap(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}

	edges := make([]flow.Edge, 0, len(doc.Edges))
	for _, raw := range doc.Edges {
		edges = append(edges, flow.EdgeFromMap(raw))
	}

	g, err := flow.NewGraph(nodes, edges)
	if err != nil {
		return nil, err
	}
	return &Document{Name: doc.Name, Graph: g}, nil
}

func strippedName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
