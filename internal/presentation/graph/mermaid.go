// Package graph exports flow graphs as Mermaid flowcharts for
// documentation and debugging.
package graph

import (
	"fmt"
	"strings"

	"github.com/botwalk/botwalk/pkg/flow"
)

// Overlay contains dynamic state to visualize on the graph.
type Overlay struct {
	CurrentNode string
}

// GenerateMermaid produces Mermaid flowchart syntax from a flow graph.
// Shapes follow the node semantics:
//   - start / end: ((circle))
//   - input nodes (button, option_list, wait_response): [/parallelogram/]
//   - conditional, semantic_conditions: {diamond}
//   - everything else: [rectangle]
func GenerateMermaid(g *flow.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Type {
		case flow.NodeStart, flow.NodeEnd:
			opener, closer = "((", "))"
		case flow.NodeButton, flow.NodeOptionList, flow.NodeWaitResponse:
			opener, closer = "[/", "/]"
		case flow.NodeConditional, flow.NodeSemanticConditions:
			opener, closer = "{", "}"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer))
	}

	for _, e := range g.Edges {
		safeFrom := sanitizeMermaidID(e.Source)
		safeTo := sanitizeMermaidID(e.Target)

		arrow := "-->"
		if e.SourceHandle != "" {
			safeHandle := strings.ReplaceAll(e.SourceHandle, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", safeHandle)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeFrom, arrow, safeTo))
	}

	if overlay != nil && overlay.CurrentNode != "" {
		sb.WriteString("\n    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
