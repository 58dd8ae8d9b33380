package runtime

import "github.com/botwalk/botwalk/pkg/flow"

// NextNode resolves the node to visit after nodeID: the first edge
// matching the handle, else the first outgoing edge regardless of its
// handle. Empty result means no route: the caller treats that as flow
// termination, not an error.
func NextNode(g *flow.Graph, nodeID, handle string) string {
	if handle != "" {
		for _, e := range g.Edges {
			if e.Source == nodeID && e.SourceHandle == handle {
				return e.Target
			}
		}
	}
	for _, e := range g.Edges {
		if e.Source == nodeID {
			return e.Target
		}
	}
	return ""
}
