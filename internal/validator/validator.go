// Package validator performs static checks on a flow graph before it
// is simulated: start node cardinality, dangling edge references,
// ambiguous handles, timeout configuration and unreachable nodes.
package validator

import (
	"fmt"
	"strings"

	"github.com/botwalk/botwalk/pkg/flow"
)

// Report collects the findings of a validation pass. Errors make the
// graph unusable; warnings flag constructs that run but rarely mean
// what the author intended.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the graph passed without errors.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Err folds the errors into a single error, or nil when the graph is
// valid.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidateGraph runs all checks and returns the report.
func ValidateGraph(g *flow.Graph) *Report {
	report := &Report{}

	start := checkStart(g, report)
	checkEdges(g, report)
	checkTimeouts(g, report)
	if start != nil {
		checkReachability(g, start.ID, report)
	}

	return report
}

func checkStart(g *flow.Graph, report *Report) *flow.Node {
	start, err := g.StartNode()
	if err != nil {
		report.errorf("%v", err)
		return nil
	}
	return start
}

func checkEdges(g *flow.Graph, report *Report) {
	// (source, handle) pairs already claimed, to flag ambiguity.
	claimed := make(map[string]string)

	for _, e := range g.Edges {
		if g.FindNode(e.Source) == nil {
			report.errorf("edge %q: source node %q does not exist", e.ID, e.Source)
		}
		if g.FindNode(e.Target) == nil {
			report.errorf("edge %q: target node %q does not exist", e.ID, e.Target)
		}

		key := e.Source + "\x00" + e.SourceHandle
		if prev, dup := claimed[key]; dup {
			handle := e.SourceHandle
			if handle == "" {
				handle = "(unconditional)"
			}
			report.warnf("node %q has multiple edges for handle %s (%q and %q); only the first will ever fire",
				e.Source, handle, prev, e.ID)
			continue
		}
		claimed[key] = e.ID
	}
}

// checkTimeouts inspects the blocking node types that carry timeout
// configuration. The local engine never schedules the delay, but the
// production runtime does, so a nonsensical setup is worth flagging.
func checkTimeouts(g *flow.Graph, report *Report) {
	for i := range g.Nodes {
		n := &g.Nodes[i]

		var t flow.Timeout
		switch data := n.Data.(type) {
		case flow.ButtonData:
			t = data.Timeout
		case flow.OptionListData:
			t = data.Timeout
		case flow.WaitResponseData:
			t = data.Timeout
		default:
			continue
		}
		if !t.Enabled {
			continue
		}

		if t.Seconds < 1 {
			report.warnf("node %q enables a timeout of %d seconds; the minimum is 1", n.ID, t.Seconds)
		}
		if t.NextNodeID != "" && g.FindNode(t.NextNodeID) == nil {
			report.warnf("node %q: timeout target %q does not exist", n.ID, t.NextNodeID)
		}
	}
}

// checkReachability crawls forward from the start node and reports
// every node the walk can never visit.
func checkReachability(g *flow.Graph, startID string, report *Report) {
	visited := make(map[string]bool)
	queue := []string{startID}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		for _, e := range g.EdgesFrom(currentID) {
			if !visited[e.Target] {
				queue = append(queue, e.Target)
			}
		}
	}

	for _, n := range g.Nodes {
		if !visited[n.ID] {
			report.warnf("node %q (%s) is unreachable from the start node", n.ID, n.Type)
		}
	}
}
