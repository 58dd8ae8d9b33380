// Package variables resolves which runtime variables a node can read
// and substitutes {{name}} placeholders in message content.
//
// Variables are keyed by the producing node's id, not by a user-chosen
// identifier, so a node can only ever reference values bound strictly
// upstream of it.
package variables

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/botwalk/botwalk/pkg/flow"
)

// placeholderRe matches {{identifier}} where identifier is word
// characters and hyphens. Malformed braces stay literal text.
var placeholderRe = regexp.MustCompile(`\{\{([\w-]+)\}\}`)

// Descriptor describes one variable available at a node.
type Descriptor struct {
	// Name is the producing node's id: the key used at runtime.
	Name string `json:"name"`
	// Label is the human-facing name (variable_name, node label, or id).
	Label string `json:"label"`
	// PossibleValues enumerates button/option choices; empty for free text.
	PossibleValues []flow.Button `json:"possible_values,omitempty"`
}

// UpstreamNodeIDs returns every ancestor of nodeID reachable by
// walking edges backward (target to source), deduplicated and
// cycle-safe. The node itself is never included.
func UpstreamNodeIDs(nodeID string, edges []flow.Edge) []string {
	visited := map[string]bool{nodeID: true}
	var out []string

	var walk func(id string)
	walk = func(id string) {
		for _, e := range edges {
			if e.Target != id || visited[e.Source] {
				continue
			}
			visited[e.Source] = true
			out = append(out, e.Source)
			walk(e.Source)
		}
	}
	walk(nodeID)
	return out
}

// Available collects the variables readable at nodeID: one descriptor
// per upstream variable producer, deduplicated by name and sorted by
// label for stable display.
func Available(nodeID string, g *flow.Graph) []Descriptor {
	seen := make(map[string]bool)
	var out []Descriptor

	for _, id := range UpstreamNodeIDs(nodeID, g.Edges) {
		node := g.FindNode(id)
		if node == nil || seen[node.ID] {
			continue
		}
		d, ok := FromNode(node)
		if !ok {
			continue
		}
		seen[node.ID] = true
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// FromNode extracts the variable a node produces, if any. Only
// button, option_list and wait_response nodes capture user input.
func FromNode(n *flow.Node) (Descriptor, bool) {
	switch data := n.Data.(type) {
	case flow.ButtonData:
		return Descriptor{
			Name:           n.ID,
			Label:          firstNonEmpty(data.VariableName, data.Label, n.ID),
			PossibleValues: data.Buttons,
		}, true
	case flow.OptionListData:
		values := make([]flow.Button, 0, len(data.Options))
		for _, opt := range data.Options {
			values = append(values, flow.Button{ID: opt.ID, Label: opt.Title})
		}
		return Descriptor{
			Name:           n.ID,
			Label:          firstNonEmpty(data.VariableName, data.Label, n.ID),
			PossibleValues: values,
		}, true
	case flow.WaitResponseData:
		return Descriptor{
			Name:  n.ID,
			Label: firstNonEmpty(data.VariableName, data.Label, n.ID),
		}, true
	}
	return Descriptor{}, false
}

// Substitute replaces every bound {{name}} in template with the
// string form of its value. Unbound placeholders are left intact so
// authors can see what failed to resolve.
func Substitute(template string, vars map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		value, ok := vars[name]
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", value)
	})
}

// Names returns the deduplicated placeholder identifiers in template,
// in order of first appearance.
func Names(template string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
