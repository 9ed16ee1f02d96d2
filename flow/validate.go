package flow

import (
	"fmt"
	"strings"

	"github.com/BaSui01/flowcanvas/types"
)

// Validate checks the document's referential integrity. It collects every
// violation instead of stopping at the first one, so the returned diagnostic
// lists all offending fields. A non-nil error means the document must not be
// handed to any engine; prior state stays untouched.
func (d *Document) Validate() error {
	var problems []string
	var fields []string

	nodeIDs := make(map[string]*Node, len(d.Nodes))
	for i := range d.Nodes {
		node := &d.Nodes[i]
		field := fmt.Sprintf("nodes[%d]", i)
		if node.ID == "" {
			problems = append(problems, fmt.Sprintf("node at index %d has empty id", i))
			fields = append(fields, field+".id")
			continue
		}
		if _, dup := nodeIDs[node.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate node id %q", node.ID))
			fields = append(fields, field+".id")
			continue
		}
		if !node.Kind.Valid() {
			problems = append(problems, fmt.Sprintf("node %q has unknown kind %q", node.ID, node.Kind))
			fields = append(fields, field+".kind")
		}
		if node.Kind == types.NodeAgent && node.AgentType == "" {
			problems = append(problems, fmt.Sprintf("agent node %q has no agent type", node.ID))
			fields = append(fields, field+".agent_type")
		}
		nodeIDs[node.ID] = node
	}

	edgeIDs := make(map[string]bool, len(d.Edges))
	for i := range d.Edges {
		edge := &d.Edges[i]
		field := fmt.Sprintf("edges[%d]", i)
		if edge.ID == "" {
			problems = append(problems, fmt.Sprintf("edge at index %d has empty id", i))
			fields = append(fields, field+".id")
			continue
		}
		if edgeIDs[edge.ID] {
			problems = append(problems, fmt.Sprintf("duplicate edge id %q", edge.ID))
			fields = append(fields, field+".id")
			continue
		}
		edgeIDs[edge.ID] = true

		for _, end := range []struct {
			name string
			id   string
		}{{"source", edge.Source}, {"target", edge.Target}} {
			node, exists := nodeIDs[end.id]
			if end.id == "" || !exists {
				problems = append(problems, fmt.Sprintf("edge %q references non-existent %s node %q", edge.ID, end.name, end.id))
				fields = append(fields, field+"."+end.name)
				continue
			}
			if node.Kind != types.NodeAgent {
				problems = append(problems, fmt.Sprintf("edge %q %s %q is a %s node, want agent", edge.ID, end.name, end.id, node.Kind))
				fields = append(fields, field+"."+end.name)
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return types.NewValidationError(strings.Join(problems, "; "), fields...)
}
