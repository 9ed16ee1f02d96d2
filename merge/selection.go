package merge

import "github.com/BaSui01/flowcanvas/types"

// NodeSelection filters which node categories participate in an import.
type NodeSelection struct {
	Models bool `json:"models"`
	Tools  bool `json:"tools"`
	Agents bool `json:"agents"`
}

// Selection enumerates which top-level fields and node categories of the
// imported document participate in a load.
type Selection struct {
	Everything   bool          `json:"everything"`
	Override     bool          `json:"override"`
	Name         bool          `json:"name"`
	Description  bool          `json:"description"`
	Tags         bool          `json:"tags"`
	Requirements bool          `json:"requirements"`
	IsAsync      bool          `json:"is_async"`
	CacheSeed    bool          `json:"cache_seed"`
	Nodes        NodeSelection `json:"nodes"`
}

// Everything returns a selection with every field and category enabled.
func EverythingSelected() Selection {
	return Selection{
		Everything: true,
		Name:       true, Description: true, Tags: true, Requirements: true,
		IsAsync: true, CacheSeed: true,
		Nodes: NodeSelection{Models: true, Tools: true, Agents: true},
	}
}

// normalized expands the Everything shorthand into the individual flags.
func (s Selection) normalized() Selection {
	if !s.Everything {
		return s
	}
	out := s
	out.Name = true
	out.Description = true
	out.Tags = true
	out.Requirements = true
	out.IsAsync = true
	out.CacheSeed = true
	out.Nodes = NodeSelection{Models: true, Tools: true, Agents: true}
	return out
}

// includesKind reports whether the selection admits nodes of the kind.
func (s Selection) includesKind(kind types.NodeKind) bool {
	switch kind {
	case types.NodeModel:
		return s.Nodes.Models
	case types.NodeTool:
		return s.Nodes.Tools
	case types.NodeAgent:
		return s.Nodes.Agents
	}
	return false
}
