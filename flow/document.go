package flow

import (
	"github.com/BaSui01/flowcanvas/types"
)

// UnorderedEdge is the order value of an edge that does not participate in
// the initial ordering (it is triggered later, e.g. by a nested chat).
const UnorderedEdge = -1

// NestedChatKey is the handoff-record target key used for an agent's nested
// chat slot, which has no edge id of its own.
const NestedChatKey = "nested-chat"

// Position represents canvas coordinates for a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NestedChatMessage references an edge routed as a nested sub-conversation.
type NestedChatMessage struct {
	ID string `json:"id"`
}

// NestedChat is a sub-conversation structure owned by an agent node. Its
// Order participates in the same ordering space as the agent's direct edges.
type NestedChat struct {
	Messages []NestedChatMessage `json:"messages"`
	Order    int                 `json:"order"`
}

// Availability describes when a handoff target may be offered. Type "none"
// means always available; type "expression" carries an expr-language
// expression evaluated against the run context.
type Availability struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// HandoffRecord stores the user-edited condition and availability for one
// handoff target, keyed by the target edge id (or NestedChatKey).
type HandoffRecord struct {
	TargetID  string       `json:"target_id"`
	Order     int          `json:"order"`
	Condition string       `json:"condition,omitempty"`
	Available Availability `json:"available,omitempty"`
}

// AfterWork is an agent's terminal handoff target. It is excluded from the
// reorderable target list and always evaluated last.
type AfterWork struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

// Node is a typed vertex on the canvas.
type Node struct {
	ID          string          `json:"id"`
	Kind        types.NodeKind  `json:"kind"`
	AgentType   types.AgentType `json:"agent_type,omitempty"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	// ParentID is a weak reference to the owning group manager. It does not
	// own the child; deleting the parent leaves the child in place.
	ParentID    string          `json:"parent_id,omitempty"`
	Position    Position        `json:"position"`
	Hidden      bool            `json:"hidden,omitempty"`
	Handoffs    []HandoffRecord `json:"handoffs,omitempty"`
	NestedChats []NestedChat    `json:"nested_chats,omitempty"`
	AfterWork   *AfterWork      `json:"after_work,omitempty"`
}

// InGroup reports whether the node belongs to a group.
func (n *Node) InGroup() bool {
	return n.ParentID != ""
}

// IsGroupManager reports whether the node is a group manager agent.
func (n *Node) IsGroupManager() bool {
	return n.Kind == types.NodeAgent && n.AgentType == types.AgentGroupManager
}

// EdgeNestedChat is the message/reply payload of a nested sub-conversation.
type EdgeNestedChat struct {
	Message string `json:"message,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

// EdgeData carries the conversational payload of an edge.
type EdgeData struct {
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	// Order >= 0 means the edge participates in the initial ordering;
	// UnorderedEdge means it is triggered later.
	Order int `json:"order"`
	// Position is a cosmetic 1-based index within same-type siblings.
	Position int `json:"position,omitempty"`
	// Prerequisites lists edge ids this edge waits on (async mode only).
	Prerequisites []string        `json:"prerequisites,omitempty"`
	ClearHistory  bool            `json:"clear_history,omitempty"`
	MaxTurns      int             `json:"max_turns,omitempty"`
	Message       string          `json:"message,omitempty"`
	NestedChat    *EdgeNestedChat `json:"nested_chat,omitempty"`
	Condition     string          `json:"condition,omitempty"`
	Available     Availability    `json:"available,omitempty"`
}

// Edge is a directed connection between two agent nodes.
type Edge struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Type     types.ChatType `json:"type"`
	Hidden   bool           `json:"hidden,omitempty"`
	Animated bool           `json:"animated,omitempty"`
	Data     EdgeData       `json:"data"`
}

// Ordered reports whether the edge participates in the initial ordering.
func (e *Edge) Ordered() bool {
	return e.Data.Order >= 0
}

// Document is the aggregate a flow editor session operates on.
type Document struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	IsAsync      bool     `json:"is_async,omitempty"`
	CacheSeed    *int     `json:"cache_seed,omitempty"`
	Nodes        []Node   `json:"nodes"`
	Edges        []Edge   `json:"edges"`
}

// Empty reports whether the document has no nodes and no edges.
func (d *Document) Empty() bool {
	return len(d.Nodes) == 0 && len(d.Edges) == 0
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// Edge returns the edge with the given id.
func (d *Document) Edge(id string) (*Edge, bool) {
	for i := range d.Edges {
		if d.Edges[i].ID == id {
			return &d.Edges[i], true
		}
	}
	return nil, false
}

// AgentEdges returns the outgoing edges of the given agent whose targets
// share the agent's group. These are the candidates for handoff resolution.
func (d *Document) AgentEdges(agentID string) []Edge {
	agent, ok := d.Node(agentID)
	if !ok {
		return nil
	}
	var out []Edge
	for _, e := range d.Edges {
		if e.Source != agentID {
			continue
		}
		target, ok := d.Node(e.Target)
		if !ok {
			continue
		}
		if agent.ParentID != "" && target.ParentID == agent.ParentID {
			out = append(out, e)
		}
	}
	return out
}
