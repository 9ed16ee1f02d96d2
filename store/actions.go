package store

import (
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/merge"
	"github.com/BaSui01/flowcanvas/types"
)

// Action is a request to transform the document state. Actions are plain
// data; all behavior lives in Reduce.
type Action interface {
	actionName() string
}

// AddNode places a new node on the canvas.
type AddNode struct {
	Node flow.Node
}

// RemoveNode deletes a node and cascades to every edge touching it.
type RemoveNode struct {
	ID string
}

// AddEdge connects two agent nodes. The edge id is generated when empty;
// the chat type, style flags, and order are derived, never taken as given.
type AddEdge struct {
	ID     string
	Source string
	Target string
	Label  string
}

// RemoveEdge deletes an edge. Deleting the last ordered edge is refused.
type RemoveEdge struct {
	ID string
}

// MoveEdge shifts an edge one step in the sorted ordering view.
type MoveEdge struct {
	ID string
	Up bool
}

// ReorderHandoffs swaps two positions in an agent's handoff target list.
type ReorderHandoffs struct {
	AgentID string
	I, J    int
}

// SetAsync switches the document's ordering discipline.
type SetAsync struct {
	Async bool
}

// Import merges an external document into the current one.
type Import struct {
	Selection   merge.Selection
	Document    flow.Document
	VisibleKind types.NodeKind
}

func (AddNode) actionName() string         { return "add_node" }
func (RemoveNode) actionName() string      { return "remove_node" }
func (AddEdge) actionName() string         { return "add_edge" }
func (RemoveEdge) actionName() string      { return "remove_edge" }
func (MoveEdge) actionName() string        { return "move_edge" }
func (ReorderHandoffs) actionName() string { return "reorder_handoffs" }
func (SetAsync) actionName() string        { return "set_async" }
func (Import) actionName() string          { return "import" }

// Name returns the wire name of an action for logging and metrics.
func Name(a Action) string {
	if a == nil {
		return "none"
	}
	return a.actionName()
}
