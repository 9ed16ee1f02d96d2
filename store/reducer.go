package store

import (
	"github.com/google/uuid"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/graph"
	"github.com/BaSui01/flowcanvas/handoff"
	"github.com/BaSui01/flowcanvas/merge"
	"github.com/BaSui01/flowcanvas/ordering"
	"github.com/BaSui01/flowcanvas/types"
)

// State is one immutable snapshot of the editor's document. Version
// increases by one per committed transformation. Ordering holds the stats
// of the prerequisite recompute that produced this snapshot; it is the zero
// value for commits that did not recompute (sync mode, node-only edits).
type State struct {
	Doc      flow.Document
	Version  uint64
	Ordering ordering.Stats
}

// Reduce applies an action to a state snapshot and returns the next state.
// It never mutates its input. A non-nil Notice means the action was refused
// by policy and the returned state equals the input; a non-nil error means
// the action was invalid and the input state stands as well.
func Reduce(state State, action Action) (State, *types.Notice, error) {
	switch a := action.(type) {
	case AddNode:
		return reduceAddNode(state, a)
	case RemoveNode:
		return reduceRemoveNode(state, a)
	case AddEdge:
		return reduceAddEdge(state, a)
	case RemoveEdge:
		return reduceRemoveEdge(state, a)
	case MoveEdge:
		return reduceMoveEdge(state, a)
	case ReorderHandoffs:
		return reduceReorderHandoffs(state, a)
	case SetAsync:
		return reduceSetAsync(state, a)
	case Import:
		return reduceImport(state, a)
	default:
		return state, nil, types.NewErrorf(types.ErrInvalidRequest, "unknown action %T", action)
	}
}

func commit(state State, doc flow.Document) State {
	return State{Doc: doc, Version: state.Version + 1}
}

func commitReordered(state State, doc flow.Document, stats ordering.Stats) State {
	next := commit(state, doc)
	next.Ordering = stats
	return next
}

func reduceAddNode(state State, a AddNode) (State, *types.Notice, error) {
	node := a.Node.Clone()
	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	if !node.Kind.Valid() {
		return state, nil, types.NewValidationError("node kind is not recognized", "node.kind")
	}
	if node.Kind == types.NodeAgent && node.AgentType == "" {
		return state, nil, types.NewValidationError("agent node needs an agent type", "node.agent_type")
	}
	if _, exists := state.Doc.Node(node.ID); exists {
		return state, nil, types.NewValidationError("node id already exists", "node.id")
	}

	doc := state.Doc.Clone()
	doc.Nodes = append(doc.Nodes, node)
	return commit(state, doc), nil, nil
}

func reduceRemoveNode(state State, a RemoveNode) (State, *types.Notice, error) {
	if _, ok := state.Doc.Node(a.ID); !ok {
		return state, nil, types.NewErrorf(types.ErrNotFound, "node %s not found", a.ID)
	}

	doc := state.Doc.Clone()
	nodes := doc.Nodes[:0]
	for _, n := range doc.Nodes {
		if n.ID != a.ID {
			nodes = append(nodes, n)
		}
	}
	doc.Nodes = nodes

	// Deleting a node cascades to every edge it owns an endpoint of.
	edges := doc.Edges[:0]
	for _, e := range doc.Edges {
		if e.Source != a.ID && e.Target != a.ID {
			edges = append(edges, e)
		}
	}
	doc.Edges = edges

	var (
		stats ordering.Stats
		err   error
	)
	doc.Edges, stats, err = restoreOrdering(&doc)
	if err != nil {
		return state, nil, err
	}
	return commitReordered(state, doc, stats), nil, nil
}

func reduceAddEdge(state State, a AddEdge) (State, *types.Notice, error) {
	source, ok := state.Doc.Node(a.Source)
	if !ok {
		return state, nil, types.NewValidationError("edge source does not exist", "edge.source")
	}
	target, ok := state.Doc.Node(a.Target)
	if !ok {
		return state, nil, types.NewValidationError("edge target does not exist", "edge.target")
	}
	if source.Kind != types.NodeAgent || target.Kind != types.NodeAgent {
		return state, nil, types.NewValidationError("edges connect agent nodes only", "edge.source", "edge.target")
	}

	topo := graph.Topology{Nodes: state.Doc.Nodes, Edges: state.Doc.Edges}
	if rejection := graph.CheckConnection(source, target, topo); rejection != nil {
		return state, rejection, nil
	}

	chatType := graph.Classify(types.ChatDefault, source, target)
	id := a.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := state.Doc.Edge(id); exists {
		return state, nil, types.NewValidationError("edge id already exists", "edge.id")
	}

	edge := flow.Edge{
		ID:       id,
		Source:   a.Source,
		Target:   a.Target,
		Type:     chatType,
		Hidden:   chatType == types.ChatHidden,
		Animated: graph.Animated(chatType, source, target),
		Data:     flow.EdgeData{Label: a.Label, Order: flow.UnorderedEdge},
	}

	doc := state.Doc.Clone()
	doc.Edges = append(doc.Edges, edge)

	// Plain chat edges join the ordered set at the tail; group and hidden
	// edges stay outside the execution ordering.
	var err error
	if chatType == types.ChatDefault {
		doc.Edges, err = ordering.Append(doc.Edges, id)
		if err != nil {
			return state, nil, err
		}
	}
	var stats ordering.Stats
	doc.Edges, stats, err = restoreOrdering(&doc)
	if err != nil {
		return state, nil, err
	}
	return commitReordered(state, doc, stats), nil, nil
}

func reduceRemoveEdge(state State, a RemoveEdge) (State, *types.Notice, error) {
	pos := -1
	for i := range state.Doc.Edges {
		if state.Doc.Edges[i].ID == a.ID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return state, nil, types.NewErrorf(types.ErrNotFound, "edge %s not found", a.ID)
	}

	edges, notice, err := ordering.Remove(state.Doc.Edges, a.ID)
	if err != nil {
		return state, nil, err
	}
	if notice != nil {
		return state, notice, nil
	}

	doc := state.Doc.Clone()
	doc.Edges = append(edges[:pos:pos], edges[pos+1:]...)
	var stats ordering.Stats
	doc.Edges, stats, err = restoreOrdering(&doc)
	if err != nil {
		return state, nil, err
	}
	return commitReordered(state, doc, stats), nil, nil
}

func reduceMoveEdge(state State, a MoveEdge) (State, *types.Notice, error) {
	// Async orders are derived from prerequisites, never set directly.
	if state.Doc.IsAsync {
		return state, types.Reject("edge order is derived from prerequisites while async mode is on"), nil
	}

	move := ordering.MoveDown
	if a.Up {
		move = ordering.MoveUp
	}
	edges, err := move(state.Doc.Edges, a.ID)
	if err != nil {
		return state, nil, err
	}

	doc := state.Doc.Clone()
	doc.Edges = edges
	return commit(state, doc), nil, nil
}

func reduceReorderHandoffs(state State, a ReorderHandoffs) (State, *types.Notice, error) {
	agent, ok := state.Doc.Node(a.AgentID)
	if !ok {
		return state, nil, types.NewErrorf(types.ErrNotFound, "agent %s not found", a.AgentID)
	}

	namer := func(id string) string {
		if n, ok := state.Doc.Node(id); ok && n.Label != "" {
			return n.Label
		}
		return id
	}

	update, err := handoff.Swap(agent, state.Doc.AgentEdges(a.AgentID), a.I, a.J, namer)
	if err != nil {
		return state, nil, err
	}

	doc := state.Doc.Clone()
	for i := range doc.Nodes {
		if doc.Nodes[i].ID == a.AgentID {
			doc.Nodes[i].Handoffs = update.Handoffs
			doc.Nodes[i].NestedChats = update.NestedChats
			break
		}
	}
	return commit(state, doc), nil, nil
}

func reduceSetAsync(state State, a SetAsync) (State, *types.Notice, error) {
	if state.Doc.IsAsync == a.Async {
		return state, nil, nil
	}
	doc := state.Doc.Clone()
	doc.IsAsync = a.Async

	var (
		stats ordering.Stats
		err   error
	)
	doc.Edges, stats, err = restoreOrdering(&doc)
	if err != nil {
		return state, nil, err
	}
	return commitReordered(state, doc, stats), nil, nil
}

func reduceImport(state State, a Import) (State, *types.Notice, error) {
	merged, err := merge.Load(a.Selection, &state.Doc, &a.Document, a.VisibleKind)
	if err != nil {
		return state, nil, err
	}
	return commit(state, *merged), nil, nil
}

// restoreOrdering re-establishes the ordering invariant for the document's
// active discipline. In async mode it reports the recompute stats so callers
// can surface them without re-deriving the orders.
func restoreOrdering(doc *flow.Document) ([]flow.Edge, ordering.Stats, error) {
	if doc.IsAsync {
		return ordering.RecomputeWithStats(doc.Edges)
	}
	return ordering.Resequence(doc.Edges), ordering.Stats{}, nil
}
