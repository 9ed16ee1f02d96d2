package ordering

import (
	"sort"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// sortedOrderedIndexes returns the indexes of the order>=0 edges, sorted the
// way the user sees them: by order, then cosmetic position, then id.
func sortedOrderedIndexes(edges []flow.Edge) []int {
	var idx []int
	for i := range edges {
		if edges[i].Ordered() {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := &edges[idx[a]], &edges[idx[b]]
		if ea.Data.Order != eb.Data.Order {
			return ea.Data.Order < eb.Data.Order
		}
		if ea.Data.Position != eb.Data.Position {
			return ea.Data.Position < eb.Data.Position
		}
		return ea.ID < eb.ID
	})
	return idx
}

// Resequence renumbers the order>=0 subset into a dense 0..N-1 sequence,
// preserving the currently sorted view. Edges with order=-1 are untouched.
func Resequence(edges []flow.Edge) []flow.Edge {
	out := flow.CloneEdges(edges)
	for seq, i := range sortedOrderedIndexes(out) {
		out[i].Data.Order = seq
	}
	return out
}

// Append adds the edge with the given id to the ordered set, assigning it
// order = max existing order + 1, or 0 when the set is empty. The edge's
// current order is overwritten.
func Append(edges []flow.Edge, id string) ([]flow.Edge, error) {
	out := flow.CloneEdges(edges)
	pos := indexOf(out, id)
	if pos < 0 {
		return edges, types.NewErrorf(types.ErrNotFound, "edge %s not found", id)
	}

	next := 0
	for i := range out {
		if i != pos && out[i].Ordered() && out[i].Data.Order >= next {
			next = out[i].Data.Order + 1
		}
	}
	out[pos].Data.Order = next
	return out, nil
}

// Remove takes the edge with the given id out of the ordered set and
// resequences the remainder. Removing the last remaining ordered edge is
// refused with a policy notice: a flow must always retain at least one
// initial chat.
func Remove(edges []flow.Edge, id string) ([]flow.Edge, *types.Notice, error) {
	pos := indexOf(edges, id)
	if pos < 0 {
		return edges, nil, types.NewErrorf(types.ErrNotFound, "edge %s not found", id)
	}
	if !edges[pos].Ordered() {
		return edges, nil, nil
	}

	ordered := sortedOrderedIndexes(edges)
	if len(ordered) == 1 {
		return edges, types.RejectCode(types.ErrLastOrderedEdge,
			"a flow needs at least one ordered chat; the last one cannot be removed"), nil
	}

	out := flow.CloneEdges(edges)
	out[pos].Data.Order = flow.UnorderedEdge
	out[pos].Data.Prerequisites = nil
	return Resequence(out), nil, nil
}

// MoveUp swaps the edge's order value with its predecessor in the sorted
// view. Moving the first edge up is a no-op.
func MoveUp(edges []flow.Edge, id string) ([]flow.Edge, error) {
	return moveBy(edges, id, -1)
}

// MoveDown swaps the edge's order value with its successor in the sorted
// view. Moving the last edge down is a no-op.
func MoveDown(edges []flow.Edge, id string) ([]flow.Edge, error) {
	return moveBy(edges, id, 1)
}

func moveBy(edges []flow.Edge, id string, delta int) ([]flow.Edge, error) {
	pos := indexOf(edges, id)
	if pos < 0 {
		return edges, types.NewErrorf(types.ErrNotFound, "edge %s not found", id)
	}
	if !edges[pos].Ordered() {
		return edges, types.NewErrorf(types.ErrInvalidRequest, "edge %s does not participate in the ordering", id)
	}

	view := sortedOrderedIndexes(edges)
	at := -1
	for vi, i := range view {
		if i == pos {
			at = vi
			break
		}
	}
	other := at + delta
	if other < 0 || other >= len(view) {
		return edges, nil
	}

	// Swap the order values, not the slice positions.
	out := flow.CloneEdges(edges)
	out[view[at]].Data.Order, out[view[other]].Data.Order =
		out[view[other]].Data.Order, out[view[at]].Data.Order
	return out, nil
}

func indexOf(edges []flow.Edge, id string) int {
	for i := range edges {
		if edges[i].ID == id {
			return i
		}
	}
	return -1
}
