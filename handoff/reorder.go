package handoff

import (
	"fmt"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// Namer maps a node id to its display label when synthesizing default
// handoff conditions. A nil Namer falls back to the raw id.
type Namer func(nodeID string) string

// Update is the consolidated partial update a reorder produces. The caller
// commits it atomically onto the owning agent; the resolver never mutates
// the caller's structures in place.
type Update struct {
	Handoffs    []flow.HandoffRecord `json:"handoffs"`
	NestedChats []flow.NestedChat    `json:"nested_chats,omitempty"`
}

// Swap exchanges the targets at list positions i and j of the agent's
// resolved handoff view. Both affected targets get their order fields
// updated, missing handoff records are synthesized with a default condition
// text, and a nested-chat target's order is propagated into its owning
// NestedChat.Order.
func Swap(agent *flow.Node, groupEdges []flow.Edge, i, j int, name Namer) (*Update, error) {
	resolved := Resolve(agent, groupEdges)
	n := len(resolved.Targets)
	if i < 0 || i >= n || j < 0 || j >= n {
		return nil, types.NewErrorf(types.ErrInvalidRequest,
			"swap positions %d and %d out of range for %d handoff targets", i, j, n)
	}
	if i == j {
		return &Update{
			Handoffs:    flow.CloneHandoffs(agent.Handoffs),
			NestedChats: flow.CloneNestedChats(agent.NestedChats),
		}, nil
	}

	targets := append([]Target(nil), resolved.Targets...)
	targets[i], targets[j] = targets[j], targets[i]
	targets[i].Order, targets[j].Order = i, j

	update := &Update{
		Handoffs:    flow.CloneHandoffs(agent.Handoffs),
		NestedChats: flow.CloneNestedChats(agent.NestedChats),
	}

	for _, pos := range []int{i, j} {
		target := targets[pos]
		update.setOrder(target, name)
	}
	return update, nil
}

// MoveUp swaps the target at position i with its predecessor.
func MoveUp(agent *flow.Node, groupEdges []flow.Edge, i int, name Namer) (*Update, error) {
	return Swap(agent, groupEdges, i, i-1, name)
}

// MoveDown swaps the target at position i with its successor.
func MoveDown(agent *flow.Node, groupEdges []flow.Edge, i int, name Namer) (*Update, error) {
	return Swap(agent, groupEdges, i, i+1, name)
}

// setOrder records the target's new order, synthesizing a handoff record
// when none exists yet.
func (u *Update) setOrder(target Target, name Namer) {
	for idx := range u.Handoffs {
		if u.Handoffs[idx].TargetID == target.ID {
			u.Handoffs[idx].Order = target.Order
			u.propagateNested(target)
			return
		}
	}

	u.Handoffs = append(u.Handoffs, flow.HandoffRecord{
		TargetID:  target.ID,
		Order:     target.Order,
		Condition: defaultCondition(target, name),
	})
	u.propagateNested(target)
}

// propagateNested mirrors a nested-chat target's order into the owning
// NestedChat structure, which shares the ordering space with direct edges.
func (u *Update) propagateNested(target Target) {
	if target.Type != NestedChatTarget || len(u.NestedChats) == 0 {
		return
	}
	u.NestedChats[0].Order = target.Order
}

func defaultCondition(target Target, name Namer) string {
	if target.Type == NestedChatTarget {
		return "Handoff to nested chat"
	}
	label := target.Value
	if name != nil {
		label = name(target.Value)
	}
	return fmt.Sprintf("Handoff to agent %s", label)
}
