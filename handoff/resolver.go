package handoff

import (
	"sort"

	"github.com/BaSui01/flowcanvas/flow"
)

// TargetType identifies what a resolved handoff target points at.
type TargetType string

const (
	// AgentTarget hands the conversation to another agent via a direct edge.
	AgentTarget TargetType = "AgentTarget"
	// NestedChatTarget routes into the agent's nested chat slot.
	NestedChatTarget TargetType = "NestedChatTarget"
	// GroupChatTarget hands control back to the enclosing group chat.
	GroupChatTarget TargetType = "GroupChatTarget"
	// AfterWorkTarget is the terminal target evaluated after all others.
	AfterWorkTarget TargetType = "AfterWorkTarget"
)

// Target is one resolved handoff destination. ID is the stable key used to
// match handoff records: the edge id for agent targets, flow.NestedChatKey
// for the nested chat slot.
type Target struct {
	ID    string     `json:"id"`
	Type  TargetType `json:"target_type"`
	Value string     `json:"value,omitempty"`
	Order int        `json:"order"`
}

// Resolved is the derived handoff view of a single agent. Targets is the
// user-visible, reorderable list with orders forming a dense 0..k-1
// permutation. AfterWork, when present, is excluded from that list and its
// numbering, and is always reported last.
type Resolved struct {
	Targets   []Target `json:"targets"`
	AfterWork *Target  `json:"after_work,omitempty"`
}

// Resolve derives the agent's ordered handoff targets from its group edges,
// nested chats, and recorded handoff entries. Explicit record orders win;
// targets without a record fall back to discovery order, and the nested
// chat slot defaults to last (len(groupEdges)) when unrecorded.
func Resolve(agent *flow.Node, groupEdges []flow.Edge) Resolved {
	records := make(map[string]flow.HandoffRecord, len(agent.Handoffs))
	for _, rec := range agent.Handoffs {
		records[rec.TargetID] = rec
	}

	var targets []Target
	for i, e := range groupEdges {
		order := i
		if rec, ok := records[e.ID]; ok {
			order = rec.Order
		}
		targets = append(targets, Target{ID: e.ID, Type: AgentTarget, Value: e.Target, Order: order})
	}

	if len(agent.NestedChats) > 0 && len(agent.NestedChats[0].Messages) > 0 {
		order := len(groupEdges)
		if rec, ok := records[flow.NestedChatKey]; ok {
			order = rec.Order
		}
		targets = append(targets, Target{ID: flow.NestedChatKey, Type: NestedChatTarget, Order: order})
	}

	sort.SliceStable(targets, func(a, b int) bool {
		return targets[a].Order < targets[b].Order
	})
	for i := range targets {
		targets[i].Order = i
	}

	resolved := Resolved{Targets: targets}
	if agent.AfterWork != nil {
		resolved.AfterWork = &Target{
			ID:    "after-work",
			Type:  AfterWorkTarget,
			Value: agent.AfterWork.Value,
		}
	}
	return resolved
}
