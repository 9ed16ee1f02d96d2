package handoff

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

func groupAgent(id string, handoffs ...flow.HandoffRecord) flow.Node {
	return flow.Node{
		ID: id, Kind: types.NodeAgent, AgentType: types.AgentAssistant,
		ParentID: "mgr", Label: id, Handoffs: handoffs,
	}
}

func groupEdge(id, source, target string) flow.Edge {
	return flow.Edge{ID: id, Source: source, Target: target, Type: types.ChatGroup, Data: flow.EdgeData{Order: flow.UnorderedEdge}}
}

func TestResolve_DiscoveryOrder(t *testing.T) {
	// No handoff records: orders follow discovery order of the group edges.
	agent := groupAgent("a")
	edges := []flow.Edge{groupEdge("e1", "a", "b"), groupEdge("e2", "a", "c")}

	resolved := Resolve(&agent, edges)
	if len(resolved.Targets) != 2 {
		t.Fatalf("targets = %d, want 2", len(resolved.Targets))
	}
	if resolved.Targets[0].ID != "e1" || resolved.Targets[0].Order != 0 {
		t.Errorf("first target = %+v, want e1 at order 0", resolved.Targets[0])
	}
	if resolved.Targets[1].ID != "e2" || resolved.Targets[1].Order != 1 {
		t.Errorf("second target = %+v, want e2 at order 1", resolved.Targets[1])
	}
	if resolved.Targets[0].Type != AgentTarget || resolved.Targets[0].Value != "b" {
		t.Errorf("target = %+v, want AgentTarget pointing at b", resolved.Targets[0])
	}
	if resolved.AfterWork != nil {
		t.Error("agent without after-work must resolve none")
	}
}

func TestResolve_RecordedOrderWins(t *testing.T) {
	agent := groupAgent("a",
		flow.HandoffRecord{TargetID: "e1", Order: 5},
		flow.HandoffRecord{TargetID: "e2", Order: 1},
	)
	edges := []flow.Edge{groupEdge("e1", "a", "b"), groupEdge("e2", "a", "c")}

	resolved := Resolve(&agent, edges)
	if resolved.Targets[0].ID != "e2" || resolved.Targets[1].ID != "e1" {
		t.Errorf("recorded orders must win: got %s then %s", resolved.Targets[0].ID, resolved.Targets[1].ID)
	}
	// Normalized back to a dense permutation.
	if resolved.Targets[0].Order != 0 || resolved.Targets[1].Order != 1 {
		t.Errorf("orders = %d,%d, want 0,1", resolved.Targets[0].Order, resolved.Targets[1].Order)
	}
}

func TestResolve_NestedChatDefaultsToLast(t *testing.T) {
	agent := groupAgent("a")
	agent.NestedChats = []flow.NestedChat{{Messages: []flow.NestedChatMessage{{ID: "ne"}}, Order: 0}}
	edges := []flow.Edge{groupEdge("e1", "a", "b"), groupEdge("e2", "a", "c")}

	resolved := Resolve(&agent, edges)
	if len(resolved.Targets) != 3 {
		t.Fatalf("targets = %d, want 3", len(resolved.Targets))
	}
	last := resolved.Targets[2]
	if last.Type != NestedChatTarget || last.ID != flow.NestedChatKey {
		t.Errorf("last target = %+v, want the nested chat slot", last)
	}
}

func TestResolve_EmptyNestedChatIgnored(t *testing.T) {
	agent := groupAgent("a")
	agent.NestedChats = []flow.NestedChat{{Order: 2}} // no messages
	resolved := Resolve(&agent, []flow.Edge{groupEdge("e1", "a", "b")})
	if len(resolved.Targets) != 1 {
		t.Errorf("nested chat without messages must not produce a target")
	}
}

func TestResolve_AfterWorkIsSeparateAndLast(t *testing.T) {
	agent := groupAgent("a", flow.HandoffRecord{TargetID: "e1", Order: 0})
	agent.AfterWork = &flow.AfterWork{Kind: "agent", Value: "fallback"}
	edges := []flow.Edge{groupEdge("e1", "a", "b")}

	resolved := Resolve(&agent, edges)
	if resolved.AfterWork == nil {
		t.Fatal("after-work target missing")
	}
	if resolved.AfterWork.Type != AfterWorkTarget || resolved.AfterWork.Value != "fallback" {
		t.Errorf("after-work = %+v", resolved.AfterWork)
	}
	for _, target := range resolved.Targets {
		if target.Type == AfterWorkTarget {
			t.Error("after-work must never join the reorderable list")
		}
	}
}

// The resolved orders always form a permutation of 0..k-1, whatever the
// recorded orders look like.
func TestResolve_OrdersArePermutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		edgeCount := rapid.IntRange(0, 6).Draw(t, "edgeCount")
		withNested := rapid.Bool().Draw(t, "withNested")

		var records []flow.HandoffRecord
		var edges []flow.Edge
		for i := 0; i < edgeCount; i++ {
			id := fmt.Sprintf("e%d", i)
			edges = append(edges, groupEdge(id, "a", fmt.Sprintf("t%d", i)))
			if rapid.Bool().Draw(t, fmt.Sprintf("rec%d", i)) {
				records = append(records, flow.HandoffRecord{
					TargetID: id,
					Order:    rapid.IntRange(-3, 12).Draw(t, fmt.Sprintf("order%d", i)),
				})
			}
		}

		agent := groupAgent("a", records...)
		if withNested {
			agent.NestedChats = []flow.NestedChat{{Messages: []flow.NestedChatMessage{{ID: "ne"}}}}
		}

		resolved := Resolve(&agent, edges)
		want := edgeCount
		if withNested {
			want++
		}
		if len(resolved.Targets) != want {
			t.Fatalf("targets = %d, want %d", len(resolved.Targets), want)
		}
		for i, target := range resolved.Targets {
			if target.Order != i {
				t.Fatalf("orders are not the permutation 0..k-1: %+v", resolved.Targets)
			}
		}
	})
}
