package graph

import (
	"strings"
	"testing"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

func agent(id string, agentType types.AgentType) flow.Node {
	return flow.Node{ID: id, Kind: types.NodeAgent, AgentType: agentType, Label: id}
}

func member(id, managerID string) flow.Node {
	n := agent(id, types.AgentAssistant)
	n.ParentID = managerID
	return n
}

func TestCheckConnection(t *testing.T) {
	manager := agent("mgr", types.AgentGroupManager)
	memberA := member("ma", "mgr")
	memberB := member("mb", "mgr")
	userProxy := agent("user", types.AgentUserProxy)
	assistant := agent("helper", types.AgentAssistant)

	tests := []struct {
		name     string
		source   flow.Node
		target   flow.Node
		edges    []flow.Edge
		rejected bool
	}{
		{name: "plain chat between ungrouped agents", source: userProxy, target: assistant},
		{name: "user proxy into group manager", source: userProxy, target: manager},
		{name: "assistant into group manager rejected", source: assistant, target: manager, rejected: true},
		{name: "assistant into group member rejected", source: assistant, target: memberA, rejected: true},
		{name: "user proxy into group member still rejected", source: userProxy, target: memberA, rejected: true},
		{name: "group sibling to sibling allowed", source: memberA, target: memberB},
		{name: "member to its manager allowed", source: memberA, target: manager},
		{
			name:   "second incoming edge to manager rejected",
			source: userProxy, target: manager,
			edges:    []flow.Edge{{ID: "e0", Source: "other", Target: "mgr"}},
			rejected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo := Topology{
				Nodes: []flow.Node{manager, memberA, memberB, userProxy, assistant},
				Edges: tt.edges,
			}
			rejection := CheckConnection(&tt.source, &tt.target, topo)
			if tt.rejected && rejection == nil {
				t.Fatal("expected a policy rejection, got nil")
			}
			if !tt.rejected && rejection != nil {
				t.Fatalf("unexpected rejection: %s", rejection.Message)
			}
			if rejection != nil {
				if rejection.Severity != types.SeverityError {
					t.Errorf("severity = %q, want error", rejection.Severity)
				}
				if rejection.Message == "" {
					t.Error("rejection must carry a user-visible message")
				}
			}
		})
	}
}

func TestCheckConnection_UsesLabelInMessage(t *testing.T) {
	manager := agent("mgr", types.AgentGroupManager)
	manager.Label = "Support Team"
	assistant := agent("helper", types.AgentAssistant)

	rejection := CheckConnection(&assistant, &manager, Topology{})
	if rejection == nil {
		t.Fatal("expected rejection")
	}
	if want := "helper"; !strings.Contains(rejection.Message, want) {
		t.Errorf("message %q should name the source %q", rejection.Message, want)
	}
}
