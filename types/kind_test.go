package types

import "testing"

func TestNormalizeAgentType(t *testing.T) {
	tests := []struct {
		raw  string
		want AgentType
		ok   bool
	}{
		{"user_proxy", AgentUserProxy, true},
		{"assistant", AgentAssistant, true},
		{"reasoning", AgentReasoning, true},
		{"captain", AgentCaptain, true},
		{"group_manager", AgentGroupManager, true},
		{"doc_agent", AgentDocAgent, true},
		// Legacy tags fold into the current enum.
		{"rag_user_proxy", AgentUserProxy, true},
		{"swarm_agent", AgentAssistant, true},
		{"", "", false},
		{"manager", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeAgentType(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizeAgentType(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeChatType(t *testing.T) {
	tests := []struct {
		raw  string
		want ChatType
		ok   bool
	}{
		{"chat", ChatDefault, true},
		{"nested", ChatNested, true},
		{"group", ChatGroup, true},
		{"hidden", ChatHidden, true},
		{"swarm", ChatGroup, true},
		{"queued", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeChatType(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizeChatType(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNodeKindValid(t *testing.T) {
	for _, k := range []NodeKind{NodeAgent, NodeModel, NodeTool} {
		if !k.Valid() {
			t.Errorf("NodeKind(%q).Valid() = false, want true", k)
		}
	}
	if NodeKind("canvas").Valid() {
		t.Error("NodeKind(\"canvas\").Valid() = true, want false")
	}
}
