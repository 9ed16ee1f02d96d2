package types

// NodeKind identifies the category of a canvas node.
type NodeKind string

const (
	// NodeAgent is a conversational agent node.
	NodeAgent NodeKind = "agent"
	// NodeModel is an LLM model node attached to agents.
	NodeModel NodeKind = "model"
	// NodeTool is a tool node attached to agents.
	NodeTool NodeKind = "tool"
)

// Valid reports whether the kind is a member of the closed set.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeAgent, NodeModel, NodeTool:
		return true
	}
	return false
}

// AgentType identifies the behavior variant of an agent node.
type AgentType string

const (
	AgentUserProxy    AgentType = "user_proxy"
	AgentAssistant    AgentType = "assistant"
	AgentReasoning    AgentType = "reasoning"
	AgentCaptain      AgentType = "captain"
	AgentGroupManager AgentType = "group_manager"
	AgentDocAgent     AgentType = "doc_agent"
)

// legacyAgentTypes maps retired agent tags from older document versions to
// their current equivalents. Legacy tags never enter the core engine.
var legacyAgentTypes = map[string]AgentType{
	"rag_user_proxy": AgentUserProxy,
	"rag_user":       AgentUserProxy,
	"swarm_agent":    AgentAssistant,
	"swarm":          AgentAssistant,
}

// NormalizeAgentType converts a raw agent-type tag (possibly from a legacy
// schema version) into the canonical enum. The second return value is false
// when the tag is not recognized in any schema version.
func NormalizeAgentType(raw string) (AgentType, bool) {
	t := AgentType(raw)
	switch t {
	case AgentUserProxy, AgentAssistant, AgentReasoning, AgentCaptain,
		AgentGroupManager, AgentDocAgent:
		return t, true
	}
	if mapped, ok := legacyAgentTypes[raw]; ok {
		return mapped, true
	}
	return "", false
}

// IsUserProxyLike reports whether the agent type may act on behalf of the
// user when originating connections into a group.
func (t AgentType) IsUserProxyLike() bool {
	return t == AgentUserProxy
}

// ChatType identifies the semantic variant of an edge.
type ChatType string

const (
	// ChatDefault is a plain agent-to-agent conversation edge.
	ChatDefault ChatType = "chat"
	// ChatNested marks an edge routed as a nested sub-conversation slot.
	ChatNested ChatType = "nested"
	// ChatGroup marks an edge touching a group manager or group member.
	ChatGroup ChatType = "group"
	// ChatHidden marks an edge excluded from rendering.
	ChatHidden ChatType = "hidden"
)

// legacyChatTypes maps retired edge tags to the current group-based model.
var legacyChatTypes = map[string]ChatType{
	"swarm": ChatGroup,
}

// NormalizeChatType converts a raw edge-type tag into the canonical enum,
// folding legacy schema variants. Returns false for unrecognized tags.
func NormalizeChatType(raw string) (ChatType, bool) {
	t := ChatType(raw)
	switch t {
	case ChatDefault, ChatNested, ChatGroup, ChatHidden:
		return t, true
	}
	if mapped, ok := legacyChatTypes[raw]; ok {
		return mapped, true
	}
	return "", false
}
