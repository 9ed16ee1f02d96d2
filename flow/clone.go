package flow

// Deep-clone helpers. Every engine in this repository is copy-on-write: it
// reads a snapshot and returns brand-new structures, so callers can swap the
// result in atomically without observing a partially-updated graph.

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	out.Handoffs = cloneHandoffs(n.Handoffs)
	out.NestedChats = CloneNestedChats(n.NestedChats)
	if n.AfterWork != nil {
		aw := *n.AfterWork
		out.AfterWork = &aw
	}
	return out
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	out := e
	if len(e.Data.Prerequisites) > 0 {
		out.Data.Prerequisites = append([]string(nil), e.Data.Prerequisites...)
	}
	if e.Data.NestedChat != nil {
		nc := *e.Data.NestedChat
		out.Data.NestedChat = &nc
	}
	return out
}

// CloneEdges returns a deep copy of the edge slice.
func CloneEdges(edges []Edge) []Edge {
	if edges == nil {
		return nil
	}
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.Clone()
	}
	return out
}

// CloneNodes returns a deep copy of the node slice.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// CloneNestedChats returns a deep copy of the nested chat slice.
func CloneNestedChats(chats []NestedChat) []NestedChat {
	if chats == nil {
		return nil
	}
	out := make([]NestedChat, len(chats))
	for i, c := range chats {
		out[i] = c
		out[i].Messages = append([]NestedChatMessage(nil), c.Messages...)
	}
	return out
}

func cloneHandoffs(records []HandoffRecord) []HandoffRecord {
	if records == nil {
		return nil
	}
	return append([]HandoffRecord(nil), records...)
}

// CloneHandoffs returns a copy of the handoff record slice.
func CloneHandoffs(records []HandoffRecord) []HandoffRecord {
	return cloneHandoffs(records)
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Tags = append([]string(nil), d.Tags...)
	out.Requirements = append([]string(nil), d.Requirements...)
	if d.CacheSeed != nil {
		seed := *d.CacheSeed
		out.CacheSeed = &seed
	}
	out.Nodes = CloneNodes(d.Nodes)
	out.Edges = CloneEdges(d.Edges)
	return out
}
