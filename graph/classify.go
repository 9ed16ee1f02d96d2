package graph

import (
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// Classify determines the semantic chat-type of an edge from its declared
// type and its endpoints. It is idempotent: classifying an already
// classified edge with unchanged endpoints returns the same type.
//
// The nested type is never produced here; an edge becomes nested only
// structurally, by being registered in a NestedChat.messages slot.
func Classify(declared types.ChatType, source, target *flow.Node) types.ChatType {
	// An explicitly hidden edge stays hidden.
	if declared == types.ChatHidden {
		return types.ChatHidden
	}
	// Nested classification is structural; endpoints cannot change it.
	if declared == types.ChatNested {
		return types.ChatNested
	}
	// An edge between members of the same group loops inside the group's
	// own conversation; it is auto-hidden to avoid visual clutter, even
	// when the caller did not ask for hidden.
	if source.InGroup() && source.ParentID == target.ParentID {
		return types.ChatHidden
	}
	if source.IsGroupManager() || target.IsGroupManager() || source.InGroup() || target.InGroup() {
		return types.ChatGroup
	}
	return types.ChatDefault
}
