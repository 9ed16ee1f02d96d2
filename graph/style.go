package graph

import (
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// MarkerArrowClosed is the arrow marker rendered at the target end of an
// edge. Nested edges render as animated dashed connectors with no marker.
const MarkerArrowClosed = "arrowclosed"

// EdgeStyle holds the presentation attributes derived for an edge.
type EdgeStyle struct {
	Stroke   string `json:"stroke"`
	Marker   string `json:"marker,omitempty"`
	Animated bool   `json:"animated"`
}

// agentStrokes is the fixed agent-type to stroke-color table.
var agentStrokes = map[types.AgentType]string{
	types.AgentUserProxy:    "#5c80bc",
	types.AgentAssistant:    "#66bb6a",
	types.AgentReasoning:    "#ab47bc",
	types.AgentCaptain:      "#ff7043",
	types.AgentGroupManager: "#ffb300",
	types.AgentDocAgent:     "#26a69a",
}

// defaultStroke is used for agent types without a table entry.
const defaultStroke = "#90a4ae"

// Style derives the presentation attributes for an edge. It is a pure
// function of (chatType, sourceAgentType) and safe to memoize by that key.
func Style(chatType types.ChatType, sourceType types.AgentType) EdgeStyle {
	stroke, ok := agentStrokes[sourceType]
	if !ok {
		stroke = defaultStroke
	}
	style := EdgeStyle{Stroke: stroke, Marker: MarkerArrowClosed}
	if chatType == types.ChatNested {
		style.Marker = ""
		style.Animated = true
	}
	return style
}

// Animated reports whether an edge should render animated: nested edges
// always, plus edges crossing from inside a group to outside it. The merge
// engine recomputes this flag instead of trusting imported payloads.
func Animated(chatType types.ChatType, source, target *flow.Node) bool {
	if chatType == types.ChatNested {
		return true
	}
	return source.InGroup() && !target.InGroup()
}
