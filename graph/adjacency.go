package graph

import (
	"fmt"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// Topology is the read-only graph context a connection check runs against.
type Topology struct {
	Nodes []flow.Node
	Edges []flow.Edge
}

// CheckConnection decides whether a new edge from source to target is
// permitted by the agent-type adjacency rules. A nil result means the
// connection is allowed as a plain chat edge. A non-nil Rejection is a
// user-visible notice; the caller must treat the operation as a no-op and
// leave the graph unchanged.
//
// Rules, in priority order:
//  1. Only a user-proxy-like agent or a group manager may originate a
//     connection into a group (a group manager or one of its members),
//     unless the source itself already belongs to a group.
//  2. A source outside any group may never target a group member directly;
//     it must route through the group manager.
//  3. A group manager accepts at most one incoming edge.
func CheckConnection(source, target *flow.Node, topo Topology) *types.Notice {
	intoGroup := target.IsGroupManager() || target.InGroup()

	if intoGroup && !source.InGroup() {
		if !source.AgentType.IsUserProxyLike() && !source.IsGroupManager() {
			return types.Reject(fmt.Sprintf(
				"%s cannot start a group conversation; only a user proxy or a group manager can connect into a group",
				nodeName(source)))
		}
	}

	if target.InGroup() && !source.InGroup() {
		return types.Reject(fmt.Sprintf(
			"%s is a group member; connect through its group manager instead",
			nodeName(target)))
	}

	if target.IsGroupManager() {
		for _, e := range topo.Edges {
			if e.Target == target.ID {
				return types.Reject(fmt.Sprintf(
					"%s already has an incoming connection", nodeName(target)))
			}
		}
	}

	return nil
}

func nodeName(n *flow.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}
