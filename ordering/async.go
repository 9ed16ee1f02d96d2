package ordering

import (
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// Stats reports how a recompute converged.
type Stats struct {
	// Passes is the number of full relaxation passes, including the final
	// pass that observed no change.
	Passes int
}

// Recompute derives the asynchronous prerequisite ordering over the edge
// set. For every edge in the order>=0 subset:
//
//	order(e) = 0                            when e has no prerequisites
//	order(e) = 1 + max(order(p) for p in e.prerequisites)
//
// orders are recomputed by fixed-point relaxation until a full pass changes
// nothing. Prerequisite references are first narrowed to the order>=0
// subset, and the narrowed graph is checked for cycles up front: a cyclic
// input returns CYCLE_DETECTED instead of iterating forever. Edges outside
// the subset are forced to order=-1 with no prerequisites.
func Recompute(edges []flow.Edge) ([]flow.Edge, error) {
	out, _, err := RecomputeWithStats(edges)
	return out, err
}

// RecomputeWithStats is Recompute plus convergence statistics.
func RecomputeWithStats(edges []flow.Edge) ([]flow.Edge, Stats, error) {
	out := flow.CloneEdges(edges)

	used := make(map[string]int) // edge id -> index in out
	for i := range out {
		if out[i].Ordered() {
			used[out[i].ID] = i
		}
	}

	// Narrow prerequisites to the used subset; references to unordered or
	// unknown edges cannot constrain the ordering.
	prereqs := make(map[string][]string, len(used))
	for id, i := range used {
		var kept []string
		for _, p := range out[i].Data.Prerequisites {
			if _, ok := used[p]; ok && p != id {
				kept = append(kept, p)
			}
		}
		out[i].Data.Prerequisites = kept
		prereqs[id] = kept
	}

	if err := detectCycle(prereqs); err != nil {
		return edges, Stats{}, err
	}

	var stats Stats
	orders := make(map[string]int, len(used))
	for id := range used {
		orders[id] = 0
	}
	for changed := true; changed; {
		changed = false
		stats.Passes++
		for id, deps := range prereqs {
			want := 0
			for _, p := range deps {
				if orders[p]+1 > want {
					want = orders[p] + 1
				}
			}
			if orders[id] != want {
				orders[id] = want
				changed = true
			}
		}
	}

	for id, i := range used {
		out[i].Data.Order = orders[id]
	}
	for i := range out {
		if !out[i].Ordered() {
			out[i].Data.Order = flow.UnorderedEdge
			out[i].Data.Prerequisites = nil
		}
	}
	return out, stats, nil
}

// detectCycle runs a DFS over the prerequisite graph and reports the first
// edge found on a back-edge path.
func detectCycle(prereqs map[string][]string) error {
	visited := make(map[string]bool, len(prereqs))
	onStack := make(map[string]bool, len(prereqs))

	var visit func(id string) error
	visit = func(id string) error {
		visited[id] = true
		onStack[id] = true
		for _, dep := range prereqs[id] {
			if !visited[dep] {
				if err := visit(dep); err != nil {
					return err
				}
			} else if onStack[dep] {
				return types.NewCycleError(dep)
			}
		}
		onStack[id] = false
		return nil
	}

	for id := range prereqs {
		if !visited[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
