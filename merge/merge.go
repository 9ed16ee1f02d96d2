package merge

import (
	"sort"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/graph"
	"github.com/BaSui01/flowcanvas/ordering"
	"github.com/BaSui01/flowcanvas/types"
)

// Load combines an imported flow document with the currently open one under
// the given selection. visibleKind is the node-type filter currently active
// on the canvas; the hidden flag of every surviving node is recomputed from
// it. The result is a brand-new document; neither input is mutated.
//
// The imported document must already be structurally valid; Load re-checks
// id-based referential integrity and rejects dangling references before any
// merging happens, leaving prior state untouched.
func Load(sel Selection, current, imported *flow.Document, visibleKind types.NodeKind) (*flow.Document, error) {
	if err := imported.Validate(); err != nil {
		return nil, err
	}
	sel = sel.normalized()

	var out flow.Document
	if sel.Override {
		out = override(sel, current, imported)
	} else {
		out = merge(sel, current, imported)
	}

	refreshFlags(&out, visibleKind)

	// Re-establish the ordering invariant of the resulting document.
	if out.IsAsync {
		edges, err := ordering.Recompute(out.Edges)
		if err != nil {
			return nil, err
		}
		out.Edges = edges
	} else {
		out.Edges = ordering.Resequence(out.Edges)
	}
	return &out, nil
}

// override replaces the selected subset of the current document with the
// imported one outright. With everything selected the result is the
// imported document verbatim (modulo recomputed presentation flags).
func override(sel Selection, current, imported *flow.Document) flow.Document {
	if sel.Everything {
		return imported.Clone()
	}

	out := current.Clone()
	applyScalars(&out, sel, imported, true)

	imp := imported.Clone()
	var kept []flow.Node
	for _, n := range out.Nodes {
		if !sel.includesKind(n.Kind) {
			kept = append(kept, n)
		}
	}
	for _, n := range imp.Nodes {
		if sel.includesKind(n.Kind) {
			kept = append(kept, n)
		}
	}
	out.Nodes = kept
	out.Edges = survivingEdges(append(flow.CloneEdges(out.Edges), imp.Edges...), &out)
	return out
}

// merge combines the two documents non-destructively: current wins on id
// conflicts, scalars move only into an empty current document, and list
// fields are unioned as sets.
func merge(sel Selection, current, imported *flow.Document) flow.Document {
	out := current.Clone()
	applyScalars(&out, sel, imported, current.Empty())

	if sel.Tags {
		out.Tags = unionSet(out.Tags, imported.Tags)
	}
	if sel.Requirements {
		out.Requirements = unionSet(out.Requirements, imported.Requirements)
	}

	seen := make(map[string]bool, len(out.Nodes))
	for _, n := range out.Nodes {
		seen[n.ID] = true
	}
	for _, n := range imported.Nodes {
		if seen[n.ID] || !sel.includesKind(n.Kind) {
			continue // current wins on id conflicts
		}
		seen[n.ID] = true
		out.Nodes = append(out.Nodes, n.Clone())
	}

	edgeSeen := make(map[string]bool, len(out.Edges))
	for _, e := range out.Edges {
		edgeSeen[e.ID] = true
	}
	for _, e := range imported.Edges {
		if edgeSeen[e.ID] {
			continue
		}
		edgeSeen[e.ID] = true
		out.Edges = append(out.Edges, e.Clone())
	}
	out.Edges = survivingEdges(out.Edges, &out)
	return out
}

// refreshFlags recomputes the presentation flags the engine never trusts
// from an imported payload: node visibility against the active kind filter,
// edge animation from type and endpoints, and the hidden flag of
// hidden-type edges.
func refreshFlags(doc *flow.Document, visibleKind types.NodeKind) {
	for i := range doc.Nodes {
		doc.Nodes[i].Hidden = visibleKind != "" && doc.Nodes[i].Kind != visibleKind
	}
	for i := range doc.Edges {
		e := &doc.Edges[i]
		source, okS := doc.Node(e.Source)
		target, okT := doc.Node(e.Target)
		if okS && okT {
			e.Animated = graph.Animated(e.Type, source, target)
		}
		e.Hidden = e.Type == types.ChatHidden
	}
}

// survivingEdges drops edges whose endpoints did not survive the node
// filter and dedups by id, keeping the first occurrence.
func survivingEdges(edges []flow.Edge, doc *flow.Document) []flow.Edge {
	var out []flow.Edge
	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		if seen[e.ID] {
			continue
		}
		if _, ok := doc.Node(e.Source); !ok {
			continue
		}
		if _, ok := doc.Node(e.Target); !ok {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

// applyScalars copies selected scalar fields from the imported document.
// Name and description move only when allowScalars is set (the current
// document is empty), so an import never silently renames a working flow.
func applyScalars(out *flow.Document, sel Selection, imported *flow.Document, allowScalars bool) {
	if allowScalars {
		if sel.Name && imported.Name != "" {
			out.Name = imported.Name
		}
		if sel.Description && imported.Description != "" {
			out.Description = imported.Description
		}
	}
	if sel.IsAsync {
		out.IsAsync = imported.IsAsync
	}
	if sel.CacheSeed && imported.CacheSeed != nil {
		seed := *imported.CacheSeed
		out.CacheSeed = &seed
	}
}

func unionSet(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string(nil), a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
