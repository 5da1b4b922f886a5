package routing

import "github.com/cubera-io/cubera/internal/meta"

// AliasMapping is a bijection from query-graph aliases to model-graph
// aliases, produced by a successful match. It lives for the duration of
// one selection attempt; a committed attempt keeps it on the resolution.
type AliasMapping map[string]string

// clone returns an independent copy of the mapping.
func (m AliasMapping) clone() AliasMapping {
	out := make(AliasMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Match computes an alias mapping that embeds the query join graph into
// the model's join graph, or reports that none exists.
//
// The match is rooted: the query's root table binds to the model's fact
// table, except for single-table queries, which may also bind to a
// standalone lookup table. From the root, query edges are walked in
// breadth-first order; each must find a structurally equal model edge
// hanging off the already-mapped parent. The model graph may carry extra
// tables and edges the query never touches - only the query side must be
// covered.
//
// When several model tables could satisfy a query table, candidates are
// tried in lexicographic model-alias order, so matching is reproducible
// for identical inputs.
func Match(q *meta.JoinGraph, model *meta.DataModel) (AliasMapping, bool) {
	mg := model.JoinGraph()
	root := q.Root()

	if q.JoinCount() == 0 {
		// Single-table query: a standalone lookup table answers with the
		// trivial one-entry mapping, no edge traversal. The lookup
		// occurrence is the one mapped: a table doubling as the fact
		// under another alias must not shadow it.
		if model.IsLookupTable(root.Table) {
			t, ok := model.FindLookupTable(root.Table)
			if !ok {
				return nil, false
			}
			return AliasMapping{root.Alias: t.Ref.Alias}, true
		}
		if mg.Root().Table == root.Table {
			return AliasMapping{root.Alias: mg.Root().Alias}, true
		}
		return nil, false
	}

	if mg.Root().Table != root.Table {
		return nil, false
	}

	m := &matcher{query: q, model: mg}
	mapping := AliasMapping{root.Alias: mg.Root().Alias}
	bound := map[string]bool{mg.Root().Alias: true}

	if !m.matchEdges(q.WalkBreadthFirst(), 0, mapping, bound) {
		return nil, false
	}
	return mapping, true
}

type matcher struct {
	query *meta.JoinGraph
	model *meta.JoinGraph
}

// matchEdges binds query edges to model edges one at a time, backtracking
// when a tentative binding leaves a later edge unmatchable. Edge order is
// the query graph's BFS order, so every edge's parent is already bound
// when the edge is considered.
func (m *matcher) matchEdges(edges []meta.JoinDesc, i int, mapping AliasMapping, bound map[string]bool) bool {
	if i == len(edges) {
		return true
	}
	edge := edges[i]
	parentModelAlias := mapping[edge.ParentAlias]

	// EdgesFrom is sorted by child alias: the fixed tie-break rule.
	for _, cand := range m.model.EdgesFrom(parentModelAlias) {
		if bound[cand.ChildAlias] {
			continue
		}
		if !m.structurallyEqual(edge, cand) {
			continue
		}

		mapping[edge.ChildAlias] = cand.ChildAlias
		bound[cand.ChildAlias] = true
		if m.matchEdges(edges, i+1, mapping, bound) {
			return true
		}
		delete(mapping, edge.ChildAlias)
		delete(bound, cand.ChildAlias)
	}
	return false
}

// structurallyEqual reports whether a query edge and a model edge agree on
// join kind, child physical table, and key-pair set. Key columns are
// physical column names, so comparison is by underlying column rather
// than alias-qualified name.
func (m *matcher) structurallyEqual(queryEdge, modelEdge meta.JoinDesc) bool {
	if queryEdge.Kind != modelEdge.Kind {
		return false
	}
	qChild, ok := m.query.Table(queryEdge.ChildAlias)
	if !ok {
		return false
	}
	mChild, ok := m.model.Table(modelEdge.ChildAlias)
	if !ok {
		return false
	}
	if qChild.Table != mChild.Table {
		return false
	}
	return queryEdge.KeysEqual(modelEdge)
}
