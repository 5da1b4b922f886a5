package meta

import (
	"fmt"
	"sort"
)

// JoinGraph is the canonical join-tree representation shared by queries and
// models: one root TableRef plus the edges connecting every other table
// transitively to the root.
//
// A JoinGraph is immutable after construction. Edges are indexed by parent
// alias and kept sorted by child alias so traversal order is deterministic.
type JoinGraph struct {
	root     TableRef
	tables   map[string]TableRef   // alias -> table
	edges    []JoinDesc            // all edges, sorted by (parent, child) alias
	byParent map[string][]JoinDesc // parent alias -> edges, sorted by child alias
}

// NewJoinGraph builds a join graph from a root table, the full table set
// (which must include the root), and the edges connecting them.
//
// Construction fails if:
//   - an alias is duplicated,
//   - an edge references an unknown alias,
//   - an edge has no key pairs or an invalid join kind,
//   - a table other than the root has zero or multiple incoming edges,
//   - any table is unreachable from the root (a cycle among non-root tables).
//
// Note this enforces the tree shape but NOT the query-side join-count
// invariant; callers that need "hanging tables" detection check the raw
// join count before building the graph.
func NewJoinGraph(root TableRef, tables []TableRef, joins []JoinDesc) (*JoinGraph, error) {
	byAlias := make(map[string]TableRef, len(tables))
	for _, t := range tables {
		if t.Alias == "" {
			return nil, fmt.Errorf("table %q has empty alias", t.Table)
		}
		if _, dup := byAlias[t.Alias]; dup {
			return nil, fmt.Errorf("duplicate table alias %q", t.Alias)
		}
		byAlias[t.Alias] = t
	}
	if _, ok := byAlias[root.Alias]; !ok {
		return nil, fmt.Errorf("root alias %q not in table set", root.Alias)
	}

	incoming := make(map[string]int, len(tables))
	byParent := make(map[string][]JoinDesc)
	edges := make([]JoinDesc, len(joins))
	copy(edges, joins)

	for _, j := range edges {
		if !ValidJoinKind(j.Kind) {
			return nil, fmt.Errorf("join %s: invalid join kind %q", j, j.Kind)
		}
		if len(j.Keys) == 0 {
			return nil, fmt.Errorf("join %s: no key pairs", j)
		}
		if _, ok := byAlias[j.ChildAlias]; !ok {
			return nil, fmt.Errorf("join %s: unknown child alias %q", j, j.ChildAlias)
		}
		if _, ok := byAlias[j.ParentAlias]; !ok {
			return nil, fmt.Errorf("join %s: unknown parent alias %q", j, j.ParentAlias)
		}
		incoming[j.ChildAlias]++
		byParent[j.ParentAlias] = append(byParent[j.ParentAlias], j)
	}

	if n := incoming[root.Alias]; n != 0 {
		return nil, fmt.Errorf("root %q has %d incoming joins", root.Alias, n)
	}
	for alias := range byAlias {
		if alias == root.Alias {
			continue
		}
		if n := incoming[alias]; n != 1 {
			return nil, fmt.Errorf("table %q has %d incoming joins, want exactly 1", alias, n)
		}
	}

	// Reachability: every table must hang off the root.
	reached := map[string]bool{root.Alias: true}
	frontier := []string{root.Alias}
	for len(frontier) > 0 {
		parent := frontier[0]
		frontier = frontier[1:]
		for _, e := range byParent[parent] {
			if !reached[e.ChildAlias] {
				reached[e.ChildAlias] = true
				frontier = append(frontier, e.ChildAlias)
			}
		}
	}
	if len(reached) != len(byAlias) {
		for alias := range byAlias {
			if !reached[alias] {
				return nil, fmt.Errorf("table %q is not reachable from root %q", alias, root.Alias)
			}
		}
	}

	for parent := range byParent {
		sort.Slice(byParent[parent], func(a, b int) bool {
			return byParent[parent][a].ChildAlias < byParent[parent][b].ChildAlias
		})
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].ParentAlias != edges[b].ParentAlias {
			return edges[a].ParentAlias < edges[b].ParentAlias
		}
		return edges[a].ChildAlias < edges[b].ChildAlias
	})

	return &JoinGraph{
		root:     byAlias[root.Alias],
		tables:   byAlias,
		edges:    edges,
		byParent: byParent,
	}, nil
}

// Root returns the graph's root table.
func (g *JoinGraph) Root() TableRef {
	return g.root
}

// Table returns the table for an alias, if present.
func (g *JoinGraph) Table(alias string) (TableRef, bool) {
	t, ok := g.tables[alias]
	return t, ok
}

// TableCount returns the number of tables in the graph.
func (g *JoinGraph) TableCount() int {
	return len(g.tables)
}

// JoinCount returns the number of edges in the graph.
func (g *JoinGraph) JoinCount() int {
	return len(g.edges)
}

// EdgesFrom returns the edges whose parent is the given alias, sorted by
// child alias. The returned slice must not be mutated.
func (g *JoinGraph) EdgesFrom(parentAlias string) []JoinDesc {
	return g.byParent[parentAlias]
}

// WalkBreadthFirst returns the graph's edges in breadth-first order from
// the root, children in lexicographic alias order within each parent.
// Every edge appears after the edge that introduced its parent.
func (g *JoinGraph) WalkBreadthFirst() []JoinDesc {
	ordered := make([]JoinDesc, 0, len(g.edges))
	frontier := []string{g.root.Alias}
	for len(frontier) > 0 {
		parent := frontier[0]
		frontier = frontier[1:]
		for _, e := range g.byParent[parent] {
			ordered = append(ordered, e)
			frontier = append(frontier, e.ChildAlias)
		}
	}
	return ordered
}
