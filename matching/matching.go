// Package matching computes maximum-weight matchings on general
// (non-bipartite) undirected graphs represented by *core.Graph.
//
// The solver is Edmonds' blossom algorithm in its primal-dual form:
// odd alternating cycles ("blossoms") are contracted and expanded as the dual
// variables move, so the result is maximum in total weight, not merely
// maximal. A greedy pass or a bipartite-only method cannot give that
// guarantee on arbitrary participant graphs.
//
// Complexity:
//
//   - Time:  O(V³); at most V stages, each O(V²) with least-slack caching.
//   - Space: O(V + E).
//
// Determinism:
//
//   - Vertices are indexed in ascending ID order and edges are fed in
//     (From, To) order, so identical graphs always produce the identical
//     matching, including the choice among several optimal matchings.
//
// Errors (sentinel):
//
//   - ErrNilGraph       if g is nil.
//   - ErrNegativeWeight if an edge weight is negative.
//   - ErrBadEdge        if an indexed edge is malformed (MaxWeightIndexed).
//   - context.Canceled / context.DeadlineExceeded from Options.Ctx.
//
// Example:
//
//	m, err := matching.MaxWeight(g, matching.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, p := range m.Pairs {
//	    fmt.Println(p.A, p.B, p.Weight)
//	}
package matching

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/matchcycle/core"
)

// MaxWeight returns a maximum-weight matching of g. With
// opts.MaxCardinality the matching is maximum-weight among all matchings of
// maximum cardinality.
//
// An empty graph yields an empty matching; disconnected graphs are fine.
func MaxWeight(g *core.Graph, opts Options) (*Matching, error) {
	opts.normalize()
	if g == nil {
		return nil, ErrNilGraph
	}
	if err := opts.Ctx.Err(); err != nil {
		return nil, err
	}

	// 1) Index vertices in sorted order.
	ids := g.Vertices()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	// 2) Edges in (From, To) order.
	edges := g.Edges()
	indexed := make([]IndexedEdge, len(edges))
	for k, e := range edges {
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: edge %s weight=%d", ErrNegativeWeight, e.ID, e.Weight)
		}
		indexed[k] = IndexedEdge{I: index[e.From], J: index[e.To], W: e.Weight}
	}

	// 3) Solve.
	mate, err := MaxWeightIndexed(len(ids), indexed, opts)
	if err != nil {
		return nil, err
	}

	// 4) Translate back, reading weights from the graph.
	m := &Matching{Mate: make(map[string]string)}
	for i, j := range mate {
		if j < 0 || j < i {
			continue
		}
		a, b := ids[i], ids[j]
		w, _ := g.Weight(a, b)
		m.Pairs = append(m.Pairs, Pair{A: a, B: b, Weight: w})
		m.Mate[a] = b
		m.Mate[b] = a
		m.Weight += w
	}
	sort.Slice(m.Pairs, func(x, y int) bool {
		if m.Pairs[x].A != m.Pairs[y].A {
			return m.Pairs[x].A < m.Pairs[y].A
		}
		return m.Pairs[x].B < m.Pairs[y].B
	})

	return m, nil
}

// MaxWeightIndexed solves the integer-indexed problem on vertices 0..n-1 and
// returns mate, where mate[v] is v's partner or -1.
//
// Preconditions: 0 ≤ I,J < n, I ≠ J, W ≥ 0, at most one edge per pair.
func MaxWeightIndexed(n int, edges []IndexedEdge, opts Options) ([]int, error) {
	opts.normalize()
	for k, e := range edges {
		if e.I < 0 || e.J < 0 || e.I >= n || e.J >= n || e.I == e.J {
			return nil, fmt.Errorf("%w: edge %d (%d,%d) with n=%d", ErrBadEdge, k, e.I, e.J, n)
		}
		if e.W < 0 {
			return nil, fmt.Errorf("%w: edge %d weight=%d", ErrNegativeWeight, k, e.W)
		}
	}
	if n == 0 {
		return []int{}, nil
	}

	s := newSolver(n, edges)
	if err := s.run(opts.Ctx, opts.MaxCardinality); err != nil {
		return nil, err
	}

	return s.mates(), nil
}
