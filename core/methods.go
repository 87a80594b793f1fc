// File: methods.go
// Role: Vertex and edge lifecycle plus read-only queries.
// Determinism:
//   - Vertices() and NeighborIDs() return IDs sorted ascending.
//   - Edges() returns edges sorted by (From, To).
// Concurrency:
//   - Vertex catalog under muVert, edges and adjacency under muEdgeAdj.
//   - Lock order muVert -> muEdgeAdj, never the reverse.

package core

import "sort"

// AddVertex inserts a vertex if missing (idempotent).
//
// Errors: ErrEmptyVertexID.
// Complexity: O(1) amortized.
func (g *Graph) AddVertex(id string) error {
	if id == "" {
		return ErrEmptyVertexID
	}

	g.muVert.Lock()
	defer g.muVert.Unlock()
	if _, ok := g.vertices[id]; ok {
		return nil // no-op for existing vertex
	}
	g.vertices[id] = struct{}{}

	// bootstrap the adjacency bucket so queries on isolated vertices succeed
	g.muEdgeAdj.Lock()
	if g.adjacency[id] == nil {
		g.adjacency[id] = make(map[string]string)
	}
	g.muEdgeAdj.Unlock()

	return nil
}

// HasVertex reports whether the vertex exists (empty ID ⇒ false).
func (g *Graph) HasVertex(id string) bool {
	if id == "" {
		return false
	}
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// AddEdge links a and b with the given weight and returns the edge ID.
// Endpoints are created on demand.
//
// Steps:
//  1. Validate IDs, loop, weight.
//  2. Ensure endpoints via AddVertex.
//  3. Under muEdgeAdj, reject duplicates, then store and mirror adjacency.
//
// Errors: ErrEmptyVertexID, ErrLoopNotAllowed, ErrBadWeight, ErrDuplicateEdge.
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(a, b string, weight int64) (string, error) {
	// 1) Input validation
	if a == "" || b == "" {
		return "", ErrEmptyVertexID
	}
	if a == b {
		return "", ErrLoopNotAllowed
	}
	if weight < 0 {
		return "", ErrBadWeight
	}

	// 2) Ensure vertices exist
	if err := g.AddVertex(a); err != nil {
		return "", err
	}
	if err := g.AddVertex(b); err != nil {
		return "", err
	}

	// 3) Insert under lock
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	eid := EdgeID(a, b)
	if _, dup := g.edges[eid]; dup {
		return "", ErrDuplicateEdge
	}
	if b < a {
		a, b = b, a
	}
	g.edges[eid] = &Edge{ID: eid, From: a, To: b, Weight: weight}
	g.adjacency[a][b] = eid
	g.adjacency[b][a] = eid

	return eid, nil
}

// SetWeight replaces the weight of the edge {a,b}.
//
// Errors: ErrEdgeNotFound, ErrBadWeight.
// Complexity: O(1).
func (g *Graph) SetWeight(a, b string, weight int64) error {
	if weight < 0 {
		return ErrBadWeight
	}
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()
	e, ok := g.edges[EdgeID(a, b)]
	if !ok {
		return ErrEdgeNotFound
	}
	e.Weight = weight

	return nil
}

// HasEdge reports whether {a,b} is an edge.
func (g *Graph) HasEdge(a, b string) bool {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	_, ok := g.edges[EdgeID(a, b)]

	return ok
}

// Weight returns the weight of {a,b} and whether the edge exists.
func (g *Graph) Weight(a, b string) (int64, bool) {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	e, ok := g.edges[EdgeID(a, b)]
	if !ok {
		return 0, false
	}

	return e.Weight, true
}

// Vertices returns all vertex IDs sorted ascending.
// Complexity: O(V log V).
func (g *Graph) Vertices() []string {
	g.muVert.RLock()
	out := make([]string, 0, len(g.vertices))
	for id := range g.vertices {
		out = append(out, id)
	}
	g.muVert.RUnlock()
	sort.Strings(out)

	return out
}

// Edges returns copies of all edges sorted by (From, To).
// Complexity: O(E log E).
func (g *Graph) Edges() []Edge {
	g.muEdgeAdj.RLock()
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	g.muEdgeAdj.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})

	return out
}

// NeighborIDs returns the sorted neighbors of id.
//
// Errors: ErrVertexNotFound.
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	out := make([]string, 0, len(g.adjacency[id]))
	for nb := range g.adjacency[id] {
		out = append(out, nb)
	}
	g.muEdgeAdj.RUnlock()
	sort.Strings(out)

	return out, nil
}

// Degree returns the number of edges incident to id.
//
// Errors: ErrVertexNotFound.
func (g *Graph) Degree(id string) (int, error) {
	if !g.HasVertex(id) {
		return 0, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.adjacency[id]), nil
}

// Isolated returns the sorted IDs of vertices without any edge.
func (g *Graph) Isolated() []string {
	var out []string
	for _, id := range g.Vertices() {
		if d, _ := g.Degree(id); d == 0 {
			out = append(out, id)
		}
	}

	return out
}

// VertexCount returns |V|.
func (g *Graph) VertexCount() int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return len(g.vertices)
}

// EdgeCount returns |E|.
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edges)
}

// TotalWeight sums the weights of all edges.
func (g *Graph) TotalWeight() int64 {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	var sum int64
	for _, e := range g.edges {
		sum += e.Weight
	}

	return sum
}
