// Package core defines the candidate Graph used by the pairing engine: an
// undirected, weighted, simple graph over participant ids with thread-safe
// primitives and deterministic iteration.
//
// This file declares Edge, Graph, GraphOption, sentinel errors, and the
// NewGraph constructor.
//
// Errors:
//
//	ErrEmptyVertexID   - vertex ID is the empty string.
//	ErrVertexNotFound  - requested vertex does not exist.
//	ErrEdgeNotFound    - requested edge does not exist.
//	ErrLoopNotAllowed  - self-pair; a participant cannot meet themselves.
//	ErrDuplicateEdge   - the unordered pair already has an edge.
//	ErrBadWeight       - negative edge weight.
package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided vertex ID is empty.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrDuplicateEdge indicates a second edge between the same endpoints.
	ErrDuplicateEdge = errors.New("core: edge already exists")

	// ErrBadWeight indicates a negative weight.
	ErrBadWeight = errors.New("core: negative edge weight")
)

// Edge is an undirected candidate pairing.
//
// From < To always holds; ID is "From|To". Weight is the desirability
// assigned by the weight stage (0 until annotated).
type Edge struct {
	ID     string
	From   string
	To     string
	Weight int64
}

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithCapacity pre-sizes the vertex catalog for n vertices.
func WithCapacity(n int) GraphOption {
	return func(g *Graph) {
		if n > 0 {
			g.capacity = n
		}
	}
}

// Graph is the in-memory candidate graph.
//
// muVert protects vertices; muEdgeAdj protects edges and adjacency.
// Lock order is always muVert -> muEdgeAdj.
type Graph struct {
	muVert    sync.RWMutex // guards vertices
	muEdgeAdj sync.RWMutex // guards edges and adjacency

	capacity int

	vertices map[string]struct{} // vertex ID set
	edges    map[string]*Edge    // edge ID → Edge

	// adjacency[a][b] = edge ID, mirrored for b→a.
	adjacency map[string]map[string]string
}

// NewGraph creates an empty Graph.
// Complexity: O(1) (O(n) with WithCapacity).
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{}
	for _, opt := range opts {
		opt(g)
	}
	g.vertices = make(map[string]struct{}, g.capacity)
	g.edges = make(map[string]*Edge)
	g.adjacency = make(map[string]map[string]string, g.capacity)

	return g
}

// EdgeID returns the canonical identifier of the unordered pair {a,b}.
func EdgeID(a, b string) string {
	if b < a {
		a, b = b, a
	}

	return a + "|" + b
}
