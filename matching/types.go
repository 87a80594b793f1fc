package matching

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors returned by the matching solver.
var (
	// ErrNilGraph indicates that a nil *core.Graph was passed to MaxWeight.
	ErrNilGraph = errors.New("matching: graph is nil")

	// ErrNegativeWeight indicates a negative edge weight in the input.
	ErrNegativeWeight = errors.New("matching: negative edge weight")

	// ErrBadEdge indicates an indexed edge with out-of-range or equal endpoints.
	ErrBadEdge = errors.New("matching: invalid edge endpoints")

	// ErrNotAMatching indicates two pairs share a vertex.
	ErrNotAMatching = errors.New("matching: vertex covered twice")
)

// Options configures the solver.
//
//   - Ctx:            checked once per stage; cancellation aborts the solve.
//   - MaxCardinality: only consider matchings of maximum cardinality and
//     maximize weight among those.
type Options struct {
	Ctx            context.Context
	MaxCardinality bool
}

// DefaultOptions returns Background context and MaxCardinality=true, which
// is what a pairing round wants: cover as many people as possible first.
func DefaultOptions() Options {
	return Options{Ctx: context.Background(), MaxCardinality: true}
}

func (o *Options) normalize() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}

// IndexedEdge is an edge of the integer-indexed problem: I != J, both in [0,n).
type IndexedEdge struct {
	I, J int
	W    int64
}

// Pair is a matched edge reported with canonical endpoint order (A < B).
type Pair struct {
	A, B   string
	Weight int64
}

// Matching is the result of MaxWeight.
type Matching struct {
	Pairs  []Pair            // sorted by (A, B)
	Mate   map[string]string // both directions
	Weight int64             // sum of Pair weights
}

// Covered reports whether id is matched.
func (m *Matching) Covered(id string) bool {
	_, ok := m.Mate[id]

	return ok
}

// Uncovered returns the ids from vertices that m leaves unmatched, preserving
// the input order.
func (m *Matching) Uncovered(vertices []string) []string {
	var out []string
	for _, v := range vertices {
		if !m.Covered(v) {
			out = append(out, v)
		}
	}

	return out
}

// Validate checks the matching invariant: every vertex appears in at most one pair.
func (m *Matching) Validate() error {
	seen := make(map[string]int, 2*len(m.Pairs))
	for i, p := range m.Pairs {
		for _, v := range [2]string{p.A, p.B} {
			if j, dup := seen[v]; dup {
				return fmt.Errorf("%w: %q in pairs %d and %d", ErrNotAMatching, v, j, i)
			}
			seen[v] = i
		}
	}

	return nil
}
