// File: resolver.go
// Role: Parity policies applied after the matching solver.
// Determinism:
//   - Uncovered ids are handled in ascending order; candidate pairs are
//     scanned in PairKey order and only a strictly larger attachment weight
//     replaces the current choice.
//   - When the solver's leftover fits no pair, other leftovers are tried in
//     ascending order and the heaviest cover wins.

package parity

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/matchcycle/core"
	"github.com/katalvlaran/matchcycle/matching"
	"github.com/katalvlaran/matchcycle/model"
)

// Policy names the rule for covering leftover participants.
type Policy string

// Supported policies.
const (
	PolicyTriple    Policy = "triple"
	PolicyCarryOver Policy = "carry_over"
)

// ErrNilInput indicates a nil graph or matching passed to Resolve.
var ErrNilInput = errors.New("parity: nil graph or matching")

// ParsePolicy maps a config string onto a Policy. Empty selects PolicyTriple.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyTriple:
		return PolicyTriple, nil
	case PolicyCarryOver:
		return PolicyCarryOver, nil
	}

	return "", model.Invalid("parity_policy", "unknown policy %q (want %q or %q)", s, PolicyTriple, PolicyCarryOver)
}

// Options configures a Resolver.
type Options struct {
	Policy          Policy
	AllowFragmented bool
}

// DefaultOptions returns the triple policy without fragmentation handling.
func DefaultOptions() Options {
	return Options{Policy: PolicyTriple}
}

// Resolver applies a parity policy. It holds no per-run state.
type Resolver struct {
	opts Options
}

// NewResolver validates opts and returns a Resolver.
func NewResolver(opts Options) (*Resolver, error) {
	p, err := ParsePolicy(string(opts.Policy))
	if err != nil {
		return nil, err
	}
	opts.Policy = p

	return &Resolver{opts: opts}, nil
}

// Options returns the effective options.
func (r *Resolver) Options() Options { return r.opts }

// Feasible reports *model.InfeasibleMatchingError when g has two or more
// vertices, no edges, and the policy cannot carry the whole pool over.
func (r *Resolver) Feasible(g *core.Graph) error {
	if g == nil {
		return ErrNilInput
	}
	if g.VertexCount() < 2 || g.EdgeCount() > 0 {
		return nil
	}
	if r.opts.Policy == PolicyCarryOver && r.opts.AllowFragmented {
		return nil
	}

	return &model.InfeasibleMatchingError{Participants: g.Vertices()}
}

// Resolve is ResolveContext with a background context.
func (r *Resolver) Resolve(g *core.Graph, m *matching.Matching) (*model.PairingResult, error) {
	return r.ResolveContext(context.Background(), g, m)
}

// ResolveContext converts m, a matching of g, into a PairingResult covering every
// vertex of g.
//
// Errors:
//   - *model.InfeasibleMatchingError (see Feasible).
//   - *model.PartialCoverageError when more than one participant is uncovered
//     without AllowFragmented, or when the triple policy finds no pair that
//     a participant is connected to on both ends, for the solver's leftover
//     and for every other choice of leftover (see reselect).
//   - ctx.Err() when ctx is canceled while reselecting.
func (r *Resolver) ResolveContext(ctx context.Context, g *core.Graph, m *matching.Matching) (*model.PairingResult, error) {
	if g == nil || m == nil {
		return nil, ErrNilInput
	}
	if err := r.Feasible(g); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("parity: %w", err)
	}

	res := &model.PairingResult{Pairs: make([]model.Group, 0, len(m.Pairs)+1)}
	for _, p := range m.Pairs {
		res.Pairs = append(res.Pairs, model.NewGroup(p.Weight, p.A, p.B))
	}

	uncovered := m.Uncovered(g.Vertices())
	if len(uncovered) > 1 && !r.opts.AllowFragmented {
		return nil, &model.PartialCoverageError{Uncovered: uncovered, Policy: string(r.opts.Policy)}
	}

	switch r.opts.Policy {
	case PolicyCarryOver:
		res.Unresolved = uncovered
	case PolicyTriple:
		stuck := attach(g, res.Pairs, uncovered)
		if len(stuck) == 0 {
			break
		}
		if len(uncovered) == 1 {
			alt, err := reselect(ctx, g)
			if err != nil {
				return nil, err
			}
			if alt != nil {
				return alt, nil
			}
		}
		return nil, &model.PartialCoverageError{Uncovered: stuck, Policy: string(r.opts.Policy)}
	}
	res.Normalize()

	return res, nil
}

// attach grows pairs into triads in place and returns the ids it could not
// place. groups must be sorted by PairKey, which matching.Matching.Pairs is.
func attach(g *core.Graph, groups []model.Group, uncovered []string) []string {
	var (
		stuck []string
		i     int
	)
	for _, u := range uncovered {
		best, bestGain := -1, int64(0)
		for i = range groups {
			if len(groups[i].Members) != 2 {
				continue // already a triad
			}
			wa, okA := g.Weight(u, groups[i].Members[0])
			wb, okB := g.Weight(u, groups[i].Members[1])
			if !okA || !okB {
				continue
			}
			if best == -1 || wa+wb > bestGain {
				best, bestGain = i, wa+wb
			}
		}
		if best == -1 {
			stuck = append(stuck, u)
			continue
		}
		pair := groups[best]
		groups[best] = model.NewGroup(pair.Weight+bestGain, pair.Members[0], pair.Members[1], u)
	}

	return stuck
}

// reselect handles an odd pool whose leftover could not join any pair.
// Every vertex v with at least two neighbors is set aside in ascending order,
// the rest is matched perfectly, and v is attached. The heaviest cover is
// returned; ties keep the smaller v. Nil means no choice of v works.
func reselect(ctx context.Context, g *core.Graph) (*model.PairingResult, error) {
	var best *model.PairingResult
	for _, v := range g.Vertices() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d, _ := g.Degree(v); d < 2 {
			continue
		}
		rest := without(g, v)
		m, err := matching.MaxWeight(rest, matching.Options{Ctx: ctx, MaxCardinality: true})
		if err != nil {
			return nil, fmt.Errorf("parity: reselect %s: %w", v, err)
		}
		if 2*len(m.Pairs) != rest.VertexCount() {
			continue
		}

		cand := &model.PairingResult{Pairs: make([]model.Group, 0, len(m.Pairs))}
		for _, p := range m.Pairs {
			cand.Pairs = append(cand.Pairs, model.NewGroup(p.Weight, p.A, p.B))
		}
		if stuck := attach(g, cand.Pairs, []string{v}); len(stuck) > 0 {
			continue
		}
		cand.Normalize()
		if best == nil || cand.TotalWeight > best.TotalWeight {
			best = cand
		}
	}

	return best, nil
}

// without copies g minus v and its edges.
func without(g *core.Graph, v string) *core.Graph {
	h := core.NewGraph(core.WithCapacity(g.VertexCount()))
	for _, id := range g.Vertices() {
		if id != v {
			_ = h.AddVertex(id)
		}
	}
	for _, e := range g.Edges() {
		if e.From != v && e.To != v {
			_, _ = h.AddEdge(e.From, e.To, e.Weight)
		}
	}

	return h
}
