// SPDX-License-Identifier: MIT
// Package: matchcycle/builder
//
// candidates.go - the candidate graph over eligible participants.
//
// Contract:
//   • ids unique and non-empty (else *model.ValidationError).
//   • Adds vertices in ascending ID order.
//   • Emits each unordered pair {i,j}, i<j, exactly once unless a hard rule
//     forbids it. Edges start at weight 0; the weight stage annotates them.
//   • N < 2 yields a graph with N vertices and no edges.
//
// Complexity:
//   • Time: O(n log n) sort + O(n²·r) pair emission for r rules.
//   • Space: O(n + |excluded pairs|).
//
// Determinism:
//   • Pair order is lexicographic by (lo, hi); no randomness involved.

package builder

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/matchcycle/core"
	"github.com/katalvlaran/matchcycle/model"
)

const methodCandidates = "Candidates"

// Candidates builds the complete graph on participants minus every pair
// forbidden by the configured hard rules. Callers pass the eligible set; the
// eligibility flag itself is not consulted here.
func Candidates(participants []model.Participant, opts ...BuilderOption) (*core.Graph, error) {
	var cfg builderConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// Stage 1: ids.
	if err := model.ValidatePool(participants); err != nil {
		return nil, err
	}
	ps := append([]model.Participant(nil), participants...)
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })

	// Stage 2: explicit forbidden pairs.
	forbidden, err := indexPairs(cfg.pairs)
	if err != nil {
		return nil, err
	}

	// Stage 3: vertices in ascending order.
	g := core.NewGraph(core.WithCapacity(len(ps)))
	var i, j int
	for i = range ps {
		if err = g.AddVertex(ps[i].ID); err != nil {
			return nil, fmt.Errorf("%s: AddVertex(%s): %w", methodCandidates, ps[i].ID, err)
		}
	}

	// Stage 4: every admissible unordered pair.
	for i = 0; i < len(ps); i++ {
		for j = i + 1; j < len(ps); j++ {
			if cfg.forbids(ps[i], ps[j], forbidden) {
				continue
			}
			if _, err = g.AddEdge(ps[i].ID, ps[j].ID, 0); err != nil {
				return nil, fmt.Errorf("%s: AddEdge(%s, %s): %w", methodCandidates, ps[i].ID, ps[j].ID, err)
			}
		}
	}

	return g, nil
}

// forbids applies every hard rule to {a,b}.
func (c *builderConfig) forbids(a, b model.Participant, forbidden map[model.PairKey]struct{}) bool {
	if _, ok := forbidden[model.NewPairKey(a.ID, b.ID)]; ok {
		return true
	}
	for _, key := range c.sameAttribute {
		if v := a.Attr(key); v != "" && v == b.Attr(key) {
			return true
		}
	}
	for _, rule := range c.rules {
		if rule(a, b) {
			return true
		}
	}

	return false
}

// indexPairs validates explicit pairs and folds them into a set.
func indexPairs(pairs [][2]string) (map[model.PairKey]struct{}, error) {
	set := make(map[model.PairKey]struct{}, len(pairs))
	for i, p := range pairs {
		field := fmt.Sprintf("config.hard_exclusion_pairs[%d]", i)
		if p[0] == "" || p[1] == "" {
			return nil, model.Invalid(field, "empty participant id")
		}
		if p[0] == p[1] {
			return nil, model.Invalid(field, "self pair %q", p[0])
		}
		set[model.NewPairKey(p[0], p[1])] = struct{}{}
	}

	return set, nil
}
