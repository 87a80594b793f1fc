// SPDX-License-Identifier: MIT
// Package: matchcycle/builder
//
// options.go - functional options for Candidates.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors PANIC on programmer errors (nil predicates).
//     Data errors (bad exclusion pairs) surface from Candidates as
//     *model.ValidationError instead.
//   • Exclusions compose with OR: a pair is forbidden if any rule forbids it.

package builder

import "github.com/katalvlaran/matchcycle/model"

// Exclusion reports whether the pair {a,b} is forbidden by a hard rule.
// Implementations must be pure and symmetric.
type Exclusion func(a, b model.Participant) bool

// BuilderOption customizes Candidates.
type BuilderOption func(*builderConfig)

type builderConfig struct {
	pairs         [][2]string // explicit forbidden pairs, validated in Candidates
	sameAttribute []string    // attribute keys whose equality forbids a pair
	rules         []Exclusion // arbitrary predicates
}

// WithExcludedPairs forbids each listed unordered pair.
// Pairs naming unknown participants are ignored; empty or self pairs are
// rejected by Candidates.
func WithExcludedPairs(pairs [][2]string) BuilderOption {
	return func(c *builderConfig) {
		c.pairs = append(c.pairs, pairs...)
	}
}

// WithSameAttributeExclusion forbids pairing two participants that share a
// non-empty value for key (e.g. "team"). Empty key is a no-op.
func WithSameAttributeExclusion(key string) BuilderOption {
	return func(c *builderConfig) {
		if key != "" {
			c.sameAttribute = append(c.sameAttribute, key)
		}
	}
}

// WithExclusion adds an arbitrary hard rule. Panics on nil.
func WithExclusion(rule Exclusion) BuilderOption {
	if rule == nil {
		panic("builder: WithExclusion(nil)")
	}

	return func(c *builderConfig) {
		c.rules = append(c.rules, rule)
	}
}

// WithRecencyExclusion forbids pairs for which recent(a.ID, b.ID) is true;
// typically (*weight.Scorer).Excluded. Panics on nil.
func WithRecencyExclusion(recent func(a, b string) bool) BuilderOption {
	if recent == nil {
		panic("builder: WithRecencyExclusion(nil)")
	}

	return WithExclusion(func(a, b model.Participant) bool { return recent(a.ID, b.ID) })
}
