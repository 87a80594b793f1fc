// Package parity turns a maximum-weight matching that leaves participants
// uncovered into a PairingResult that accounts for every eligible participant.
//
// Uncovered participants appear when the pool is odd, or when hard exclusions
// leave someone without a usable partner. Two policies exist:
//
//   - PolicyTriple:    attach the participant to the matched pair with the
//     largest attachment weight w(u,a)+w(u,b). Both edges must exist in the
//     candidate graph, so recency and hard exclusions still hold inside a
//     triad. Ties go to the smaller PairKey. Each pair absorbs at most one
//     participant.
//   - PolicyCarryOver: list the participant in PairingResult.Unresolved; the
//     caller schedules them in the next cycle.
//
// AllowFragmented decides what happens with more than one uncovered
// participant: when false the resolver stops with *model.PartialCoverageError;
// when true it applies the policy to each of them in ascending id order.
//
// A graph with no edges and two or more vertices is infeasible unless the
// policy can absorb total fragmentation, which only carry-over with
// AllowFragmented does.
package parity
