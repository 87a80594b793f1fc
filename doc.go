// Package matchcycle computes recurring pairings for a pool of people:
// every cycle, each eligible participant gets a partner they have not met
// recently, and the total freshness of the round is as large as possible.
//
// What is inside
//
//	model/    - Participant, HistoryRecord, Group, PairingResult and the error taxonomy
//	core/     - thread-safe undirected weighted graph with sorted iteration
//	weight/   - recency-decay scorer with an optional attribute-diversity bonus
//	builder/  - candidate graph: everyone eligible minus hard exclusions
//	matching/ - Edmonds blossom maximum-weight matching, O(V³), integer duals
//	parity/   - odd pools: triads or carry-over, fragmentation handling
//	engine/   - Input → PairingResult with logging and lifecycle hooks
//	config/   - engine configuration from YAML or TOML
//	ports/    - Loader / HistoryStore / Emitter interfaces
//	cmd/      - the matchmaker CLI (run, validate, version)
//
// Reference adapters live under internal/adapters: sheet exports on disk
// (CSV, YAML, JSON), Redis, and a JSON result writer.
//
// Quick example:
//
//	in := engine.NewInput()
//	in.Participants = participants
//	in.History = history
//	in.CurrentCycle = 12
//	res, err := engine.Run(ctx, in)
//
// Ties between equally fresh pairings are settled by participant ID order,
// so the same input always yields the same pairing.
package matchcycle
