// Package engine wires the pairing pipeline for one cycle:
//
//	validate → eligible → score → candidates → annotate → solve → parity
//
// Run is a pure function of its Input: it performs no I/O, keeps no state
// between calls and returns identical results for identical input. The
// context is checked between stages and inside the matching solver; on
// cancellation the whole computation is discarded and ctx.Err() returned.
//
// Observability is attached with options: WithLogger for structured logs and
// WithHooks for stage and result callbacks (internal/metrics builds hooks
// backed by Prometheus collectors).
//
// Example:
//
//	in := engine.Input{
//	    Participants: pool,
//	    History:      history,
//	    CurrentCycle: 12,
//	    Config:       engine.DefaultConfig(),
//	}
//	res, err := engine.Run(ctx, in)
package engine
