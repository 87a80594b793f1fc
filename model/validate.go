// Package model - validation helpers shared by the engine and the loaders.
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - First offending value wins; the error names its position.
//   - O(n) in the number of participants / history records.
package model

import (
	"fmt"
	"sort"
)

// ValidatePool checks participant ids: non-empty and unique across the whole
// pool, ineligible participants included.
//
// Complexity: O(n) time and space.
func ValidatePool(participants []Participant) error {
	seen := make(map[string]int, len(participants))

	var (
		i  int
		id string
	)
	for i = range participants {
		id = participants[i].ID
		if id == "" {
			return Invalid(fmt.Sprintf("participants[%d].id", i), "empty id")
		}
		if first, dup := seen[id]; dup {
			return Invalid(fmt.Sprintf("participants[%d].id", i), "duplicate id %q (first at index %d)", id, first)
		}
		seen[id] = i
	}

	return nil
}

// Eligible returns the eligible participants sorted by ID.
// The input slice is not modified.
func Eligible(participants []Participant) []Participant {
	out := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if p.Eligible {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })

	return out
}

// ValidateHistory checks each record against the current cycle:
//   - both ids non-empty and distinct,
//   - 0 ≤ LastCycle < currentCycle.
//
// Records naming participants absent from the pool are legal; people leave.
//
// Complexity: O(len(history)).
func ValidateHistory(history []HistoryRecord, currentCycle int64) error {
	if currentCycle < 0 {
		return Invalid("current_cycle", "must be non-negative, got %d", currentCycle)
	}

	var (
		i     int
		r     HistoryRecord
		field string
	)
	for i, r = range history {
		field = fmt.Sprintf("history[%d]", i)
		switch {
		case r.A == "" || r.B == "":
			return Invalid(field, "empty participant id")
		case r.A == r.B:
			return Invalid(field, "self pair %q", r.A)
		case r.LastCycle < 0:
			return Invalid(field+".last_cycle", "must be non-negative, got %d", r.LastCycle)
		case r.LastCycle >= currentCycle:
			return Invalid(field+".last_cycle", "cycle %d is not before current cycle %d", r.LastCycle, currentCycle)
		}
	}

	return nil
}

// IndexHistory folds records into pair → latest cycle. Multiple records for
// the same pair keep the maximum LastCycle.
func IndexHistory(history []HistoryRecord) map[PairKey]int64 {
	idx := make(map[PairKey]int64, len(history))
	for _, r := range history {
		k := r.Key()
		if last, ok := idx[k]; !ok || r.LastCycle > last {
			idx[k] = r.LastCycle
		}
	}

	return idx
}
