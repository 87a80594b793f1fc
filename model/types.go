package model

import "sort"

// Participant is one member of the pool for a single cycle.
type Participant struct {
	// ID is unique within the pool and stable across cycles (typically an email).
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// Eligible is false for participants the operator excluded this cycle.
	Eligible bool `json:"eligible" yaml:"eligible" mapstructure:"eligible"`

	// Attributes carries free-form columns (name, team, ...). Used by optional
	// weight extensions and same-attribute exclusion only.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" mapstructure:"attributes"`
}

// Attr returns the attribute value for key, or "" when absent.
func (p Participant) Attr(key string) string {
	if p.Attributes == nil {
		return ""
	}

	return p.Attributes[key]
}

// HistoryRecord remembers the most recent cycle in which A and B were grouped.
type HistoryRecord struct {
	A         string `json:"a_id" yaml:"a_id" mapstructure:"a_id"`
	B         string `json:"b_id" yaml:"b_id" mapstructure:"b_id"`
	LastCycle int64  `json:"last_cycle" yaml:"last_cycle" mapstructure:"last_cycle"`
}

// Key returns the canonical unordered pair of the record.
func (r HistoryRecord) Key() PairKey { return NewPairKey(r.A, r.B) }

// PairKey is an unordered pair of participant ids stored with Lo < Hi.
type PairKey struct {
	Lo, Hi string
}

// NewPairKey orders a and b so that NewPairKey(a,b) == NewPairKey(b,a).
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}

	return PairKey{Lo: a, Hi: b}
}

// Less is the fixed total order over pairs used for every tie-break.
func (k PairKey) Less(o PairKey) bool {
	if k.Lo != o.Lo {
		return k.Lo < o.Lo
	}

	return k.Hi < o.Hi
}

// String renders the pair as "lo|hi".
func (k PairKey) String() string { return k.Lo + "|" + k.Hi }

// Group kinds as reported in emitted results.
const (
	KindPair  = "pair"
	KindTriad = "triad"
)

// Group is one emitted meeting: two members, or three when parity required it.
type Group struct {
	Members []string `json:"members" yaml:"members"`
	Weight  int64    `json:"weight" yaml:"weight"`
	Kind    string   `json:"kind" yaml:"kind"`
}

// NewGroup returns a Group with members sorted and Kind derived from size.
func NewGroup(weight int64, members ...string) Group {
	m := append([]string(nil), members...)
	sort.Strings(m)
	kind := KindPair
	if len(m) == 3 {
		kind = KindTriad
	}

	return Group{Members: m, Weight: weight, Kind: kind}
}

// Pairs expands the group into its member pairs (1 for a pair, 3 for a triad).
func (g Group) Pairs() []PairKey {
	var (
		out  []PairKey
		i, j int
	)
	for i = 0; i < len(g.Members); i++ {
		for j = i + 1; j < len(g.Members); j++ {
			out = append(out, NewPairKey(g.Members[i], g.Members[j]))
		}
	}

	return out
}

// PairingResult is the engine output for one cycle.
//
// Invariant: the members of all Pairs plus Unresolved equal the eligible set,
// and no id appears twice.
type PairingResult struct {
	Pairs       []Group  `json:"pairs" yaml:"pairs"`
	Unresolved  []string `json:"unresolved" yaml:"unresolved"`
	TotalWeight int64    `json:"total_weight" yaml:"total_weight"`
}

// Normalize sorts groups and unresolved ids into canonical order and
// recomputes TotalWeight.
func (r *PairingResult) Normalize() {
	var i int
	r.TotalWeight = 0
	for i = range r.Pairs {
		sort.Strings(r.Pairs[i].Members)
		r.TotalWeight += r.Pairs[i].Weight
	}
	sort.Slice(r.Pairs, func(a, b int) bool {
		return r.Pairs[a].Members[0] < r.Pairs[b].Members[0]
	})
	sort.Strings(r.Unresolved)
	if r.Unresolved == nil {
		r.Unresolved = []string{}
	}
	if r.Pairs == nil {
		r.Pairs = []Group{}
	}
}

// Covered returns every participant id that appears in a group.
func (r PairingResult) Covered() []string {
	var out []string
	for _, g := range r.Pairs {
		out = append(out, g.Members...)
	}
	sort.Strings(out)

	return out
}

// CountKind reports how many groups have the given kind.
func (r PairingResult) CountKind(kind string) int {
	var n int
	for _, g := range r.Pairs {
		if g.Kind == kind {
			n++
		}
	}

	return n
}

// HistoryRecords returns the records to append after emitting this result:
// one per pair and three per triad, all stamped with cycle.
func (r PairingResult) HistoryRecords(cycle int64) []HistoryRecord {
	var out []HistoryRecord
	for _, g := range r.Pairs {
		for _, k := range g.Pairs() {
			out = append(out, HistoryRecord{A: k.Lo, B: k.Hi, LastCycle: cycle})
		}
	}

	return out
}
