// Package weight assigns each candidate pairing a scalar desirability that
// reflects how "fresh" the pairing is.
//
//	weight(a,b) = BaseScore − penalty(a,b) + bonus(a,b)
//
//	penalty = 0                            never paired
//	        = excluded (no edge)           since ≤ RecencyWindow
//	        = RecencyDecay / since         otherwise (integer division)
//	since   = currentCycle − lastCycle(a,b)
//	bonus   = AttributeBonus × |{k ∈ DiversityAttributes : a[k] ≠ b[k]}|
//
// The recency penalty dominates the bonus: a pair met just outside the window
// always scores below any never-met pair. Weights are positive int64 values,
// so the solver never sees NaN or infinities.
package weight

import (
	"fmt"

	"github.com/katalvlaran/matchcycle/core"
	"github.com/katalvlaran/matchcycle/model"
)

// MaxBaseScore bounds BaseScore so weight sums and dual variables inside
// the matching solver stay far away from int64 overflow.
const MaxBaseScore int64 = 1 << 40

// Defaults for Config.
const (
	DefaultBaseScore     int64 = 1_000_000
	DefaultRecencyDecay  int64 = 500_000
	DefaultRecencyWindow int64 = 1
)

// Config parameterizes the scorer.
type Config struct {
	BaseScore           int64    // score of a never-met pair without bonus
	RecencyDecay        int64    // numerator of the decaying penalty
	RecencyWindow       int64    // cycles during which a repeat is forbidden
	AttributeBonus      int64    // bonus per differing diversity attribute
	DiversityAttributes []string // attribute keys compared for the bonus
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BaseScore:     DefaultBaseScore,
		RecencyDecay:  DefaultRecencyDecay,
		RecencyWindow: DefaultRecencyWindow,
	}
}

// Validate enforces positivity and the dominance of the recency penalty.
func (c Config) Validate() error {
	switch {
	case c.BaseScore <= 0 || c.BaseScore > MaxBaseScore:
		return model.Invalid("config.base_score", "must be in (0, %d], got %d", MaxBaseScore, c.BaseScore)
	case c.RecencyDecay < 0:
		return model.Invalid("config.recency_decay", "must be non-negative, got %d", c.RecencyDecay)
	case c.RecencyDecay >= c.BaseScore:
		return model.Invalid("config.recency_decay", "must be below base_score (%d), got %d", c.BaseScore, c.RecencyDecay)
	case c.RecencyWindow < 0:
		return model.Invalid("config.recency_window", "must be non-negative, got %d", c.RecencyWindow)
	case c.AttributeBonus < 0:
		return model.Invalid("config.attribute_bonus", "must be non-negative, got %d", c.AttributeBonus)
	}
	maxBonus := c.AttributeBonus * int64(len(c.DiversityAttributes))
	if maxBonus > 0 && maxBonus >= c.RecencyDecay/(c.RecencyWindow+1) {
		return model.Invalid("config.attribute_bonus",
			"total bonus %d must stay below the smallest recency penalty %d", maxBonus, c.RecencyDecay/(c.RecencyWindow+1))
	}
	if maxBonus > MaxBaseScore {
		return model.Invalid("config.attribute_bonus", "total bonus %d exceeds %d", maxBonus, MaxBaseScore)
	}

	return nil
}

// Scorer evaluates pair weights for one cycle. It is immutable after
// construction and safe for concurrent reads.
type Scorer struct {
	cfg     Config
	current int64
	last    map[model.PairKey]int64
}

// NewScorer validates cfg and indexes history for currentCycle.
// History is expected to be validated by the caller (model.ValidateHistory).
func NewScorer(cfg Config, currentCycle int64, history []model.HistoryRecord) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Scorer{cfg: cfg, current: currentCycle, last: model.IndexHistory(history)}, nil
}

// Config returns the scorer configuration.
func (s *Scorer) Config() Config { return s.cfg }

// Since reports how many cycles ago a and b last met, and whether they ever did.
func (s *Scorer) Since(a, b string) (int64, bool) {
	last, ok := s.last[model.NewPairKey(a, b)]
	if !ok {
		return 0, false
	}

	return s.current - last, true
}

// Excluded reports whether {a,b} met within the recency window.
func (s *Scorer) Excluded(a, b string) bool {
	since, met := s.Since(a, b)

	return met && since <= s.cfg.RecencyWindow
}

// Penalty returns the recency penalty for {a,b}; 0 when never met.
// Callers must check Excluded first; inside the window the pair has no weight.
func (s *Scorer) Penalty(a, b string) int64 {
	since, met := s.Since(a, b)
	if !met || since <= 0 {
		return 0
	}

	return s.cfg.RecencyDecay / since
}

// Bonus returns the diversity bonus for the two participants.
func (s *Scorer) Bonus(a, b model.Participant) int64 {
	if s.cfg.AttributeBonus == 0 {
		return 0
	}
	var n int64
	for _, k := range s.cfg.DiversityAttributes {
		if a.Attr(k) != b.Attr(k) {
			n++
		}
	}

	return n * s.cfg.AttributeBonus
}

// Weight returns the positive weight of the pairing {a,b}.
//
// Errors: *model.ValidationError when the pair is inside the recency window
// or the computed weight is not positive.
func (s *Scorer) Weight(a, b model.Participant) (int64, error) {
	if s.Excluded(a.ID, b.ID) {
		return 0, model.Invalid("edge "+core.EdgeID(a.ID, b.ID), "pair is inside the recency window")
	}
	w := s.cfg.BaseScore - s.Penalty(a.ID, b.ID) + s.Bonus(a, b)
	if w <= 0 {
		return 0, model.Invalid("edge "+core.EdgeID(a.ID, b.ID), "non-positive weight %d", w)
	}

	return w, nil
}

// Annotate writes Weight(a,b) onto every edge of g. byID resolves vertex
// ids to participants; a vertex missing from byID is a programming error and
// is reported as a validation failure.
//
// Complexity: O(E log E).
func (s *Scorer) Annotate(g *core.Graph, byID map[string]model.Participant) error {
	var (
		w   int64
		err error
	)
	for _, e := range g.Edges() {
		a, okA := byID[e.From]
		b, okB := byID[e.To]
		if !okA || !okB {
			return model.Invalid("edge "+e.ID, "endpoint is not a known participant")
		}
		if w, err = s.Weight(a, b); err != nil {
			return err
		}
		if err = g.SetWeight(e.From, e.To, w); err != nil {
			return fmt.Errorf("weight: annotate %s: %w", e.ID, err)
		}
	}

	return nil
}
