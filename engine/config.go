package engine

import (
	"github.com/katalvlaran/matchcycle/model"
	"github.com/katalvlaran/matchcycle/parity"
	"github.com/katalvlaran/matchcycle/weight"
)

// Config carries every tunable of a run. Struct tags cover the JSON input
// envelope, YAML and TOML config files, and map-shaped sources decoded with
// mapstructure.
type Config struct {
	BaseScore           int64       `json:"base_score" yaml:"base_score" toml:"base_score" mapstructure:"base_score"`
	RecencyDecay        int64       `json:"recency_decay" yaml:"recency_decay" toml:"recency_decay" mapstructure:"recency_decay"`
	RecencyWindow       int64       `json:"recency_window" yaml:"recency_window" toml:"recency_window" mapstructure:"recency_window"`
	AttributeBonus      int64       `json:"attribute_bonus" yaml:"attribute_bonus" toml:"attribute_bonus" mapstructure:"attribute_bonus"`
	DiversityAttributes []string    `json:"diversity_attributes" yaml:"diversity_attributes" toml:"diversity_attributes" mapstructure:"diversity_attributes"`
	ParityPolicy        string      `json:"parity_policy" yaml:"parity_policy" toml:"parity_policy" mapstructure:"parity_policy"`
	AllowFragmented     bool        `json:"allow_fragmented" yaml:"allow_fragmented" toml:"allow_fragmented" mapstructure:"allow_fragmented"`
	HardExclusionPairs  [][2]string `json:"hard_exclusion_pairs" yaml:"hard_exclusion_pairs" toml:"hard_exclusion_pairs" mapstructure:"hard_exclusion_pairs"`
	ExcludeSameAttrs    []string    `json:"exclude_same_attribute" yaml:"exclude_same_attribute" toml:"exclude_same_attribute" mapstructure:"exclude_same_attribute"`
	MaxCardinality      bool        `json:"max_cardinality" yaml:"max_cardinality" toml:"max_cardinality" mapstructure:"max_cardinality"`
}

// DefaultConfig returns the weight defaults, the triple parity policy and
// maximum-cardinality matching.
//
// Decoders should unmarshal onto this value so that absent keys keep their
// defaults.
func DefaultConfig() Config {
	w := weight.DefaultConfig()

	return Config{
		BaseScore:      w.BaseScore,
		RecencyDecay:   w.RecencyDecay,
		RecencyWindow:  w.RecencyWindow,
		ParityPolicy:   string(parity.PolicyTriple),
		MaxCardinality: true,
	}
}

// Weight projects the scorer settings.
func (c Config) Weight() weight.Config {
	return weight.Config{
		BaseScore:           c.BaseScore,
		RecencyDecay:        c.RecencyDecay,
		RecencyWindow:       c.RecencyWindow,
		AttributeBonus:      c.AttributeBonus,
		DiversityAttributes: c.DiversityAttributes,
	}
}

// Parity projects the resolver settings.
func (c Config) Parity() parity.Options {
	return parity.Options{Policy: parity.Policy(c.ParityPolicy), AllowFragmented: c.AllowFragmented}
}

// Validate checks every field. Exclusion pairs are checked by the builder,
// which knows the pool.
func (c Config) Validate() error {
	if err := c.Weight().Validate(); err != nil {
		return err
	}
	if _, err := parity.ParsePolicy(c.ParityPolicy); err != nil {
		return err
	}
	for i, k := range c.ExcludeSameAttrs {
		if k == "" {
			return model.Invalid("config.exclude_same_attribute", "entry %d is empty", i)
		}
	}

	return nil
}
