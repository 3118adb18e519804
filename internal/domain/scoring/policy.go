package scoring

import (
	"fmt"
	"math"
	"sort"
)

// MoneyMode selects how the money component of a score is normalised.
type MoneyMode string

const (
	// MoneyModeBaseline scores the effective hourly rate relative to the historical average.
	MoneyModeBaseline MoneyMode = "baseline"
	// MoneyModeAbsolute divides the effective hourly rate by a fixed scale.
	MoneyModeAbsolute MoneyMode = "absolute"
)

// Default verdict labels.
const (
	VerdictStrongYes  = "strong yes"
	VerdictMaybe      = "maybe"
	VerdictBorderline = "borderline"
	VerdictNotWorthIt = "not worth it"
)

const (
	DefaultMoneyCap      = 2.0
	DefaultAbsoluteScale = 100.0
)

// Threshold assigns Label to any final score greater than or equal to Score.
type Threshold struct {
	Score float64 `json:"score" koanf:"score"`
	Label string  `json:"label" koanf:"label"`
}

// Policy bundles every caller-owned scoring knob.
type Policy struct {
	Mode           MoneyMode   `json:"mode"`
	AbsoluteScale  float64     `json:"absolute_scale"`
	MoneyCap       float64     `json:"money_cap"`
	DefaultWeights Weights     `json:"default_weights"`
	Thresholds     []Threshold `json:"thresholds"`
	FallbackLabel  string      `json:"fallback_label"`
}

// DefaultPolicy returns the baseline-relative policy with the documented bands:
// >=0.9 strong yes, >=0.65 maybe, >=0.4 borderline, otherwise not worth it.
func DefaultPolicy() Policy {
	return Policy{
		Mode:           MoneyModeBaseline,
		AbsoluteScale:  DefaultAbsoluteScale,
		MoneyCap:       DefaultMoneyCap,
		DefaultWeights: Weights{Money: 0.5, Career: 0.3, Enjoyment: 0.2},
		Thresholds: []Threshold{
			{Score: 0.9, Label: VerdictStrongYes},
			{Score: 0.65, Label: VerdictMaybe},
			{Score: 0.4, Label: VerdictBorderline},
		},
		FallbackLabel: VerdictNotWorthIt,
	}
}

// Validate checks the policy is usable by a Scorer.
func (p Policy) Validate() error {
	switch p.Mode {
	case MoneyModeBaseline:
		if !(p.MoneyCap > 0) {
			return fmt.Errorf("%w: money cap must be positive", ErrInvalidInput)
		}
	case MoneyModeAbsolute:
		if !(p.AbsoluteScale > 0) || math.IsInf(p.AbsoluteScale, 0) {
			return fmt.Errorf("%w: absolute scale must be positive", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown money mode %q", ErrInvalidInput, p.Mode)
	}

	if p.FallbackLabel == "" {
		return fmt.Errorf("%w: fallback label must not be empty", ErrInvalidInput)
	}

	seen := make(map[float64]struct{}, len(p.Thresholds))
	for _, t := range p.Thresholds {
		if t.Label == "" {
			return fmt.Errorf("%w: threshold %v has no label", ErrInvalidInput, t.Score)
		}
		if math.IsNaN(t.Score) {
			return fmt.Errorf("%w: threshold %q has no score", ErrInvalidInput, t.Label)
		}
		if _, dup := seen[t.Score]; dup {
			return fmt.Errorf("%w: duplicate threshold %v", ErrInvalidInput, t.Score)
		}
		seen[t.Score] = struct{}{}
	}

	if _, err := NormalizeWeights(p.DefaultWeights); err != nil {
		return fmt.Errorf("default weights: %w", err)
	}

	return nil
}

// clone copies the policy and orders its thresholds from highest to lowest score.
func (p Policy) clone() Policy {
	out := p
	out.Thresholds = make([]Threshold, len(p.Thresholds))
	copy(out.Thresholds, p.Thresholds)
	sort.SliceStable(out.Thresholds, func(i, j int) bool {
		return out.Thresholds[i].Score > out.Thresholds[j].Score
	})
	return out
}
