package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mamadbah2/gigboard/internal/domain/scoring"
)

const scoringEnvPrefix = "GIGBOARD_SCORING_"

// ScoringConfig is the externally supplied scoring policy.
type ScoringConfig struct {
	Mode          string              `koanf:"mode"`
	AbsoluteScale float64             `koanf:"absolute_scale"`
	MoneyCap      float64             `koanf:"money_cap"`
	Weights       scoring.Weights     `koanf:"weights"`
	Thresholds    []scoring.Threshold `koanf:"thresholds"`
	FallbackLabel string              `koanf:"fallback_label"`
}

// DefaultScoring mirrors scoring.DefaultPolicy.
func DefaultScoring() ScoringConfig {
	p := scoring.DefaultPolicy()
	return ScoringConfig{
		Mode:          string(p.Mode),
		AbsoluteScale: p.AbsoluteScale,
		MoneyCap:      p.MoneyCap,
		Weights:       p.DefaultWeights,
		Thresholds:    p.Thresholds,
		FallbackLabel: p.FallbackLabel,
	}
}

// Policy converts the configuration into a scoring policy.
func (s ScoringConfig) Policy() scoring.Policy {
	thresholds := make([]scoring.Threshold, len(s.Thresholds))
	copy(thresholds, s.Thresholds)
	return scoring.Policy{
		Mode:           scoring.MoneyMode(strings.ToLower(s.Mode)),
		AbsoluteScale:  s.AbsoluteScale,
		MoneyCap:       s.MoneyCap,
		DefaultWeights: s.Weights,
		Thresholds:     thresholds,
		FallbackLabel:  s.FallbackLabel,
	}
}

// LoadScoring layers the scoring policy (low -> high precedence):
//  1. defaults
//  2. YAML file at path, if set
//  3. env vars prefixed GIGBOARD_SCORING_ (e.g. GIGBOARD_SCORING_WEIGHTS_MONEY)
func LoadScoring(path string) (ScoringConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return ScoringConfig{}, fmt.Errorf("%w: scoring policy file: %v", ErrInvalidConfig, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return ScoringConfig{}, fmt.Errorf("%w: parse scoring policy %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := k.Load(env.Provider(scoringEnvPrefix, ".", scoringEnvKey), nil); err != nil {
		return ScoringConfig{}, fmt.Errorf("%w: scoring env: %v", ErrInvalidConfig, err)
	}

	cfg := DefaultScoring()
	if k.Exists("thresholds") {
		cfg.Thresholds = nil
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return ScoringConfig{}, fmt.Errorf("%w: decode scoring policy: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// scoringEnvKey maps GIGBOARD_SCORING_WEIGHTS_MONEY -> weights.money and
// GIGBOARD_SCORING_MONEY_CAP -> money_cap.
func scoringEnvKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, scoringEnvPrefix))
	if rest, ok := strings.CutPrefix(key, "weights_"); ok {
		return "weights." + rest
	}
	return key
}
