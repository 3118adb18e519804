package scoring

import (
	"fmt"
	"math"

	"github.com/mamadbah2/gigboard/internal/domain/models"
)

const (
	epsilon = 1e-9

	maxRating = 5
	// maxCareerPoints is the best quality ordinal times the best connections rating.
	maxCareerPoints = 3 * maxRating
)

// Candidate describes a gig being considered. Its hourly rate is computed over
// the total time away from home, not the stage time.
type Candidate struct {
	Fee                  float64        `json:"fee"`
	TravelCost           float64        `json:"travel_cost"`
	StageHours           float64        `json:"stage_hours"`
	TimeAwayHours        float64        `json:"time_away_hours"`
	Quality              models.Quality `json:"quality"`
	Enjoyment            int            `json:"enjoyment"`
	ConnectionsPotential int            `json:"connections_potential"`
}

// Result is a fresh evaluation of one candidate.
type Result struct {
	NetPay              float64   `json:"net_pay"`
	EffectiveHourlyRate float64   `json:"effective_hourly_rate"`
	MoneyScore          float64   `json:"money_score"`
	CareerScore         float64   `json:"career_score"`
	EnjoymentScore      float64   `json:"enjoyment_score"`
	FinalScore          float64   `json:"final_score"`
	Verdict             string    `json:"verdict"`
	Weights             Weights   `json:"weights"`
	Mode                MoneyMode `json:"mode"`
}

// Scorer applies a fixed Policy to candidates.
type Scorer struct {
	policy Policy
}

// NewScorer validates the policy and builds a scorer around a private copy of it.
func NewScorer(policy Policy) (*Scorer, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("scoring policy: %w", err)
	}
	return &Scorer{policy: policy.clone()}, nil
}

// Policy returns a copy of the scorer's policy with thresholds ordered high to low.
func (s *Scorer) Policy() Policy {
	return s.policy.clone()
}

// Evaluate scores the candidate. The baseline is required in baseline mode and
// ignored in absolute mode.
func (s *Scorer) Evaluate(c Candidate, w Weights, baseline *BaselineStats) (Result, error) {
	weights, err := s.Validate(c, w)
	if err != nil {
		return Result{}, err
	}

	netPay := c.Fee - c.TravelCost
	effectiveHourly := netPay / math.Max(c.TimeAwayHours, epsilon)

	moneyScore, err := s.moneyScore(effectiveHourly, baseline)
	if err != nil {
		return Result{}, err
	}

	careerScore := float64(c.Quality.Ordinal()*c.ConnectionsPotential) / maxCareerPoints
	enjoymentScore := float64(c.Enjoyment) / maxRating

	final := moneyScore*weights.Money + careerScore*weights.Career + enjoymentScore*weights.Enjoyment

	return Result{
		NetPay:              netPay,
		EffectiveHourlyRate: effectiveHourly,
		MoneyScore:          moneyScore,
		CareerScore:         careerScore,
		EnjoymentScore:      enjoymentScore,
		FinalScore:          final,
		Verdict:             s.Classify(final),
		Weights:             weights,
		Mode:                s.policy.Mode,
	}, nil
}

// Validate checks the weights and the candidate without scoring, returning the
// normalized weights. Callers use it to reject a request before loading a baseline.
func (s *Scorer) Validate(c Candidate, w Weights) (Weights, error) {
	weights, err := NormalizeWeights(w)
	if err != nil {
		return Weights{}, err
	}
	if err := validateCandidate(c); err != nil {
		return Weights{}, err
	}
	return weights, nil
}

// Classify maps a final score onto the policy's verdict bands.
func (s *Scorer) Classify(score float64) string {
	for _, t := range s.policy.Thresholds {
		if score >= t.Score {
			return t.Label
		}
	}
	return s.policy.FallbackLabel
}

func (s *Scorer) moneyScore(effectiveHourly float64, baseline *BaselineStats) (float64, error) {
	if s.policy.Mode == MoneyModeAbsolute {
		return effectiveHourly / s.policy.AbsoluteScale, nil
	}

	if baseline == nil {
		return 0, fmt.Errorf("%w: baseline required in %s mode", ErrInsufficientData, MoneyModeBaseline)
	}
	if !(baseline.AverageHourlyRate > 0) {
		return 0, fmt.Errorf("%w: baseline average hourly rate %v is not positive", ErrInsufficientData, baseline.AverageHourlyRate)
	}

	return math.Min(effectiveHourly/baseline.AverageHourlyRate, s.policy.MoneyCap), nil
}

func validateCandidate(c Candidate) error {
	switch {
	case !finite(c.TimeAwayHours) || c.TimeAwayHours <= 0:
		return fmt.Errorf("%w: time away must be positive, got %v", ErrInvalidInput, c.TimeAwayHours)
	case !finite(c.Fee) || c.Fee < 0:
		return fmt.Errorf("%w: fee must not be negative, got %v", ErrInvalidInput, c.Fee)
	case !finite(c.TravelCost) || c.TravelCost < 0:
		return fmt.Errorf("%w: travel cost must not be negative, got %v", ErrInvalidInput, c.TravelCost)
	case !finite(c.StageHours) || c.StageHours < 0:
		return fmt.Errorf("%w: stage hours must not be negative, got %v", ErrInvalidInput, c.StageHours)
	case c.Quality.Ordinal() == 0:
		return fmt.Errorf("%w: unknown quality %q", ErrInvalidInput, c.Quality)
	case c.Enjoyment < 1 || c.Enjoyment > maxRating:
		return fmt.Errorf("%w: enjoyment %d outside 1..%d", ErrInvalidInput, c.Enjoyment, maxRating)
	case c.ConnectionsPotential < 1 || c.ConnectionsPotential > maxRating:
		return fmt.Errorf("%w: connections potential %d outside 1..%d", ErrInvalidInput, c.ConnectionsPotential, maxRating)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
