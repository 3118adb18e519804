package scoring

import (
	"fmt"
	"math"
)

// Weights expresses how much money, career value and enjoyment matter for an evaluation.
// Each weight lies in [0,1].
type Weights struct {
	Money     float64 `json:"money" koanf:"money"`
	Career    float64 `json:"career" koanf:"career"`
	Enjoyment float64 `json:"enjoyment" koanf:"enjoyment"`
}

// Sum adds the three weights.
func (w Weights) Sum() float64 {
	return w.Money + w.Career + w.Enjoyment
}

// NormalizeWeights rescales the weights so they sum to 1 while preserving their ratios.
func NormalizeWeights(w Weights) (Weights, error) {
	named := []struct {
		name  string
		value float64
	}{{"money", w.Money}, {"career", w.Career}, {"enjoyment", w.Enjoyment}}
	for _, n := range named {
		if math.IsNaN(n.value) || n.value < 0 || n.value > 1 {
			return Weights{}, fmt.Errorf("%w: %s weight %v outside [0,1]", ErrInvalidInput, n.name, n.value)
		}
	}

	total := w.Sum()
	if total == 0 {
		return Weights{}, ErrDegenerateWeights
	}

	return Weights{
		Money:     w.Money / total,
		Career:    w.Career / total,
		Enjoyment: w.Enjoyment / total,
	}, nil
}
