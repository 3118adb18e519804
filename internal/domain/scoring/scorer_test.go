package scoring_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mamadbah2/gigboard/internal/domain/models"
	"github.com/mamadbah2/gigboard/internal/domain/scoring"
)

func referenceCandidate() scoring.Candidate {
	return scoring.Candidate{
		Fee:                  500,
		TravelCost:           50,
		StageHours:           2,
		TimeAwayHours:        5,
		Quality:              models.QualityHigh,
		Enjoyment:            4,
		ConnectionsPotential: 4,
	}
}

func mustScorer(policy scoring.Policy) *scoring.Scorer {
	s, err := scoring.NewScorer(policy)
	if err != nil {
		panic(err)
	}
	return s
}

func TestNormalizeWeights(t *testing.T) {
	Convey("Given weight triples with at least one positive weight", t, func() {
		rng := rand.New(rand.NewSource(11))

		Convey("Then the normalized weights sum to one and keep their ratios", func() {
			for trial := 0; trial < 500; trial++ {
				w := scoring.Weights{Money: rng.Float64(), Career: rng.Float64(), Enjoyment: rng.Float64()}
				if trial%5 == 0 {
					w.Career = 0
				}
				if w.Sum() == 0 {
					continue
				}

				normalized, err := scoring.NormalizeWeights(w)
				So(err, ShouldBeNil)
				So(math.Abs(normalized.Sum()-1), ShouldBeLessThan, 1e-9)
				So(normalized.Money*w.Sum(), ShouldAlmostEqual, w.Money, 1e-9)
			}
		})
	})

	Convey("Given all weights set to zero", t, func() {
		_, err := scoring.NormalizeWeights(scoring.Weights{})

		Convey("Then normalization reports degenerate weights", func() {
			So(errors.Is(err, scoring.ErrDegenerateWeights), ShouldBeTrue)
		})
	})

	Convey("Given a weight outside [0,1]", t, func() {
		_, errNegative := scoring.NormalizeWeights(scoring.Weights{Money: -0.1, Career: 0.5})
		_, errLarge := scoring.NormalizeWeights(scoring.Weights{Money: 1.5})
		_, errNaN := scoring.NormalizeWeights(scoring.Weights{Enjoyment: math.NaN()})

		Convey("Then normalization reports invalid input", func() {
			So(errors.Is(errNegative, scoring.ErrInvalidInput), ShouldBeTrue)
			So(errors.Is(errLarge, scoring.ErrInvalidInput), ShouldBeTrue)
			So(errors.Is(errNaN, scoring.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestScorer_Evaluate(t *testing.T) {
	Convey("Given a scorer with the default baseline-relative policy", t, func() {
		scorer := mustScorer(scoring.DefaultPolicy())
		weights := scoring.Weights{Money: 0.5, Career: 0.3, Enjoyment: 0.2}
		baseline := &scoring.BaselineStats{AverageHourlyRate: 80, MedianHourlyRate: 75, Count: 10}

		Convey("When the reference gig is evaluated", func() {
			result, err := scorer.Evaluate(referenceCandidate(), weights, baseline)
			So(err, ShouldBeNil)

			Convey("Then every component matches the worked example", func() {
				So(result.NetPay, ShouldAlmostEqual, 450, 1e-9)
				So(result.EffectiveHourlyRate, ShouldAlmostEqual, 90, 1e-9)
				So(result.MoneyScore, ShouldAlmostEqual, 1.125, 1e-9)
				So(result.CareerScore, ShouldAlmostEqual, 0.8, 1e-9)
				So(result.EnjoymentScore, ShouldAlmostEqual, 0.8, 1e-9)
				So(result.FinalScore, ShouldAlmostEqual, 0.9625, 1e-9)
				So(result.Verdict, ShouldEqual, scoring.VerdictStrongYes)
				So(result.Mode, ShouldEqual, scoring.MoneyModeBaseline)
			})
		})

		Convey("When the effective rate is far above the baseline", func() {
			candidate := referenceCandidate()
			candidate.Fee = 2500
			candidate.TravelCost = 0
			result, err := scorer.Evaluate(candidate, weights, &scoring.BaselineStats{AverageHourlyRate: 50})
			So(err, ShouldBeNil)

			Convey("Then the money score is capped at twice the baseline", func() {
				So(result.EffectiveHourlyRate, ShouldAlmostEqual, 500, 1e-9)
				So(result.MoneyScore, ShouldEqual, 2.0)
			})
		})

		Convey("When weights do not sum to one", func() {
			result, err := scorer.Evaluate(referenceCandidate(), scoring.Weights{Money: 1, Career: 0.6, Enjoyment: 0.4}, baseline)
			So(err, ShouldBeNil)

			Convey("Then they are rescaled before the weighted sum", func() {
				So(result.Weights.Money, ShouldAlmostEqual, 0.5, 1e-9)
				So(result.Weights.Career, ShouldAlmostEqual, 0.3, 1e-9)
				So(result.Weights.Enjoyment, ShouldAlmostEqual, 0.2, 1e-9)
				So(result.FinalScore, ShouldAlmostEqual, 0.9625, 1e-9)
			})
		})

		Convey("When all weights are zero", func() {
			_, err := scorer.Evaluate(referenceCandidate(), scoring.Weights{}, baseline)

			Convey("Then evaluation fails with degenerate weights", func() {
				So(errors.Is(err, scoring.ErrDegenerateWeights), ShouldBeTrue)
			})
		})

		Convey("When time away from home is zero", func() {
			candidate := referenceCandidate()
			candidate.TimeAwayHours = 0
			_, err := scorer.Evaluate(candidate, weights, baseline)

			Convey("Then evaluation fails with invalid input", func() {
				So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When monetary or rating fields are out of range", func() {
			mutations := map[string]func(*scoring.Candidate){
				"negative fee":         func(c *scoring.Candidate) { c.Fee = -1 },
				"negative travel":      func(c *scoring.Candidate) { c.TravelCost = -5 },
				"negative stage hours": func(c *scoring.Candidate) { c.StageHours = -1 },
				"negative time away":   func(c *scoring.Candidate) { c.TimeAwayHours = -2 },
				"unknown quality":      func(c *scoring.Candidate) { c.Quality = "Legendary" },
				"enjoyment too high":   func(c *scoring.Candidate) { c.Enjoyment = 6 },
				"enjoyment zero":       func(c *scoring.Candidate) { c.Enjoyment = 0 },
				"connections zero":     func(c *scoring.Candidate) { c.ConnectionsPotential = 0 },
			}

			Convey("Then each is rejected as invalid input", func() {
				for _, mutate := range mutations {
					candidate := referenceCandidate()
					mutate(&candidate)
					_, err := scorer.Evaluate(candidate, weights, baseline)
					So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
				}
			})
		})

		Convey("When no baseline is supplied", func() {
			_, err := scorer.Evaluate(referenceCandidate(), weights, nil)

			Convey("Then evaluation fails with insufficient data", func() {
				So(errors.Is(err, scoring.ErrInsufficientData), ShouldBeTrue)
			})
		})

		Convey("When the baseline average is not positive", func() {
			_, err := scorer.Evaluate(referenceCandidate(), weights, &scoring.BaselineStats{AverageHourlyRate: 0, Count: 3})

			Convey("Then evaluation fails with insufficient data", func() {
				So(errors.Is(err, scoring.ErrInsufficientData), ShouldBeTrue)
			})
		})

		Convey("When the same inputs are evaluated twice", func() {
			first, err1 := scorer.Evaluate(referenceCandidate(), weights, baseline)
			second, err2 := scorer.Evaluate(referenceCandidate(), weights, baseline)

			Convey("Then the results are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
				So(math.Float64bits(second.FinalScore), ShouldEqual, math.Float64bits(first.FinalScore))
			})
		})

		Convey("When the travel cost exceeds the fee", func() {
			candidate := referenceCandidate()
			candidate.TravelCost = 600
			result, err := scorer.Evaluate(candidate, weights, baseline)
			So(err, ShouldBeNil)

			Convey("Then the money score goes negative rather than being clamped", func() {
				So(result.NetPay, ShouldAlmostEqual, -100, 1e-9)
				So(result.MoneyScore, ShouldBeLessThan, 0)
			})
		})
	})

	Convey("Given a scorer in absolute money mode", t, func() {
		policy := scoring.DefaultPolicy()
		policy.Mode = scoring.MoneyModeAbsolute
		policy.AbsoluteScale = 100
		scorer := mustScorer(policy)

		Convey("When the reference gig is evaluated without a baseline", func() {
			result, err := scorer.Evaluate(referenceCandidate(), scoring.Weights{Money: 0.5, Career: 0.3, Enjoyment: 0.2}, nil)
			So(err, ShouldBeNil)

			Convey("Then the money score is the hourly rate over the fixed scale", func() {
				So(result.MoneyScore, ShouldAlmostEqual, 0.9, 1e-9)
				So(result.FinalScore, ShouldAlmostEqual, 0.45+0.24+0.16, 1e-9)
				So(result.Verdict, ShouldEqual, scoring.VerdictMaybe)
				So(result.Mode, ShouldEqual, scoring.MoneyModeAbsolute)
			})
		})

		Convey("When a baseline is supplied anyway", func() {
			withBaseline, err := scorer.Evaluate(referenceCandidate(), scoring.Weights{Money: 1}, &scoring.BaselineStats{AverageHourlyRate: 10})
			So(err, ShouldBeNil)

			Convey("Then it is ignored and not capped", func() {
				So(withBaseline.MoneyScore, ShouldAlmostEqual, 0.9, 1e-9)
			})
		})
	})
}

func TestScorer_Validate(t *testing.T) {
	Convey("Given the default scorer", t, func() {
		scorer := mustScorer(scoring.DefaultPolicy())

		Convey("A valid request yields normalized weights without a baseline", func() {
			w, err := scorer.Validate(referenceCandidate(), scoring.Weights{Money: 1, Career: 1, Enjoyment: 0})
			So(err, ShouldBeNil)
			So(w.Money, ShouldAlmostEqual, 0.5, 1e-12)
			So(w.Career, ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("Degenerate weights are caught before the candidate", func() {
			c := referenceCandidate()
			c.TimeAwayHours = 0
			_, err := scorer.Validate(c, scoring.Weights{})
			So(errors.Is(err, scoring.ErrDegenerateWeights), ShouldBeTrue)
		})

		Convey("An invalid candidate is reported as invalid input", func() {
			c := referenceCandidate()
			c.TimeAwayHours = 0
			_, err := scorer.Validate(c, scoring.DefaultPolicy().DefaultWeights)
			So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestScorer_Classify(t *testing.T) {
	Convey("Given the default verdict bands", t, func() {
		scorer := mustScorer(scoring.DefaultPolicy())

		Convey("Then scores map onto four ordered bands", func() {
			So(scorer.Classify(1.4), ShouldEqual, scoring.VerdictStrongYes)
			So(scorer.Classify(0.9), ShouldEqual, scoring.VerdictStrongYes)
			So(scorer.Classify(0.8999), ShouldEqual, scoring.VerdictMaybe)
			So(scorer.Classify(0.65), ShouldEqual, scoring.VerdictMaybe)
			So(scorer.Classify(0.5), ShouldEqual, scoring.VerdictBorderline)
			So(scorer.Classify(0.39), ShouldEqual, scoring.VerdictNotWorthIt)
			So(scorer.Classify(-1), ShouldEqual, scoring.VerdictNotWorthIt)
		})
	})

	Convey("Given caller-supplied thresholds in arbitrary order", t, func() {
		policy := scoring.DefaultPolicy()
		policy.Thresholds = []scoring.Threshold{
			{Score: 3, Label: "borderline"},
			{Score: 8, Label: "strong yes"},
			{Score: 5, Label: "probably worth it"},
		}
		scorer := mustScorer(policy)

		Convey("Then the highest matching threshold wins", func() {
			So(scorer.Classify(9), ShouldEqual, "strong yes")
			So(scorer.Classify(6), ShouldEqual, "probably worth it")
			So(scorer.Classify(3), ShouldEqual, "borderline")
			So(scorer.Classify(1), ShouldEqual, scoring.VerdictNotWorthIt)
		})

		Convey("And the exposed policy lists thresholds from high to low", func() {
			ordered := scorer.Policy().Thresholds
			So(ordered[0].Score, ShouldEqual, 8)
			So(ordered[2].Score, ShouldEqual, 3)
			So(policy.Thresholds[0].Score, ShouldEqual, 3)
		})
	})
}

func TestNewScorer_RejectsBrokenPolicies(t *testing.T) {
	Convey("Given policies with broken settings", t, func() {
		unknownMode := scoring.DefaultPolicy()
		unknownMode.Mode = "vibes"

		zeroScale := scoring.DefaultPolicy()
		zeroScale.Mode = scoring.MoneyModeAbsolute
		zeroScale.AbsoluteScale = 0

		zeroCap := scoring.DefaultPolicy()
		zeroCap.MoneyCap = 0

		noFallback := scoring.DefaultPolicy()
		noFallback.FallbackLabel = ""

		unlabeled := scoring.DefaultPolicy()
		unlabeled.Thresholds = append(unlabeled.Thresholds, scoring.Threshold{Score: 0.1})

		duplicate := scoring.DefaultPolicy()
		duplicate.Thresholds = append(duplicate.Thresholds, scoring.Threshold{Score: 0.9, Label: "again"})

		zeroDefaults := scoring.DefaultPolicy()
		zeroDefaults.DefaultWeights = scoring.Weights{}

		Convey("Then the scorer refuses to build", func() {
			for _, policy := range []scoring.Policy{unknownMode, zeroScale, zeroCap, noFallback, unlabeled, duplicate} {
				_, err := scoring.NewScorer(policy)
				So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
			}

			_, err := scoring.NewScorer(zeroDefaults)
			So(errors.Is(err, scoring.ErrDegenerateWeights), ShouldBeTrue)
		})
	})
}
