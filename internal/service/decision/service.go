// Package decision evaluates candidate gigs against the recorded history.
package decision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/domain/scoring"
	"github.com/mamadbah2/gigboard/pkg/metrics"
)

// BaselineSource computes the historical hourly baseline.
type BaselineSource interface {
	Baseline(ctx context.Context) (scoring.BaselineStats, error)
}

// EvaluateRequest is one candidate plus optional weights. Nil weights fall
// back to the policy defaults.
type EvaluateRequest struct {
	Candidate scoring.Candidate `json:"candidate"`
	Weights   *scoring.Weights  `json:"weights,omitempty"`
}

// Service runs the scorer with the baseline it needs.
type Service struct {
	scorer   *scoring.Scorer
	baseline BaselineSource
	metrics  *metrics.Manager
	logger   *zap.Logger
}

// NewService wires the decision tool. baseline may be nil when the policy
// scores money in absolute mode.
func NewService(scorer *scoring.Scorer, baseline BaselineSource, m *metrics.Manager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scorer: scorer, baseline: baseline, metrics: m, logger: logger}
}

// Evaluate scores a candidate.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (scoring.Result, error) {
	policy := s.scorer.Policy()

	weights := policy.DefaultWeights
	if req.Weights != nil {
		weights = *req.Weights
	}

	if _, err := s.scorer.Validate(req.Candidate, weights); err != nil {
		s.metrics.RecordEvaluationError(errorReason(err))
		s.logger.Debug("evaluation rejected", zap.Error(err))
		return scoring.Result{}, err
	}

	var baseline *scoring.BaselineStats
	if policy.Mode == scoring.MoneyModeBaseline {
		if s.baseline == nil {
			err := fmt.Errorf("%w: no booking history configured", scoring.ErrInsufficientData)
			s.metrics.RecordEvaluationError(errorReason(err))
			return scoring.Result{}, err
		}
		stats, err := s.baseline.Baseline(ctx)
		if err != nil {
			s.metrics.RecordEvaluationError(errorReason(err))
			return scoring.Result{}, fmt.Errorf("load baseline: %w", err)
		}
		baseline = &stats
	}

	result, err := s.scorer.Evaluate(req.Candidate, weights, baseline)
	if err != nil {
		s.metrics.RecordEvaluationError(errorReason(err))
		s.logger.Debug("evaluation rejected", zap.Error(err))
		return scoring.Result{}, err
	}

	s.metrics.RecordEvaluation(result.Verdict, result.FinalScore)
	s.logger.Info("candidate evaluated",
		zap.Float64("final_score", result.FinalScore),
		zap.String("verdict", result.Verdict),
		zap.String("mode", string(result.Mode)))
	return result, nil
}

// Policy returns the active scoring policy.
func (s *Service) Policy() scoring.Policy {
	return s.scorer.Policy()
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, scoring.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, scoring.ErrDegenerateWeights):
		return "degenerate_weights"
	case errors.Is(err, scoring.ErrInsufficientData):
		return "insufficient_data"
	default:
		return "internal"
	}
}
