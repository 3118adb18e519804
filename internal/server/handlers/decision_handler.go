package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/domain/scoring"
	"github.com/mamadbah2/gigboard/internal/service/decision"
)

// DecisionService scores candidate gigs.
type DecisionService interface {
	Evaluate(ctx context.Context, req decision.EvaluateRequest) (scoring.Result, error)
	Policy() scoring.Policy
}

// DecisionHandler serves the decision tool.
type DecisionHandler struct {
	svc    DecisionService
	logger *zap.Logger
}

// NewDecisionHandler constructs the HTTP handler adapter.
func NewDecisionHandler(svc DecisionService, logger *zap.Logger) *DecisionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecisionHandler{svc: svc, logger: logger}
}

// Evaluate scores the posted candidate.
func (h *DecisionHandler) Evaluate(c *gin.Context) {
	var req decision.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid evaluation payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Evaluate(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "unable to evaluate candidate", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Policy returns the active scoring policy.
func (h *DecisionHandler) Policy(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Policy())
}
