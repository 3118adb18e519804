package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/domain/models"
	"github.com/mamadbah2/gigboard/internal/domain/scoring"
)

// VisualsService derives the dashboard series.
type VisualsService interface {
	CumulativeRevenue(ctx context.Context, today time.Time) (models.RevenueComparison, error)
	HourlyRateByCategory(ctx context.Context) ([]models.CategoryRate, error)
	TotalAudience(ctx context.Context) (int, error)
	Baseline(ctx context.Context) (scoring.BaselineStats, error)
}

// VisualsHandler serves the data behind the dashboard charts.
type VisualsHandler struct {
	svc    VisualsService
	now    func() time.Time
	logger *zap.Logger
}

// NewVisualsHandler constructs the HTTP handler adapter.
func NewVisualsHandler(svc VisualsService, logger *zap.Logger) *VisualsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisualsHandler{svc: svc, now: time.Now, logger: logger}
}

// Revenue compares cumulative revenue with last year. ?today=YYYY-MM-DD moves the cutoff.
func (h *VisualsHandler) Revenue(c *gin.Context) {
	today := h.now()
	if raw := c.Query("today"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "today must be YYYY-MM-DD"})
			return
		}
		today = parsed
	}

	cmp, err := h.svc.CumulativeRevenue(c.Request.Context(), today)
	if err != nil {
		respondError(c, h.logger, "unable to compute revenue", err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// Hourly returns the mean hourly rate per gig category.
func (h *VisualsHandler) Hourly(c *gin.Context) {
	rates, err := h.svc.HourlyRateByCategory(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "unable to compute hourly rates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": rates})
}

// Audience returns the total number of people played to.
func (h *VisualsHandler) Audience(c *gin.Context) {
	total, err := h.svc.TotalAudience(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "unable to compute audience", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_audience": total})
}

// Baseline returns the historical hourly baseline.
func (h *VisualsHandler) Baseline(c *gin.Context) {
	stats, err := h.svc.Baseline(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "unable to compute baseline", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
