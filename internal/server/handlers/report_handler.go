package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/domain/models"
	"github.com/mamadbah2/gigboard/internal/service/reporting"
)

const (
	defaultReportLimit = 10
	maxReportLimit     = 100
)

// ReportService publishes and lists weekly summaries.
type ReportService interface {
	PublishWeeklyReport(ctx context.Context, now time.Time) (models.WeeklyReport, error)
	LatestWeeklyReports(ctx context.Context, limit int64) ([]models.WeeklyReport, error)
}

// ReportHandler triggers weekly summaries on demand.
type ReportHandler struct {
	svc    ReportService
	now    func() time.Time
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, now: time.Now, logger: logger}
}

// Publish generates the weekly summary now and sends it.
func (h *ReportHandler) Publish(c *gin.Context) {
	report, err := h.svc.PublishWeeklyReport(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.logger, "unable to publish weekly report", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "message": reporting.FormatWeeklyReport(report)})
}

// Latest lists archived summaries, newest first. ?limit caps the count.
func (h *ReportHandler) Latest(c *gin.Context) {
	limit := int64(defaultReportLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > maxReportLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	reports, err := h.svc.LatestWeeklyReports(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, "unable to list weekly reports", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
