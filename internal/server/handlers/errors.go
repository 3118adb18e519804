package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/domain/scoring"
	"github.com/mamadbah2/gigboard/internal/service/gigs"
	"github.com/mamadbah2/gigboard/internal/service/reporting"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scoring.ErrInvalidInput),
		errors.Is(err, scoring.ErrDegenerateWeights),
		errors.Is(err, gigs.ErrInvalidBooking):
		return http.StatusBadRequest
	case errors.Is(err, scoring.ErrInsufficientData),
		errors.Is(err, reporting.ErrNoBookings):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// respondError writes the error body. Upstream failures are logged and hidden
// from the caller; caller mistakes are echoed back.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusBadGateway {
		logger.Error(msg, zap.Error(err))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Debug(msg, zap.Error(err), zap.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}
