package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/domain/models"
)

const dateLayout = "2006-01-02"

// BookingService is what the gig endpoints need from the booking layer.
type BookingService interface {
	AddBooking(ctx context.Context, b models.Booking) error
	ListBookings(ctx context.Context) ([]models.Booking, error)
	Refresh(ctx context.Context) error
}

// GigHandler serves the booking input form and history.
type GigHandler struct {
	svc    BookingService
	logger *zap.Logger
}

// NewGigHandler constructs the HTTP handler adapter.
func NewGigHandler(svc BookingService, logger *zap.Logger) *GigHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GigHandler{svc: svc, logger: logger}
}

// bookingRequest is the input form payload. Dates are calendar days.
type bookingRequest struct {
	GigDate              string  `json:"gig_date" binding:"required"`
	BookingDate          string  `json:"booking_date"`
	Category             string  `json:"category" binding:"required"`
	Fee                  float64 `json:"fee"`
	HoursPlayed          float64 `json:"hours_played"`
	TimeAwayHours        float64 `json:"time_away_hours"`
	TravelCost           float64 `json:"travel_cost"`
	Quality              string  `json:"quality" binding:"required"`
	Enjoyment            int     `json:"enjoyment"`
	ConnectionsPotential int     `json:"connections_potential"`
	CrowdSize            int     `json:"crowd_size"`
}

func (r bookingRequest) toBooking() (models.Booking, error) {
	gigDate, err := time.Parse(dateLayout, strings.TrimSpace(r.GigDate))
	if err != nil {
		return models.Booking{}, errors.New("gig_date must be YYYY-MM-DD")
	}
	var bookingDate time.Time
	if r.BookingDate != "" {
		if bookingDate, err = time.Parse(dateLayout, strings.TrimSpace(r.BookingDate)); err != nil {
			return models.Booking{}, errors.New("booking_date must be YYYY-MM-DD")
		}
	}
	quality, ok := models.ParseQuality(r.Quality)
	if !ok {
		quality = models.Quality(r.Quality)
	}
	return models.Booking{
		GigDate:              gigDate,
		BookingDate:          bookingDate,
		Category:             strings.TrimSpace(r.Category),
		Fee:                  r.Fee,
		HoursPlayed:          r.HoursPlayed,
		TimeAwayHours:        r.TimeAwayHours,
		TravelCost:           r.TravelCost,
		Quality:              quality,
		Enjoyment:            r.Enjoyment,
		ConnectionsPotential: r.ConnectionsPotential,
		CrowdSize:            r.CrowdSize,
	}, nil
}

// Create records a booking.
func (h *GigHandler) Create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid booking payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	booking, err := req.toBooking()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.AddBooking(c.Request.Context(), booking); err != nil {
		respondError(c, h.logger, "unable to record booking", err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// List returns every recorded booking.
func (h *GigHandler) List(c *gin.Context) {
	bookings, err := h.svc.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "unable to load bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// Refresh drops the cached booking snapshot.
func (h *GigHandler) Refresh(c *gin.Context) {
	if err := h.svc.Refresh(c.Request.Context()); err != nil {
		respondError(c, h.logger, "unable to refresh bookings", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Categories lists the gig types offered by the input form.
func (h *GigHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories})
}
